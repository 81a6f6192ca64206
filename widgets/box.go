package widgets

import (
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
)

type Box struct {
	Radius          int
	Inset           layout.Inset
	BackgroundColor color.NRGBA
	Background      bool
	// Fill stretches the box to the minimum constraints.
	Fill bool
}

// NewBox returns a panel painted with the theme background.
func NewBox() Box {
	return Box{
		Radius:          6,
		Inset:           layout.UniformInset(unit.Dp(8)),
		BackgroundColor: Theme.Bg,
		Background:      true,
	}
}

func (b Box) Layout(gtx layout.Context, widget layout.Widget) layout.Dimensions {
	macro := op.Record(gtx.Ops)
	gtx2 := gtx
	if !b.Fill {
		gtx2.Constraints.Min = image.Point{}
	}
	dims := b.Inset.Layout(gtx2, widget)
	call := macro.Stop()

	dims.Size.X = max(dims.Size.X, gtx2.Constraints.Min.X)
	dims.Size.Y = max(dims.Size.Y, gtx2.Constraints.Min.Y)

	background := func(gtx layout.Context) layout.Dimensions {
		bg := clip.RRect{
			SE: b.Radius, SW: b.Radius,
			NW: b.Radius, NE: b.Radius,
			Rect: image.Rectangle{Max: dims.Size},
		}
		if b.Background {
			paint.FillShape(gtx.Ops, b.BackgroundColor, bg.Op(gtx.Ops))
		}
		return dims
	}

	content := func(gtx layout.Context) layout.Dimensions {
		call.Add(gtx.Ops)
		return dims
	}

	return layout.Background{}.Layout(gtx2, background, content)
}
