package widgets

import (
	"image/color"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/unit"
)

// Readout is the overlay panel: one label per line on a rounded background.
// The first line, the frame rate, is bold.
type Readout struct {
	Lines      []string
	Size       unit.Sp
	Color      color.NRGBA
	Background color.NRGBA
}

func (r Readout) Layout(gtx layout.Context) layout.Dimensions {
	box := NewBox()
	box.BackgroundColor = r.Background
	box.Fill = true

	return box.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		labels := r.labels()
		children := make([]layout.FlexChild, 0, len(labels))
		for _, l := range labels {
			children = append(children, layout.Rigid(l.Layout))
		}
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
	})
}

func (r Readout) labels() []LabelStyle {
	labels := make([]LabelStyle, 0, len(r.Lines))
	for i, line := range r.Lines {
		l := Label(r.Size, line).Colored(r.Color).MaxLines(1)
		if i == 0 {
			l = l.Weight(font.Bold)
		}
		labels = append(labels, l)
	}
	return labels
}
