package widgets

import (
	"image/color"

	"gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/text"
	"gioui.org/widget/material"
)

// MonoFace keeps digits from jittering as the numbers change.
const MonoFace font.Typeface = "Go Mono"

var Theme = NewTheme(color.NRGBA{0x00, 0xFF, 0x00, 0xFF}, color.NRGBA{0x00, 0x00, 0x00, 0xB0})

func NewTheme(fg, bg color.NRGBA) *material.Theme {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	th.Face = MonoFace
	SetColors(th, fg, bg)
	return th
}

func SetColors(th *material.Theme, fg, bg color.NRGBA) {
	th.Fg = fg
	th.Bg = bg
	th.ContrastFg = bg
	th.ContrastBg = fg
}
