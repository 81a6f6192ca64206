package widgets

import (
	"image/color"

	"gioui.org/font"
	"gioui.org/unit"
	"gioui.org/widget/material"
)

type LabelStyle struct {
	material.LabelStyle
}

func (l LabelStyle) Weight(w font.Weight) LabelStyle {
	l.LabelStyle.Font.Weight = w
	return l
}

func (l LabelStyle) Colored(c color.NRGBA) LabelStyle {
	l.LabelStyle.Color = c
	return l
}

func (l LabelStyle) MaxLines(m int) LabelStyle {
	l.LabelStyle.MaxLines = m
	return l
}

func Label(size unit.Sp, txt string) LabelStyle {
	return LabelStyle{LabelStyle: material.Label(Theme, size, txt)}
}
