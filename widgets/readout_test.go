package widgets

import (
	"image/color"
	"testing"

	"gioui.org/font"
)

func TestReadoutLabels(t *testing.T) {
	green := color.NRGBA{G: 0xFF, A: 0xFF}
	r := Readout{
		Lines: []string{"FPS: 60 | 1% Low: 58", "CPU: test", "GPU: test"},
		Size:  14,
		Color: green,
	}

	labels := r.labels()
	if len(labels) != len(r.Lines) {
		t.Fatalf("%d labels for %d lines", len(labels), len(r.Lines))
	}
	for i, l := range labels {
		if l.Text != r.Lines[i] || l.Color != green || l.LabelStyle.MaxLines != 1 {
			t.Errorf("label %d: %q color %v maxLines %d", i, l.Text, l.Color, l.LabelStyle.MaxLines)
		}
		want := font.Normal
		if i == 0 {
			want = font.Bold
		}
		if l.Font.Weight != want {
			t.Errorf("label %d weight %v, want %v", i, l.Font.Weight, want)
		}
	}
	if l := labels[0]; l.Font.Typeface != MonoFace {
		t.Errorf("typeface %q, want %q", l.Font.Typeface, MonoFace)
	}
}

func TestNewBoxPaintsThemeBackground(t *testing.T) {
	b := NewBox()
	if !b.Background || b.BackgroundColor != Theme.Bg {
		t.Fatalf("box %+v", b)
	}
}
