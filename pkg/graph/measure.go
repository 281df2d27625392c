package graph

import (
	"math"
	"unicode/utf8"

	"github.com/gogpu/gg"

	"github.com/matzehuels/nodecanvas/pkg/canvas"
	"github.com/matzehuels/nodecanvas/pkg/theme"
)

// GlyphAdvance is the width of one glyph as a fraction of the font size.
const GlyphAdvance = 0.6

// TextWidth is the width of s set at the given font size.
func TextWidth(s string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * GlyphAdvance * size
}

// Measure returns the sizes the node occupies when drawn with style.
// Pass the zoomed style of the current frame so the sizes are in the same
// units as the rects computed from them.
func (n *Node) Measure(style *theme.Style) canvas.NodeState {
	sp := style.Spacing
	body := style.Text.Body

	title := gg.Pt(
		TextWidth(n.DisplayTitle(), body)+2*sp.ButtonPadding.X,
		math.Max(sp.InteractSize.Y, body+2*sp.ButtonPadding.Y),
	)
	return canvas.NodeState{
		TitleSize:   title,
		InputsSize:  measurePins(n.Inputs, style),
		OutputsSize: measurePins(n.Outputs, style),
	}
}

// measurePins sizes a column of pins: one row per pin, each row a pin dot
// followed by its label.
func measurePins(pins []string, style *theme.Style) gg.Point {
	if len(pins) == 0 {
		return gg.Point{}
	}
	sp := style.Spacing
	dot := 2*style.Visuals.PinRadius + sp.IconSpacing

	var width float64
	for _, p := range pins {
		width = math.Max(width, dot+TextWidth(p, style.Text.Body))
	}
	rows := float64(len(pins))
	return gg.Pt(width, rows*sp.InteractSize.Y+(rows-1)*sp.ItemSpacing.Y)
}

// PinOffset is the vertical distance from the top of a pin column to the
// centre of row i.
func PinOffset(spacing theme.Spacing, i int) float64 {
	return float64(i)*(spacing.InteractSize.Y+spacing.ItemSpacing.Y) + spacing.InteractSize.Y/2
}
