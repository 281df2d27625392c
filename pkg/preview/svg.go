package preview

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/gogpu/gg"
)

// minNoodleBend keeps short wires from collapsing into straight lines.
const minNoodleBend = 20

// RenderSVG draws the scene as an SVG document.
func RenderSVG(s *Scene) []byte {
	st := s.Style
	v := st.Visuals

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", v.Background)

	for _, w := range s.Wires {
		a, b, c, d := noodle(w)
		fmt.Fprintf(&buf, `  <path class="noodle" d="M %.2f %.2f C %.2f %.2f %.2f %.2f %.2f %.2f" fill="none" stroke="%s" stroke-width="%.2f"/>`+"\n",
			a.X, a.Y, b.X, b.Y, c.X, c.Y, d.X, d.Y, v.Noodle, v.NoodleWidth)
	}

	for _, b := range s.Boxes {
		renderBoxSVG(&buf, s, b)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderBoxSVG(buf *bytes.Buffer, s *Scene, b Box) {
	st := s.Style
	v := st.Visuals
	f := st.NodeFrame
	id := html.EscapeString(b.ID)

	fmt.Fprintf(buf, `  <g class="node" id="node-%s">`+"\n", id)
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" fill="%s" stroke="%s" stroke-width="%.2f"/>`+"\n",
		b.Frame.Min.X, b.Frame.Min.Y, width(b.Frame), height(b.Frame), f.Rounding, v.NodeFill, v.Stroke, f.StrokeWidth)
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
		b.Header.Min.X, b.Header.Min.Y, width(b.Body), height(b.Header), v.TitleFill)
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-size="%.2f" font-family="sans-serif" dominant-baseline="middle" fill="%s">%s</text>`+"\n",
		b.Header.Min.X+st.Spacing.ButtonPadding.X, (b.Header.Min.Y+b.Header.Max.Y)/2, st.Text.Body, v.Text, html.EscapeString(b.Title))

	if b.Openness > 0 {
		renderPinsSVG(buf, s, b.Inputs, "start", 1)
		renderPinsSVG(buf, s, b.Outputs, "end", -1)
	}
	buf.WriteString("  </g>\n")
}

// renderPinsSVG draws one pin column. dir is the side the labels extend to:
// 1 for right of the dot, -1 for left.
func renderPinsSVG(buf *bytes.Buffer, s *Scene, pins []Pin, anchor string, dir float64) {
	st := s.Style
	r := st.Visuals.PinRadius
	gap := r + st.Spacing.IconSpacing
	for _, p := range pins {
		fmt.Fprintf(buf, `    <circle class="pin" cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n", p.At.X, p.At.Y, r, st.Visuals.Pin)
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-size="%.2f" font-family="sans-serif" text-anchor="%s" dominant-baseline="middle" fill="%s">%s</text>`+"\n",
			p.At.X+dir*gap, p.At.Y, st.Text.Body, anchor, st.Visuals.Text, html.EscapeString(p.Name))
	}
}

// noodle returns the control points of the cubic curve drawn for w. The
// curve leaves the output pin to the right and enters the input pin from the
// left.
func noodle(w Wire) (a, b, c, d gg.Point) {
	bend := math.Max(math.Abs(w.To.X-w.From.X)/2, minNoodleBend)
	return w.From, w.From.Add(gg.Pt(bend, 0)), w.To.Sub(gg.Pt(bend, 0)), w.To
}

func width(r gg.Rect) float64  { return r.Max.X - r.Min.X }
func height(r gg.Rect) float64 { return r.Max.Y - r.Min.Y }
