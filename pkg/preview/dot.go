package preview

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// pointsPerInch converts scene pixels to the inches Graphviz sizes nodes in.
const pointsPerInch = 72.0

// ToDOT converts the scene to Graphviz DOT. Every node is pinned at its
// screen position so neato reproduces the canvas layout instead of
// computing its own; edges run between the named pins.
func ToDOT(s *Scene) string {
	v := s.Style.Visuals

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  splines=true;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", v.Background)
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fixedsize=true, fillcolor=%q, color=%q, fontcolor=%q, fontsize=%.1f];\n",
		v.NodeFill, v.Stroke, v.Text, s.Style.Text.Body)
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=%.1f, arrowhead=none];\n", v.Noodle, v.NoodleWidth)
	buf.WriteString("\n")

	for _, b := range s.Boxes {
		cx := (b.Frame.Min.X + b.Frame.Max.X) / 2
		cy := (b.Frame.Min.Y + b.Frame.Max.Y) / 2
		attrs := []string{
			fmt.Sprintf("label=%q", dotLabel(b)),
			// Graphviz' y axis points up.
			fmt.Sprintf("pos=\"%.2f,%.2f!\"", cx, -cy),
			fmt.Sprintf("width=%.3f", width(b.Frame)/pointsPerInch),
			fmt.Sprintf("height=%.3f", height(b.Frame)/pointsPerInch),
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", b.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, w := range s.Wires {
		fmt.Fprintf(&buf, "  %q -> %q [taillabel=%q, headlabel=%q];\n", w.FromNode, w.ToNode, w.FromPin, w.ToPin)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(b Box) string {
	if b.Openness <= 0 || len(b.Inputs)+len(b.Outputs) == 0 {
		return b.Title
	}
	lines := []string{b.Title}
	for i := 0; i < max(len(b.Inputs), len(b.Outputs)); i++ {
		var in, out string
		if i < len(b.Inputs) {
			in = b.Inputs[i].Name
		}
		if i < len(b.Outputs) {
			out = b.Outputs[i].Name
		}
		lines = append(lines, strings.TrimSpace(in+"    "+out))
	}
	return strings.Join(lines, "\n")
}

// RenderDOT lays out DOT source with neato, honouring pinned positions, and
// returns SVG.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
