// Package preview draws a laid-out canvas frame to static formats.
//
// A [Scene] is built from a canvas.Frame, the zoomed style of the pass that
// produced it and the graph document that was drawn. It holds screen-space
// geometry only; the renderers never look at graph coordinates.
//
// # Formats
//
//   - svg: hand-written SVG with node frames, titles, pins and noodles
//   - png: raster via gogpu/gg (shapes only, no text)
//   - dot: Graphviz source with every node pinned at its screen position
//   - dot.svg: the dot source rendered by Graphviz' neato engine
//
// [Render] produces several formats concurrently.
package preview

import (
	"encoding/json"

	"github.com/gogpu/gg"

	"github.com/matzehuels/nodecanvas/pkg/cache"
	"github.com/matzehuels/nodecanvas/pkg/canvas"
	"github.com/matzehuels/nodecanvas/pkg/graph"
	"github.com/matzehuels/nodecanvas/pkg/theme"
)

// Pin is one pin dot with its label.
type Pin struct {
	Name string   `json:"name"`
	At   gg.Point `json:"at"`
}

// Box is a node as it appears on screen.
type Box struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Openness float64 `json:"openness"`
	Body     gg.Rect `json:"body"`
	Header   gg.Rect `json:"header"`
	Frame    gg.Rect `json:"frame"` // Body grown by the node frame's margin
	Inputs   []Pin   `json:"inputs,omitempty"`
	Outputs  []Pin   `json:"outputs,omitempty"`
}

// Wire is an edge between two pins.
type Wire struct {
	FromNode string   `json:"from_node"`
	FromPin  string   `json:"from_pin"`
	ToNode   string   `json:"to_node"`
	ToPin    string   `json:"to_pin"`
	From     gg.Point `json:"from"`
	To       gg.Point `json:"to"`
}

// Scene is a frame ready to be drawn.
type Scene struct {
	Canvas string       `json:"canvas"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Style  *theme.Style `json:"-"`
	Boxes  []Box        `json:"boxes"`
	Wires  []Wire       `json:"wires"`
}

// NewScene builds the scene for frame f. style must be the zoomed style of
// the pass that produced f; doc supplies titles, pin names and edges. Nodes
// of f that are not in doc are drawn with their ID as title and no pins.
func NewScene(f canvas.Frame, style *theme.Style, doc *graph.Document) *Scene {
	if style == nil {
		style = theme.Default()
	}
	if doc == nil {
		doc = &graph.Document{}
	}
	s := &Scene{
		Canvas: f.Canvas,
		Width:  f.Viewport.Max.X - f.Viewport.Min.X,
		Height: f.Viewport.Max.Y - f.Viewport.Min.Y,
		Style:  style,
	}

	// Screen rects are relative to the canvas viewport; the scene starts at
	// the viewport's top-left corner.
	origin := f.Viewport.Min
	index := make(map[string]int, len(f.Nodes))
	for _, l := range f.Nodes {
		n, _ := doc.Node(l.ID)
		index[l.ID] = len(s.Boxes)
		s.Boxes = append(s.Boxes, newBox(l, n, style, origin))
	}

	for _, e := range doc.Edges {
		fi, ok1 := index[e.From]
		ti, ok2 := index[e.To]
		if !ok1 || !ok2 {
			continue
		}
		from, to := &s.Boxes[fi], &s.Boxes[ti]
		fn, _ := doc.Node(e.From)
		tn, _ := doc.Node(e.To)
		oi, ii := e.OutputIndex(fn), e.InputIndex(tn)
		if oi < 0 || oi >= len(from.Outputs) || ii < 0 || ii >= len(to.Inputs) {
			continue
		}
		s.Wires = append(s.Wires, Wire{
			FromNode: e.From,
			FromPin:  from.Outputs[oi].Name,
			ToNode:   e.To,
			ToPin:    to.Inputs[ii].Name,
			From:     from.Outputs[oi].At,
			To:       to.Inputs[ii].At,
		})
	}
	return s
}

func newBox(l canvas.NodeLayout, n *graph.Node, style *theme.Style, origin gg.Point) Box {
	b := Box{
		ID:       l.ID,
		Title:    l.ID,
		Openness: l.Openness,
		Body:     shift(l.Body, origin),
		Header:   shift(l.Title, origin),
	}
	m := style.NodeFrame.TotalMargin()
	b.Frame = gg.Rect{
		Min: b.Body.Min.Sub(gg.Pt(m.Left, m.Top)),
		Max: b.Body.Max.Add(gg.Pt(m.Right, m.Bottom)),
	}
	if n == nil {
		return b
	}
	b.Title = n.DisplayTitle()

	// Collapsed pins fold into the title's vertical centre.
	mid := (b.Header.Min.Y + b.Header.Max.Y) / 2
	pinY := func(col gg.Rect, i int) float64 {
		y := col.Min.Y + graph.PinOffset(style.Spacing, i)
		return mid + (y-mid)*l.Openness
	}

	in, out := shift(l.Inputs, origin), shift(l.Outputs, origin)
	r := style.Visuals.PinRadius
	for i, name := range n.Inputs {
		b.Inputs = append(b.Inputs, Pin{Name: name, At: gg.Pt(in.Min.X+r, pinY(in, i))})
	}
	for i, name := range n.Outputs {
		b.Outputs = append(b.Outputs, Pin{Name: name, At: gg.Pt(out.Max.X-r, pinY(out, i))})
	}
	return b
}

func shift(r gg.Rect, origin gg.Point) gg.Rect {
	return gg.Rect{Min: r.Min.Sub(origin), Max: r.Max.Sub(origin)}
}

// Hash identifies the scene's geometry and colours, for caching rendered
// output.
func (s *Scene) Hash() string {
	data, _ := json.Marshal(struct {
		*Scene
		Visuals theme.Visuals `json:"visuals"`
	}{s, s.Style.Visuals})
	return cache.Hash(data)
}
