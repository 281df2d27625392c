package canvas

import (
	"time"

	"github.com/gogpu/gg"

	"github.com/matzehuels/nodecanvas/pkg/anim"
	"github.com/matzehuels/nodecanvas/pkg/memory"
	"github.com/matzehuels/nodecanvas/pkg/theme"
)

// Animation sub-keys under the canvas ID, one per eased scalar.
const (
	keyOffsetX = "zoom-offset-x"
	keyOffsetY = "zoom-offset-y"
	keyScale   = "zoom-scale"
)

// Zoom is the animated viewport of the current frame. It is derived from a
// Viewport every frame and never stored.
type Zoom struct {
	Offset gg.Point `json:"offset"`
	Scale  float64  `json:"scale"`
}

// DeriveZoom eases each component of v toward its current value.
func DeriveZoom(v Viewport, a *anim.Animator, id memory.ID, duration time.Duration) Zoom {
	x := a.Value(id.With(keyOffsetX), v.Offset.X, duration)
	y := a.Value(id.With(keyOffsetY), v.Offset.Y, duration)
	scale := a.Value(id.With(keyScale), v.Scale, duration)

	return Zoom{Offset: gg.Pt(x, y), Scale: scale}
}

// IsAnimating reports whether any component of the zoom under id is still
// moving toward its target.
func IsAnimating(a *anim.Animator, id memory.ID) bool {
	return a.IsAnimating(id.With(keyOffsetX)) ||
		a.IsAnimating(id.With(keyOffsetY)) ||
		a.IsAnimating(id.With(keyScale))
}

// GraphToScreen maps a graph point into the on-screen viewport.
func (z Zoom) GraphToScreen(p gg.Point, viewport gg.Rect) gg.Point {
	return p.Mul(z.Scale).Sub(z.Offset).Add(viewport.Min)
}

// ScreenToGraph is the inverse of GraphToScreen.
func (z Zoom) ScreenToGraph(p gg.Point, viewport gg.Rect) gg.Point {
	return p.Add(z.Offset).Sub(viewport.Min).Div(z.Scale)
}

// GraphRectToScreen maps both corners of r.
func (z Zoom) GraphRectToScreen(r gg.Rect, viewport gg.Rect) gg.Rect {
	return gg.Rect{Min: z.GraphToScreen(r.Min, viewport), Max: z.GraphToScreen(r.Max, viewport)}
}

// GraphSizeToScreen scales a graph-space size to pixels.
func (z Zoom) GraphSizeToScreen(size gg.Point) gg.Point {
	return size.Mul(z.Scale)
}

// ScreenSizeToGraph scales a pixel size to graph space.
func (z Zoom) ScreenSizeToGraph(size gg.Point) gg.Point {
	return size.Div(z.Scale)
}

// GraphDistanceToScreen scales a graph-space length to pixels.
func (z Zoom) GraphDistanceToScreen(d float64) float64 {
	return d * z.Scale
}

// ScreenDistanceToGraph scales a pixel length to graph space.
func (z Zoom) ScreenDistanceToGraph(d float64) float64 {
	return d / z.Scale
}

// ApplyStyle zooms the size-dependent parameters of s by the animated scale.
func (z Zoom) ApplyStyle(s *theme.Style) {
	s.Zoom(z.Scale)
}
