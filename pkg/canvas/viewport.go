package canvas

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/matzehuels/nodecanvas/pkg/memory"
)

// Viewport is the persisted pan/zoom state of a canvas.
type Viewport struct {
	// Offset is where the viewport's top-left corner sits, in scaled graph
	// units.
	Offset gg.Point `json:"offset"`
	// Scale is the zoom factor. Always positive.
	Scale float64 `json:"scale"`
}

// DefaultViewport is the state of a canvas that has never been panned or
// zoomed.
func DefaultViewport() Viewport {
	return Viewport{Scale: 1}
}

// LoadViewport returns the viewport stored under id, if any.
func LoadViewport(m *memory.Memory, id memory.ID) (Viewport, bool) {
	return memory.Get[Viewport](m, id)
}

// Store overwrites the viewport stored under id.
func (v Viewport) Store(m *memory.Memory, id memory.ID) {
	memory.Insert(m, id, v)
}

// Valid reports whether the scale is positive and every field is finite.
func (v Viewport) Valid() bool {
	return v.Scale > 0 && finite(v.Scale) && finite(v.Offset.X) && finite(v.Offset.Y)
}

// ApplyPivotZoom multiplies the scale by delta while keeping the graph point
// under pivot (a screen point) in place.
//
// With a the pivot in the pre-scale offset frame, the forward transform at
// the pivot stays fixed when offset grows by a*delta - a. delta must be
// positive.
func (v *Viewport) ApplyPivotZoom(delta float64, pivot gg.Point, viewport gg.Rect) {
	a := pivot.Add(v.Offset).Sub(viewport.Min)
	v.Offset = v.Offset.Add(a.Mul(delta).Sub(a))
	v.Scale *= delta
}

// Pan moves the content by a screen-space drag delta.
func (v *Viewport) Pan(delta gg.Point) {
	v.Offset = v.Offset.Sub(delta)
}

// Zoom returns the viewport as an un-animated Zoom.
func (v Viewport) Zoom() Zoom {
	return Zoom{Offset: v.Offset, Scale: v.Scale}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
