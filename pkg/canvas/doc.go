// Package canvas implements the viewport transform and node-layout geometry
// of an interactive node-graph canvas.
//
// The package is called once per frame by a host loop and keeps no state of
// its own between frames: everything that must survive a frame lives in a
// [memory.Memory] owned by the host.
//
// # Structures
//
//   - [NodeState]: the measured sizes of a node's title, input column and
//     output column, plus the rectangle math built on them.
//   - [Viewport]: the persisted pan offset and scale of one canvas.
//   - [Zoom]: the animated snapshot of a Viewport for the current frame,
//     used for graph ↔ screen conversion.
//
// # Frame flow
//
//	vp, ok := canvas.LoadViewport(mem, id)
//	if !ok {
//	    vp = canvas.DefaultViewport()
//	}
//	zoom := canvas.DeriveZoom(vp, animator, id, style.AnimationTime)
//	zoom.ApplyStyle(style)
//	// ... place nodes with zoom.GraphToScreen and NodeState rects ...
//	vp.ApplyPivotZoom(1.1, cursor, viewportRect)
//	vp.Store(mem, id)
//
// [Begin] wraps this flow in a [Pass].
//
// # Coordinates
//
// Graph space is the coordinate system nodes live in. Screen space is
// pixels. The forward transform is
//
//	screen = graph*scale - offset + viewport.Min
//
// so Offset is the graph-space origin's displacement in scaled units.
//
// # Errors
//
// Nothing here returns an error. Non-positive scales, non-positive zoom
// factors and non-finite coordinates are caller precondition violations that
// produce degenerate geometry rather than panics; reject them at the input
// boundary (see pkg/errors validation helpers, which [Pass] applies).
package canvas
