package canvas

import (
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gogpu/gg"

	"github.com/matzehuels/nodecanvas/pkg/anim"
	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/memory"
	"github.com/matzehuels/nodecanvas/pkg/observability"
	"github.com/matzehuels/nodecanvas/pkg/theme"
)

// CanvasKey is the memory ID of the canvas called name.
func CanvasKey(name string) memory.ID {
	return memory.NewID(name)
}

// NodeKey is the memory ID of node inside the canvas identified by canvas.
func NodeKey(canvas memory.ID, node string) memory.ID {
	return canvas.With("node:" + node)
}

// PassConfig configures one frame's layout pass over a canvas.
type PassConfig struct {
	Canvas   string          // canvas name, hashed into its memory ID
	Memory   *memory.Memory  // state carried across frames
	Animator *anim.Animator  // eases the viewport; must share Memory
	Style    *theme.Style    // un-zoomed theme; nil means theme.Default()
	Viewport gg.Rect         // on-screen rect of the canvas
	Logger   *log.Logger     // nil means log.Default()

	// MinScale and MaxScale bound zoom gestures. Zero means unbounded.
	MinScale float64
	MaxScale float64
}

// NodeLayout is where one node landed on screen this frame.
type NodeLayout struct {
	ID       string    `json:"id"`
	Openness float64   `json:"openness"`
	State    NodeState `json:"state"` // sizes the rects were computed from

	Body    gg.Rect `json:"body"`
	Title   gg.Rect `json:"title"`
	Pins    gg.Rect `json:"pins"`
	Inputs  gg.Rect `json:"inputs"`
	Outputs gg.Rect `json:"outputs"`
}

// Frame is the result of a pass.
type Frame struct {
	Canvas    string
	Viewport  gg.Rect
	Zoom      Zoom     // animated transform the nodes were placed with
	Target    Viewport // viewport stored at the end of the pass
	Nodes     []NodeLayout
	Animating bool
}

// Pass runs the per-frame flow for one canvas: load the viewport, derive the
// animated zoom, place nodes, apply gestures and store everything back.
type Pass struct {
	name      string
	id        memory.ID
	mem       *memory.Memory
	animator  *anim.Animator
	style     *theme.Style
	rect      gg.Rect
	vp        Viewport
	zoom      Zoom
	nodes     []NodeLayout
	logger    *log.Logger
	minScale  float64
	maxScale  float64
	startedAt time.Time

	// remeasured is set when a node stored sizes that differ from the ones
	// it was laid out with, so the next frame will move it.
	remeasured bool
}

// Begin starts a pass. Every Begin must be paired with an End in the same
// frame; Memory.EndFrame is left to the host since several canvases may
// share one memory.
func Begin(cfg PassConfig) *Pass {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	base := cfg.Style
	if base == nil {
		base = theme.Default()
	}

	p := &Pass{
		name:      cfg.Canvas,
		id:        CanvasKey(cfg.Canvas),
		mem:       cfg.Memory,
		animator:  cfg.Animator,
		rect:      cfg.Viewport,
		logger:    logger.With("canvas", cfg.Canvas),
		minScale:  cfg.MinScale,
		maxScale:  cfg.MaxScale,
		startedAt: time.Now(),
	}

	vp, ok := LoadViewport(p.mem, p.id)
	switch {
	case !ok:
		vp = DefaultViewport()
	case !vp.Valid():
		p.logger.Warn("discarding invalid viewport", "offset", vp.Offset, "scale", vp.Scale)
		vp = DefaultViewport()
	}
	p.vp = vp

	p.zoom = DeriveZoom(vp, p.animator, p.id, base.AnimationTime)
	p.style = base.Clone()
	p.zoom.ApplyStyle(p.style)
	return p
}

// Zoom returns the animated transform of this frame.
func (p *Pass) Zoom() Zoom { return p.zoom }

// Viewport returns the underlying viewport that gestures mutate.
func (p *Pass) Viewport() *Viewport { return &p.vp }

// Style returns the zoomed style of this frame.
func (p *Pass) Style() *theme.Style { return p.style }

// Rect returns the on-screen rect of the canvas.
func (p *Pass) Rect() gg.Rect { return p.rect }

// Node places a node whose graph-space position is pos.
//
// The rects come from the sizes measured in a previous frame (or the initial
// sizes on the node's first frame). measured, when non-nil, holds the sizes
// measured while drawing the node this frame; they are stored for the next
// frame. openness outside [0,1] is clamped.
func (p *Pass) Node(id string, pos gg.Point, openness float64, measured *NodeState) NodeLayout {
	key := NodeKey(p.id, id)
	state, ok := LoadNodeState(p.mem, key)
	if !ok {
		state = InitialNodeState(p.style.Spacing)
	}

	if err := errors.ValidateOpenness(openness); err != nil {
		p.logger.Debug("clamping openness", "node", id, "openness", openness)
		openness = clampOpenness(openness)
	}

	at := p.zoom.GraphToScreen(pos, p.rect)
	frame, spacing := p.style.NodeFrame, p.style.Spacing
	layout := NodeLayout{
		ID:       id,
		Openness: openness,
		State:    state,
		Body:     state.NodeRect(frame, spacing, at),
		Title:    state.TitleRect(spacing, at),
		Pins:     state.PinsRect(frame, spacing, openness, at),
		Inputs:   state.InputsRect(frame, spacing, openness, at),
		Outputs:  state.OutputsRect(frame, spacing, openness, at),
	}
	p.nodes = append(p.nodes, layout)

	if measured != nil && *measured != state {
		state = *measured
		p.remeasured = true
	}
	state.Store(p.mem, key)
	return layout
}

// ZoomAt multiplies the scale by delta about a screen-space pivot. The
// change shows up, eased, from the next frame on. It reports whether the
// gesture was applied.
func (p *Pass) ZoomAt(delta float64, pivot gg.Point) bool {
	if err := errors.ValidateScale(delta); err != nil {
		return p.reject("zoom", err)
	}
	if err := errors.ValidatePoint(pivot.X, pivot.Y); err != nil {
		return p.reject("zoom", err)
	}

	delta = p.boundDelta(delta)
	if delta == 1 {
		return false
	}

	before := p.vp
	p.vp.ApplyPivotZoom(delta, pivot, p.rect)
	if !p.vp.Valid() {
		p.vp = before
		return p.reject("zoom", errors.New(errors.ErrCodeInvalidInput, "zoom by %v produced an invalid viewport", delta))
	}
	p.logger.Debug("zoom", "delta", delta, "pivot", pivot, "scale", p.vp.Scale)
	return true
}

// Pan drags the content by a screen-space delta. It reports whether the
// gesture was applied.
func (p *Pass) Pan(delta gg.Point) bool {
	if err := errors.ValidatePoint(delta.X, delta.Y); err != nil {
		return p.reject("pan", err)
	}
	p.vp.Pan(delta)
	return true
}

// End stores the viewport and returns the laid-out frame. The frame is
// animating while the zoom eases toward the stored viewport or while any node
// was laid out with sizes that differ from what it measured.
func (p *Pass) End() Frame {
	p.vp.Store(p.mem, p.id)

	f := Frame{
		Canvas:    p.name,
		Viewport:  p.rect,
		Zoom:      p.zoom,
		Target:    p.vp,
		Nodes:     p.nodes,
		Animating: p.remeasured || IsAnimating(p.animator, p.id) || p.vp.Zoom() != p.zoom,
	}

	observability.Frame().OnFrame(p.name, observability.FrameStats{
		Nodes:     len(p.nodes),
		Scale:     p.zoom.Scale,
		Animating: f.Animating,
		Duration:  time.Since(p.startedAt),
	})
	return f
}

func (p *Pass) reject(gesture string, err error) bool {
	p.logger.Warn("rejected gesture", "gesture", gesture, "err", errors.UserMessage(err))
	observability.Frame().OnGestureRejected(p.name, gesture, err)
	return false
}

// boundDelta shrinks delta so the resulting scale stays inside
// [minScale, maxScale]. Only the bound the gesture moves toward is enforced:
// a scale stored outside the bounds can always move back in.
func (p *Pass) boundDelta(delta float64) float64 {
	next := p.vp.Scale * delta
	if delta > 1 && p.maxScale > 0 && next > p.maxScale {
		next = math.Max(p.maxScale, p.vp.Scale)
	}
	if delta < 1 && p.minScale > 0 && next < p.minScale {
		next = math.Min(p.minScale, p.vp.Scale)
	}
	return next / p.vp.Scale
}

func clampOpenness(o float64) float64 {
	if math.IsNaN(o) {
		return 1
	}
	return math.Min(1, math.Max(0, o))
}
