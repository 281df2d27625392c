package cli

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gogpu/gg"

	"github.com/matzehuels/nodecanvas/pkg/anim"
	"github.com/matzehuels/nodecanvas/pkg/canvas"
	"github.com/matzehuels/nodecanvas/pkg/graph"
	"github.com/matzehuels/nodecanvas/pkg/memory"
	"github.com/matzehuels/nodecanvas/pkg/preview"
	"github.com/matzehuels/nodecanvas/pkg/snapshot"
	"github.com/matzehuels/nodecanvas/pkg/theme"
)

const (
	// frameTime is the simulated frame interval.
	frameTime = time.Second / 60

	// maxSettleFrames bounds how long settle waits for animations.
	maxSettleFrames = 600

	// stateMaxAge is how many frames a node's state survives after the node
	// stops being drawn.
	stateMaxAge = 120

	// Scale bounds for zoom gestures.
	minScale = 0.1
	maxScale = 10
)

// gesture is a pan or zoom queued for the next frame.
type gesture struct {
	zoom   float64 // zoom factor; zero for a pan
	pivot  gg.Point
	offset gg.Point // pan delta
}

func zoomGesture(factor float64, pivot gg.Point) gesture {
	return gesture{zoom: factor, pivot: pivot}
}

func panGesture(delta gg.Point) gesture {
	return gesture{offset: delta}
}

// hostOptions configures a host.
type hostOptions struct {
	Style  *theme.Style
	Width  float64
	Height float64
	Spring bool // ease with a spring instead of the linear tween
	Logger *log.Logger
}

// host owns the state a GUI frame loop would own: the memory, the clock and
// the document being drawn. Each step runs one layout pass.
type host struct {
	doc    *graph.Document
	style  *theme.Style
	rect   gg.Rect
	mem    *memory.Memory
	clock  *anim.FrameClock
	anim   *anim.Animator
	logger *log.Logger

	pending []gesture
	frames  int
	last    canvas.Frame
	zoomed  *theme.Style
}

func newHost(doc *graph.Document, opts hostOptions) *host {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	style := opts.Style
	if style == nil {
		style = theme.Default()
	}

	mem := memory.New(memory.WithMaxAge(stateMaxAge), memory.WithLogger(logger))
	clock := &anim.FrameClock{}
	var easing anim.Easing = anim.Linear{}
	if opts.Spring {
		easing = anim.Spring{}
	}

	return &host{
		doc:    doc,
		style:  style,
		rect:   gg.Rect{Max: gg.Pt(opts.Width, opts.Height)},
		mem:    mem,
		clock:  clock,
		anim:   anim.NewAnimator(mem, clock, easing),
		logger: logger,
	}
}

func (h *host) canvasName() string {
	if h.doc.Name != "" {
		return h.doc.Name
	}
	return "default"
}

// queue adds gestures to apply during the next frame.
func (h *host) queue(g ...gesture) {
	h.pending = append(h.pending, g...)
}

// setDocument swaps the drawn document. State of nodes that kept their ID
// carries over; state of removed nodes ages out.
func (h *host) setDocument(doc *graph.Document) {
	h.doc = doc
}

// resize changes the on-screen size of the canvas.
func (h *host) resize(w, hgt float64) {
	h.rect = gg.Rect{Max: gg.Pt(w, hgt)}
}

// toggleCollapsed flips every node between collapsed and open.
func (h *host) toggleCollapsed() {
	collapse := false
	for _, n := range h.doc.Nodes {
		if !n.Collapsed {
			collapse = true
			break
		}
	}
	for i := range h.doc.Nodes {
		h.doc.Nodes[i].Collapsed = collapse
	}
}

// step runs one frame and advances the clock.
func (h *host) step() canvas.Frame {
	p := canvas.Begin(canvas.PassConfig{
		Canvas:   h.canvasName(),
		Memory:   h.mem,
		Animator: h.anim,
		Style:    h.style,
		Viewport: h.rect,
		Logger:   h.logger,
		MinScale: minScale,
		MaxScale: maxScale,
	})
	id := canvas.CanvasKey(h.canvasName())

	opening := false
	for i := range h.doc.Nodes {
		n := &h.doc.Nodes[i]
		key := canvas.NodeKey(id, n.ID).With("openness")
		target := 1.0
		if n.Collapsed {
			target = 0
		}
		openness := h.anim.Value(key, target, h.style.AnimationTime)
		opening = opening || h.anim.IsAnimating(key)

		measured := n.Measure(p.Style())
		p.Node(n.ID, gg.Pt(n.X, n.Y), openness, &measured)
	}

	for _, g := range h.pending {
		if g.zoom != 0 {
			p.ZoomAt(g.zoom, g.pivot)
		} else {
			p.Pan(g.offset)
		}
	}
	h.pending = h.pending[:0]

	f := p.End()
	f.Animating = f.Animating || opening
	h.mem.EndFrame()
	h.clock.Advance(frameTime)

	h.frames++
	h.last = f
	h.zoomed = p.Style()
	return f
}

// settle steps until nothing is animating and measured sizes have been
// applied, or maxSettleFrames have run. It returns the frames stepped.
func (h *host) settle() int {
	// A frame that laid a node out with stale sizes reports Animating, so
	// this also covers the first frame's initial sizes.
	n := 0
	for n == 0 || (h.last.Animating && n < maxSettleFrames) {
		h.step()
		n++
	}
	if h.last.Animating {
		h.logger.Warn("animation did not settle", "frames", n)
	}
	return n
}

// scene returns the last frame ready to be drawn.
func (h *host) scene() *preview.Scene {
	return preview.NewScene(h.last, h.zoomed, h.doc)
}

// capture snapshots the canvas state.
func (h *host) capture() *snapshot.Snapshot {
	return snapshot.Capture(h.mem, h.canvasName(), h.doc.IDs())
}

// restore loads a snapshot before the first frame.
func (h *host) restore(s *snapshot.Snapshot) {
	s.Restore(h.mem)
	// Start the animation at the restored viewport instead of easing to it.
	canvas.DeriveZoom(s.Viewport, h.anim, canvas.CanvasKey(s.Canvas), 0)
}
