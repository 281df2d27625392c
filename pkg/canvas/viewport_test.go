package canvas

import (
	"math"
	"testing"
	"time"

	"github.com/gogpu/gg"

	"github.com/matzehuels/nodecanvas/pkg/anim"
	"github.com/matzehuels/nodecanvas/pkg/memory"
	"github.com/matzehuels/nodecanvas/pkg/theme"
)

func pointNear(a, b gg.Point, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestDefaultViewport(t *testing.T) {
	v := DefaultViewport()
	if v.Offset != (gg.Point{}) || v.Scale != 1 {
		t.Errorf("DefaultViewport() = %+v", v)
	}
	if !v.Valid() {
		t.Error("default viewport should be valid")
	}
}

func TestViewportValid(t *testing.T) {
	tests := []struct {
		name string
		v    Viewport
		want bool
	}{
		{"zero scale", Viewport{Scale: 0}, false},
		{"negative scale", Viewport{Scale: -1}, false},
		{"nan offset", Viewport{Offset: gg.Pt(math.NaN(), 0), Scale: 1}, false},
		{"inf scale", Viewport{Scale: math.Inf(1)}, false},
		{"panned", Viewport{Offset: gg.Pt(-50, 20), Scale: 0.5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestViewportLoadStore(t *testing.T) {
	mem := memory.New()
	id := CanvasKey("graph")
	if _, ok := LoadViewport(mem, id); ok {
		t.Fatal("LoadViewport on a new canvas should report absence")
	}
	v := Viewport{Offset: gg.Pt(3, 4), Scale: 2}
	v.Store(mem, id)
	mem.EndFrame()
	if got, ok := LoadViewport(mem, id); !ok || got != v {
		t.Errorf("LoadViewport() = %+v, %v", got, ok)
	}
}

func TestGraphToScreenExample(t *testing.T) {
	z := Zoom{Offset: gg.Pt(10, 10), Scale: 2}
	viewport := gg.Rect{Min: gg.Pt(0, 0), Max: gg.Pt(800, 600)}
	if got := z.GraphToScreen(gg.Pt(5, 5), viewport); got != gg.Pt(0, 0) {
		t.Errorf("GraphToScreen() = %v, want (0, 0)", got)
	}
}

func TestGraphToScreenViewportOrigin(t *testing.T) {
	z := Zoom{Scale: 1}
	viewport := gg.Rect{Min: gg.Pt(100, 50), Max: gg.Pt(900, 650)}
	if got := z.GraphToScreen(gg.Pt(1, 2), viewport); got != gg.Pt(101, 52) {
		t.Errorf("GraphToScreen() = %v, want (101, 52)", got)
	}
}

func TestScreenToGraphInverse(t *testing.T) {
	z := Zoom{Offset: gg.Pt(-37, 12.5), Scale: 1.7}
	viewport := gg.Rect{Min: gg.Pt(20, 30), Max: gg.Pt(500, 400)}
	for _, p := range []gg.Point{{}, gg.Pt(1, 1), gg.Pt(-250, 99.5), gg.Pt(1e4, -1e4)} {
		back := z.ScreenToGraph(z.GraphToScreen(p, viewport), viewport)
		if !pointNear(back, p, 1e-9) {
			t.Errorf("round trip of %v = %v", p, back)
		}
	}
}

func TestSizeAndDistanceHelpers(t *testing.T) {
	z := Zoom{Scale: 4}
	if got := z.GraphSizeToScreen(gg.Pt(2, 3)); got != gg.Pt(8, 12) {
		t.Errorf("GraphSizeToScreen() = %v", got)
	}
	if got := z.ScreenSizeToGraph(gg.Pt(8, 12)); got != gg.Pt(2, 3) {
		t.Errorf("ScreenSizeToGraph() = %v", got)
	}
	if got := z.GraphDistanceToScreen(2.5); got != 10 {
		t.Errorf("GraphDistanceToScreen() = %v", got)
	}
	if got := z.ScreenDistanceToGraph(10); got != 2.5 {
		t.Errorf("ScreenDistanceToGraph() = %v", got)
	}
	r := z.GraphRectToScreen(gg.Rect{Min: gg.Pt(0, 0), Max: gg.Pt(1, 1)}, gg.Rect{})
	if r.Width() != 4 || r.Height() != 4 {
		t.Errorf("GraphRectToScreen() = %v", r)
	}
}

func TestApplyPivotZoomKeepsPivot(t *testing.T) {
	viewport := gg.Rect{Min: gg.Pt(40, 25), Max: gg.Pt(840, 625)}
	pivots := []gg.Point{gg.Pt(40, 25), gg.Pt(300, 200), gg.Pt(839, 624), gg.Pt(-10, 1000)}
	deltas := []float64{0.1, 0.5, 0.9, 1, 1.1, 2, 7.25}
	starts := []Viewport{
		DefaultViewport(),
		{Offset: gg.Pt(120, -40), Scale: 0.75},
		{Offset: gg.Pt(-5000, 3000), Scale: 3},
	}

	for _, start := range starts {
		for _, pivot := range pivots {
			for _, delta := range deltas {
				v := start
				graph := v.Zoom().ScreenToGraph(pivot, viewport)
				before := v.Zoom().GraphToScreen(graph, viewport)

				v.ApplyPivotZoom(delta, pivot, viewport)

				after := v.Zoom().GraphToScreen(graph, viewport)
				if !pointNear(before, after, 1e-6) {
					t.Errorf("start=%+v pivot=%v delta=%v: pivot moved %v -> %v", start, pivot, delta, before, after)
				}
				if math.Abs(v.Scale-start.Scale*delta) > 1e-12 {
					t.Errorf("scale = %v, want %v", v.Scale, start.Scale*delta)
				}
			}
		}
	}
}

func TestApplyPivotZoomIdentity(t *testing.T) {
	viewport := gg.Rect{Min: gg.Pt(10, 10), Max: gg.Pt(110, 110)}
	v := Viewport{Offset: gg.Pt(33.25, -7.5), Scale: 1.5}
	start := v
	for i := 0; i < 100; i++ {
		v.ApplyPivotZoom(1, gg.Pt(float64(i), float64(2*i)), viewport)
	}
	if v != start {
		t.Errorf("delta=1 should be a no-op: %+v -> %+v", start, v)
	}
}

func TestPan(t *testing.T) {
	v := DefaultViewport()
	viewport := gg.Rect{Max: gg.Pt(100, 100)}
	p := gg.Pt(10, 10)
	before := v.Zoom().GraphToScreen(p, viewport)

	v.Pan(gg.Pt(5, -3))

	after := v.Zoom().GraphToScreen(p, viewport)
	if after != before.Add(gg.Pt(5, -3)) {
		t.Errorf("content should follow the drag: %v -> %v", before, after)
	}
}

func TestDeriveZoomConverges(t *testing.T) {
	mem := memory.New()
	clock := &anim.FrameClock{}
	a := anim.NewAnimator(mem, clock, anim.Linear{})
	id := CanvasKey("graph")
	duration := theme.Default().AnimationTime

	start := DefaultViewport()
	z := DeriveZoom(start, a, id, duration)
	if z != start.Zoom() {
		t.Fatalf("first derive should snap, got %+v", z)
	}

	target := Viewport{Offset: gg.Pt(200, -100), Scale: 2}
	prevGap := math.Inf(1)
	frames := 0
	for {
		clock.Advance(time.Second / 60)
		frames++
		z = DeriveZoom(target, a, id, duration)
		gap := math.Abs(z.Scale-target.Scale) + math.Abs(z.Offset.X-target.Offset.X) + math.Abs(z.Offset.Y-target.Offset.Y)
		if gap == 0 {
			break
		}
		if gap >= prevGap {
			t.Fatalf("frame %d: gap %v did not shrink from %v", frames, gap, prevGap)
		}
		prevGap = gap
		if frames > 60 {
			t.Fatal("zoom did not converge within 60 frames")
		}
	}
	if z != target.Zoom() {
		t.Errorf("converged zoom = %+v, want %+v", z, target.Zoom())
	}
	if IsAnimating(a, id) {
		t.Error("converged zoom should not be animating")
	}
}

func TestDeriveZoomSpringConverges(t *testing.T) {
	mem := memory.New()
	clock := &anim.FrameClock{}
	a := anim.NewAnimator(mem, clock, anim.Spring{})
	id := CanvasKey("graph")

	DeriveZoom(DefaultViewport(), a, id, 100*time.Millisecond)
	target := Viewport{Offset: gg.Pt(50, 50), Scale: 0.5}
	var z Zoom
	for i := 0; i < 300; i++ {
		clock.Advance(time.Second / 60)
		z = DeriveZoom(target, a, id, 100*time.Millisecond)
	}
	if z != target.Zoom() {
		t.Errorf("spring zoom = %+v, want %+v", z, target.Zoom())
	}
}

func TestApplyStyle(t *testing.T) {
	s := theme.Default()
	Zoom{Scale: 2}.ApplyStyle(s)
	if s.Spacing.ItemSpacing != theme.Default().Spacing.ItemSpacing.Mul(2) {
		t.Errorf("ApplyStyle did not scale spacing: %v", s.Spacing.ItemSpacing)
	}
}
