package canvas

import (
	"math"
	"testing"

	"github.com/gogpu/gg"

	"github.com/matzehuels/nodecanvas/pkg/memory"
	"github.com/matzehuels/nodecanvas/pkg/theme"
)

// testFrame has a total bottom margin of 4.
var testFrame = theme.Frame{InnerMargin: theme.Margin{Bottom: 4}}

func testSpacing() theme.Spacing {
	return theme.Spacing{ItemSpacing: gg.Pt(8, 3), InteractSize: gg.Pt(40, 18)}
}

func exampleNode() NodeState {
	return NodeState{
		TitleSize:   gg.Pt(100, 20),
		InputsSize:  gg.Pt(40, 60),
		OutputsSize: gg.Pt(40, 80),
	}
}

func rectEq(a, b gg.Rect) bool {
	const eps = 1e-9
	return math.Abs(a.Min.X-b.Min.X) < eps && math.Abs(a.Min.Y-b.Min.Y) < eps &&
		math.Abs(a.Max.X-b.Max.X) < eps && math.Abs(a.Max.Y-b.Max.Y) < eps
}

func TestNodeRectExample(t *testing.T) {
	got := exampleNode().NodeRect(testFrame, testSpacing(), gg.Pt(0, 0))
	want := gg.Rect{Min: gg.Pt(0, 0), Max: gg.Pt(100, 108)}
	if !rectEq(got, want) {
		t.Errorf("NodeRect() = %v, want %v", got, want)
	}
}

func TestNodeRectWidth(t *testing.T) {
	tests := []struct {
		name  string
		state NodeState
		want  float64
	}{
		{
			name:  "title wider than pins",
			state: exampleNode(),
			want:  100,
		},
		{
			name: "pins wider than title",
			state: NodeState{
				TitleSize:   gg.Pt(50, 20),
				InputsSize:  gg.Pt(60, 10),
				OutputsSize: gg.Pt(30, 10),
			},
			want: 98,
		},
		{
			name:  "zero sizes keep the item spacing",
			state: NodeState{},
			want:  8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.state.NodeRect(testFrame, testSpacing(), gg.Pt(0, 0))
			if r.Width() != tt.want {
				t.Errorf("Width() = %v, want %v", r.Width(), tt.want)
			}
			if w := tt.state.Width(testSpacing()); w != tt.want {
				t.Errorf("NodeState.Width() = %v, want %v", w, tt.want)
			}
		})
	}
}

func TestNodeRectAnchoredAtOrigin(t *testing.T) {
	origin := gg.Pt(-12.5, 300)
	r := exampleNode().NodeRect(testFrame, testSpacing(), origin)
	if r.Min != origin {
		t.Errorf("Min = %v, want %v", r.Min, origin)
	}
	if r.Height() != 108 {
		t.Errorf("Height() = %v, want 108", r.Height())
	}
}

func TestTitleRect(t *testing.T) {
	got := exampleNode().TitleRect(testSpacing(), gg.Pt(10, 10))
	want := gg.Rect{Min: gg.Pt(10, 10), Max: gg.Pt(110, 30)}
	if !rectEq(got, want) {
		t.Errorf("TitleRect() = %v, want %v", got, want)
	}
}

func TestNodeAndTitleShareWidth(t *testing.T) {
	states := []NodeState{
		exampleNode(),
		{},
		{TitleSize: gg.Pt(5, 5), InputsSize: gg.Pt(300, 1), OutputsSize: gg.Pt(0, 90)},
		{TitleSize: gg.Pt(1000, 0), InputsSize: gg.Pt(1, 1), OutputsSize: gg.Pt(1, 1)},
	}
	for _, s := range states {
		node := s.NodeRect(testFrame, testSpacing(), gg.Pt(3, 4))
		title := s.TitleRect(testSpacing(), gg.Pt(3, 4))
		if node.Width() != title.Width() {
			t.Errorf("%+v: node width %v != title width %v", s, node.Width(), title.Width())
		}
		if node.Height() < title.Height() {
			t.Errorf("%+v: node height %v < title height %v", s, node.Height(), title.Height())
		}
	}
}

func TestPinsRectOpen(t *testing.T) {
	s := exampleNode()
	title := s.TitleRect(testSpacing(), gg.Pt(0, 0))
	pins := s.PinsRect(testFrame, testSpacing(), 1, gg.Pt(0, 0))

	// Directly below the title, separated by the doubled bottom margin.
	if pins.Min.Y != title.Max.Y+8 {
		t.Errorf("pins top = %v, want %v", pins.Min.Y, title.Max.Y+8)
	}
	if pins.Height() != 80 {
		t.Errorf("pins height = %v, want 80", pins.Height())
	}
	if pins.Width() != title.Width() {
		t.Errorf("pins width = %v, want %v", pins.Width(), title.Width())
	}

	node := s.NodeRect(testFrame, testSpacing(), gg.Pt(0, 0))
	if pins.Max.Y != node.Max.Y {
		t.Errorf("open pins bottom = %v, want node bottom %v", pins.Max.Y, node.Max.Y)
	}
}

func TestPinsRectCollapsed(t *testing.T) {
	s := exampleNode()
	open := s.PinsRect(testFrame, testSpacing(), 1, gg.Pt(0, 0))
	closed := s.PinsRect(testFrame, testSpacing(), 0, gg.Pt(0, 0))

	// -(pins height + 2*margin)
	if got := closed.Min.Y - open.Min.Y; got != -(80 + 8) {
		t.Errorf("collapse offset = %v, want -88", got)
	}
	if closed.Height() != open.Height() {
		t.Error("collapsing must move the pins, not resize them")
	}
}

func TestPinsRectHalfOpen(t *testing.T) {
	s := exampleNode()
	open := s.PinsRect(testFrame, testSpacing(), 1, gg.Pt(0, 0))
	half := s.PinsRect(testFrame, testSpacing(), 0.5, gg.Pt(0, 0))
	if got := half.Min.Y - open.Min.Y; got != -44 {
		t.Errorf("half collapse offset = %v, want -44", got)
	}
}

func TestPinColumns(t *testing.T) {
	s := exampleNode()
	pins := s.PinsRect(testFrame, testSpacing(), 1, gg.Pt(0, 0))
	in := s.InputsRect(testFrame, testSpacing(), 1, gg.Pt(0, 0))
	out := s.OutputsRect(testFrame, testSpacing(), 1, gg.Pt(0, 0))

	if in.Min != pins.Min || in.Width() != 40 || in.Height() != 60 {
		t.Errorf("InputsRect() = %v", in)
	}
	if out.Max.X != pins.Max.X || out.Min.Y != pins.Min.Y || out.Height() != 80 {
		t.Errorf("OutputsRect() = %v", out)
	}
}

func TestDegenerateNode(t *testing.T) {
	var s NodeState
	r := s.NodeRect(theme.Frame{}, theme.Spacing{}, gg.Pt(5, 5))
	if r.Width() != 0 || r.Height() != 0 {
		t.Errorf("zero state should give a zero-area rect, got %v", r)
	}
}

func TestInitialNodeState(t *testing.T) {
	s := InitialNodeState(testSpacing())
	want := gg.Pt(40, 18)
	if s.TitleSize != want || s.InputsSize != want || s.OutputsSize != want {
		t.Errorf("InitialNodeState() = %+v, want all %v", s, want)
	}
}

func TestNodeStateLoadStore(t *testing.T) {
	mem := memory.New()
	id := NodeKey(CanvasKey("graph"), "add")

	if _, ok := LoadNodeState(mem, id); ok {
		t.Fatal("LoadNodeState on a new node should report absence")
	}

	exampleNode().Store(mem, id)
	mem.EndFrame()

	got, ok := LoadNodeState(mem, id)
	if !ok || got != exampleNode() {
		t.Errorf("LoadNodeState() = %+v, %v", got, ok)
	}

	changed := got
	changed.TitleSize = gg.Pt(1, 1)
	changed.Store(mem, id)
	if got, _ := LoadNodeState(mem, id); got != changed {
		t.Error("Store should overwrite unconditionally")
	}
}
