package snapshot

import (
	"context"
	"math"
	"testing"

	"github.com/gogpu/gg"

	"github.com/matzehuels/nodecanvas/pkg/cache"
	"github.com/matzehuels/nodecanvas/pkg/canvas"
	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/memory"
)

func seeded() *memory.Memory {
	m := memory.New()
	id := canvas.CanvasKey("graph")
	canvas.Viewport{Offset: gg.Pt(-40, 25), Scale: 1.5}.Store(m, id)
	canvas.NodeState{
		TitleSize:   gg.Pt(100, 20),
		InputsSize:  gg.Pt(40, 80),
		OutputsSize: gg.Pt(52, 40),
	}.Store(m, canvas.NodeKey(id, "a"))
	return m
}

func TestCaptureRestore(t *testing.T) {
	s := Capture(seeded(), "graph", []string{"a", "never-drawn"})

	if s.Revision == "" || s.Canvas != "graph" {
		t.Errorf("header = %q %q", s.Revision, s.Canvas)
	}
	if s.Viewport.Scale != 1.5 || s.Viewport.Offset != gg.Pt(-40, 25) {
		t.Errorf("Viewport = %+v", s.Viewport)
	}
	if len(s.Nodes) != 1 {
		t.Fatalf("Nodes = %+v, want only the drawn node", s.Nodes)
	}

	fresh := memory.New()
	s.Restore(fresh)
	id := canvas.CanvasKey("graph")
	vp, ok := canvas.LoadViewport(fresh, id)
	if !ok || vp != s.Viewport {
		t.Errorf("restored viewport = %+v, %v", vp, ok)
	}
	st, ok := canvas.LoadNodeState(fresh, canvas.NodeKey(id, "a"))
	if !ok || st != s.Nodes["a"] {
		t.Errorf("restored node = %+v, %v", st, ok)
	}
}

func TestCaptureUndrawnCanvas(t *testing.T) {
	s := Capture(memory.New(), "empty", nil)
	if s.Viewport != canvas.DefaultViewport() {
		t.Errorf("Viewport = %+v, want default", s.Viewport)
	}
}

func TestRevisionChanges(t *testing.T) {
	m := seeded()
	if Capture(m, "graph", nil).Revision == Capture(m, "graph", nil).Revision {
		t.Error("each capture should get a new revision")
	}
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	keyer := cache.NewDefaultKeyer()

	want := Capture(seeded(), "graph", []string{"a"})
	if err := Save(ctx, c, keyer, want, 0); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(ctx, c, keyer, "graph")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Revision != want.Revision || got.Viewport != want.Viewport || got.Nodes["a"] != want.Nodes["a"] {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	if err := Delete(ctx, c, keyer, "graph"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := Load(ctx, c, keyer, "graph"); !errors.Is(err, errors.ErrCodeSnapshotNotFound) {
		t.Errorf("Load after Delete = %v, want SNAPSHOT_NOT_FOUND", err)
	}
}

func TestLoadRejectsBadData(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	keyer := cache.NewDefaultKeyer()

	tests := []struct {
		name     string
		data     string
		wantCode errors.Code
	}{
		{"Malformed", `{`, errors.ErrCodeInvalidFormat},
		{"ZeroScale", `{"canvas":"graph","viewport":{"offset":{"X":0,"Y":0},"scale":0}}`, errors.ErrCodeInvalidInput},
		{"NegativeSize", `{"canvas":"graph","viewport":{"scale":1},"nodes":{"a":{"title_size":{"X":-1,"Y":0}}}}`, errors.ErrCodeInvalidInput},
		{"EmptyNodeID", `{"canvas":"graph","viewport":{"scale":1},"nodes":{"":{}}}`, errors.ErrCodeInvalidInput},
		{"ControlCharNodeID", `{"canvas":"graph","viewport":{"scale":1},"nodes":{"a\u0007b":{}}}`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Set(ctx, keyer.SnapshotKey("graph"), []byte(tt.data), 0); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(ctx, c, keyer, "graph"); !errors.Is(err, tt.wantCode) {
				t.Errorf("Load() = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	s := Capture(seeded(), "graph", []string{"a"})
	if err := s.Validate(); err != nil {
		t.Errorf("captured snapshot invalid: %v", err)
	}
	s.Viewport.Offset.X = math.Inf(1)
	if err := s.Validate(); err == nil {
		t.Error("infinite offset should be invalid")
	}

	s = Capture(seeded(), "graph", []string{"a"})
	s.Nodes[" a"] = s.Nodes["a"]
	if err := s.Validate(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("padded node id: Validate() = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestNullCacheLoadMisses(t *testing.T) {
	_, err := Load(context.Background(), cache.NewNullCache(), cache.NewDefaultKeyer(), "graph")
	if !errors.Is(err, errors.ErrCodeSnapshotNotFound) {
		t.Errorf("Load() = %v", err)
	}
}
