// Package snapshot persists the layout state of a canvas between sessions.
//
// A [Snapshot] copies the viewport and the measured node sizes out of a
// memory.Memory so they can be written to a cache.Cache and restored the next
// time the canvas is opened. Restored sizes let the first frame of a new
// session place nodes where they were, instead of starting from the initial
// sizes.
package snapshot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gogpu/gg"
	"github.com/google/uuid"

	"github.com/matzehuels/nodecanvas/pkg/cache"
	"github.com/matzehuels/nodecanvas/pkg/canvas"
	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/memory"
)

// Snapshot is the persisted state of one canvas.
type Snapshot struct {
	// Revision changes on every capture.
	Revision string                      `json:"revision"`
	Canvas   string                      `json:"canvas"`
	SavedAt  time.Time                   `json:"saved_at"`
	Viewport canvas.Viewport             `json:"viewport"`
	Nodes    map[string]canvas.NodeState `json:"nodes,omitempty"`
}

// Capture copies the state of the canvas called name out of m. Only the
// listed nodes are captured; nodes with no stored state are skipped. A
// canvas that was never drawn captures the default viewport.
func Capture(m *memory.Memory, name string, nodes []string) *Snapshot {
	id := canvas.CanvasKey(name)
	vp, ok := canvas.LoadViewport(m, id)
	if !ok || !vp.Valid() {
		vp = canvas.DefaultViewport()
	}

	s := &Snapshot{
		Revision: uuid.NewString(),
		Canvas:   name,
		SavedAt:  time.Now().UTC(),
		Viewport: vp,
		Nodes:    make(map[string]canvas.NodeState, len(nodes)),
	}
	for _, n := range nodes {
		if st, ok := canvas.LoadNodeState(m, canvas.NodeKey(id, n)); ok {
			s.Nodes[n] = st
		}
	}
	return s
}

// Restore writes the snapshot into m, overwriting the canvas's viewport and
// the captured nodes' states.
func (s *Snapshot) Restore(m *memory.Memory) {
	id := canvas.CanvasKey(s.Canvas)
	s.Viewport.Store(m, id)
	for n, st := range s.Nodes {
		st.Store(m, canvas.NodeKey(id, n))
	}
}

// Validate checks the snapshot before it is restored.
func (s *Snapshot) Validate() error {
	if s.Canvas == "" {
		return errors.New(errors.ErrCodeInvalidInput, "snapshot has no canvas name")
	}
	if !s.Viewport.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "snapshot of %q has an invalid viewport", s.Canvas)
	}
	for n, st := range s.Nodes {
		if err := errors.ValidateNodeID(n); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "snapshot of %q", s.Canvas)
		}
		sizes := map[string]gg.Point{
			"title size":   st.TitleSize,
			"inputs size":  st.InputsSize,
			"outputs size": st.OutputsSize,
		}
		for name, size := range sizes {
			if err := errors.ValidateExtent(name, size.X, size.Y); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "snapshot node %q", n)
			}
		}
	}
	return nil
}

// =============================================================================
// Storage
// =============================================================================

// Save writes s to c under the keyer's snapshot key. A ttl of zero keeps it
// forever.
func Save(ctx context.Context, c cache.Cache, keyer cache.Keyer, s *Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode snapshot")
	}
	if err := c.Set(ctx, keyer.SnapshotKey(s.Canvas), data, ttl); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save snapshot of %q", s.Canvas)
	}
	return nil
}

// Load reads the snapshot of the canvas called name. It fails with
// ErrCodeSnapshotNotFound when none is stored.
func Load(ctx context.Context, c cache.Cache, keyer cache.Keyer, name string) (*Snapshot, error) {
	data, ok, err := c.Get(ctx, keyer.SnapshotKey(name))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load snapshot of %q", name)
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeSnapshotNotFound, "no snapshot of canvas %q", name)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode snapshot of %q", name)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete removes the snapshot of the canvas called name.
func Delete(ctx context.Context, c cache.Cache, keyer cache.Keyer, name string) error {
	if err := c.Delete(ctx, keyer.SnapshotKey(name)); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete snapshot of %q", name)
	}
	return nil
}
