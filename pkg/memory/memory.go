// Package memory implements the keyed store that carries UI state from one
// frame to the next.
//
// A [Memory] is an explicit value owned by the host loop and passed by
// reference into every load/store call. Values are looked up by [ID] with
// get-or-absent semantics: a missing entry is the normal first-frame case,
// not an error.
//
// # Frames and garbage collection
//
// Every Get or Insert marks its entry as used in the current frame. The host
// loop calls [Memory.EndFrame] once per frame; entries that were not used for
// more than MaxAge frames are evicted. This is how state for nodes that are no
// longer drawn goes away. A MaxAge of zero keeps everything.
//
// # Concurrency
//
// Memory is not safe for concurrent use. The frame loop is single-threaded
// and non-reentrant, so no locking is done here.
package memory

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodecanvas/pkg/observability"
)

type entry struct {
	value   any
	touched uint64
}

// Memory is a frame-aware keyed store.
type Memory struct {
	entries map[ID]*entry
	frame   uint64
	maxAge  uint64
	logger  *log.Logger
}

// Option configures a Memory.
type Option func(*Memory)

// WithMaxAge sets how many frames an entry may go unused before EndFrame
// evicts it. Zero disables eviction.
func WithMaxAge(frames uint64) Option {
	return func(m *Memory) { m.maxAge = frames }
}

// WithLogger sets the logger used for eviction diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(m *Memory) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates an empty Memory at frame zero.
func New(opts ...Option) *Memory {
	m := &Memory{
		entries: make(map[ID]*entry),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the value stored under id.
// The second result is false when nothing is stored or the stored value is
// not a T.
func Get[T any](m *Memory, id ID) (T, bool) {
	var zero T
	e, ok := m.entries[id]
	if !ok {
		return zero, false
	}
	v, ok := e.value.(T)
	if !ok {
		return zero, false
	}
	e.touched = m.frame
	return v, true
}

// Insert stores v under id, replacing any previous value.
func Insert[T any](m *Memory, id ID, v T) {
	if e, ok := m.entries[id]; ok {
		e.value = v
		e.touched = m.frame
		return
	}
	m.entries[id] = &entry{value: v, touched: m.frame}
}

// Remove deletes the value stored under id, if any.
func (m *Memory) Remove(id ID) {
	delete(m.entries, id)
}

// Len returns the number of stored values.
func (m *Memory) Len() int {
	return len(m.entries)
}

// Frame returns the current frame number.
func (m *Memory) Frame() uint64 {
	return m.frame
}

// MaxAge returns the eviction age in frames (zero when disabled).
func (m *Memory) MaxAge() uint64 {
	return m.maxAge
}

// EndFrame closes the current frame and evicts stale entries.
// It returns the number of evicted entries.
func (m *Memory) EndFrame() int {
	m.frame++
	if m.maxAge == 0 {
		return 0
	}

	evicted := 0
	for id, e := range m.entries {
		if m.frame-e.touched > m.maxAge {
			delete(m.entries, id)
			evicted++
		}
	}
	if evicted > 0 {
		m.logger.Debug("evicted stale state", "frame", m.frame, "count", evicted, "remaining", len(m.entries))
		observability.Frame().OnEvict(m.frame, evicted)
	}
	return evicted
}
