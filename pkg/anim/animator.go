package anim

import (
	"time"

	"github.com/matzehuels/nodecanvas/pkg/memory"
)

// Animator eases values keyed by memory IDs.
type Animator struct {
	mem    *memory.Memory
	clock  Clock
	easing Easing
}

// NewAnimator creates an animator that keeps its state in mem.
// A nil clock means wall-clock time; a nil easing means [Linear].
func NewAnimator(mem *memory.Memory, clock Clock, easing Easing) *Animator {
	if clock == nil {
		clock = NewWallClock()
	}
	if easing == nil {
		easing = Linear{}
	}
	return &Animator{mem: mem, clock: clock, easing: easing}
}

// Value returns the eased value for id approaching target.
// The same id must always be used for the same scalar.
func (a *Animator) Value(id memory.ID, target float64, duration time.Duration) float64 {
	s, _ := memory.Get[State](a.mem, id)
	s = a.easing.Step(s, target, duration, a.clock.Now())
	memory.Insert(a.mem, id, s)
	return s.Value
}

// IsAnimating reports whether the value under id has not reached its target.
func (a *Animator) IsAnimating(id memory.ID) bool {
	s, ok := memory.Get[State](a.mem, id)
	return ok && !s.Settled()
}

// Clock returns the animator's clock.
func (a *Animator) Clock() Clock { return a.clock }
