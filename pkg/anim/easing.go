package anim

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Epsilon is the distance below which a spring is considered settled.
const Epsilon = 1e-4

// springFrequency scales the spring's angular frequency to the requested
// duration: after one duration a critically damped spring starting at rest
// has covered all but ~0.3% of the distance.
const springFrequency = 8.0

// State is the per-key animation state.
type State struct {
	Value    float64 // value reported for the latest sample
	Velocity float64 // units per second
	From     float64 // value when the current target was set
	Target   float64
	Start    time.Duration // time the current target was set
	Updated  time.Duration // time of the latest sample
	Valid    bool          // false for the zero State (never sampled)
}

// Settled reports whether the animation has reached its target.
func (s State) Settled() bool {
	return s.Valid && s.Value == s.Target
}

// Easing advances a State toward target at time now.
type Easing interface {
	Step(s State, target float64, duration, now time.Duration) State
}

func snap(target float64, now time.Duration) State {
	return State{
		Value:   target,
		From:    target,
		Target:  target,
		Start:   now,
		Updated: now,
		Valid:   true,
	}
}

// Linear interpolates linearly from the value at the last target change.
// A target change is assumed to have happened at the previous sample, so the
// first frame after a change already moves.
type Linear struct{}

// Step implements Easing.
func (Linear) Step(s State, target float64, duration, now time.Duration) State {
	if !s.Valid || duration <= 0 {
		return snap(target, now)
	}

	if target != s.Target {
		s.From = s.Value
		s.Target = target
		s.Start = s.Updated
	}

	prev, prevTime := s.Value, s.Updated
	t := float64(now-s.Start) / float64(duration)
	switch {
	case t >= 1:
		s.Value = s.Target
	case t <= 0:
		s.Value = s.From
	default:
		s.Value = s.From + (s.Target-s.From)*t
	}

	if dt := (now - prevTime).Seconds(); dt > 0 {
		s.Velocity = (s.Value - prev) / dt
	}
	if s.Value == s.Target {
		s.Velocity = 0
	}
	s.Updated = now
	return s
}

// Spring eases with a damped harmonic spring.
// Damping of 1 (or zero, the default) is critically damped; values below 1
// overshoot before settling.
type Spring struct {
	Damping float64
}

// Step implements Easing.
func (sp Spring) Step(s State, target float64, duration, now time.Duration) State {
	if !s.Valid || duration <= 0 {
		return snap(target, now)
	}

	if target != s.Target {
		s.From = s.Value
		s.Target = target
		s.Start = s.Updated
	}

	dt := (now - s.Updated).Seconds()
	if dt <= 0 {
		return s
	}

	damping := sp.Damping
	if damping <= 0 {
		damping = 1
	}
	omega := springFrequency / duration.Seconds()

	spring := harmonica.NewSpring(dt, omega, damping)
	s.Value, s.Velocity = spring.Update(s.Value, s.Velocity, s.Target)
	s.Updated = now

	if math.Abs(s.Target-s.Value) < Epsilon && math.Abs(s.Velocity) < Epsilon*omega {
		s.Value = s.Target
		s.Velocity = 0
	}
	return s
}
