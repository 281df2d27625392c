package anim

import "time"

// Clock reports the current time as an offset from an arbitrary origin.
type Clock interface {
	Now() time.Duration
}

// FrameClock is advanced by the host loop, typically once per frame.
// The zero value starts at time zero.
type FrameClock struct {
	now time.Duration
}

// Now implements Clock.
func (c *FrameClock) Now() time.Duration { return c.now }

// Advance moves the clock forward by d. Negative values are ignored.
func (c *FrameClock) Advance(d time.Duration) {
	if d > 0 {
		c.now += d
	}
}

// WallClock measures real time since it was created.
type WallClock struct {
	start time.Time
}

// NewWallClock returns a clock whose origin is now.
func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

// Now implements Clock.
func (c *WallClock) Now() time.Duration { return time.Since(c.start) }
