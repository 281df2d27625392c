package anim

import (
	"math"
	"testing"
	"time"
)

const frame = time.Second / 60

func TestLinearFirstSampleSnaps(t *testing.T) {
	s := Linear{}.Step(State{}, 5, 100*time.Millisecond, 0)
	if !s.Valid || s.Value != 5 || !s.Settled() {
		t.Errorf("first sample = %+v, want settled at 5", s)
	}
}

func TestLinearZeroDurationSnaps(t *testing.T) {
	s := Linear{}.Step(State{}, 0, 0, 0)
	s = Linear{}.Step(s, 10, 0, frame)
	if s.Value != 10 {
		t.Errorf("Value = %v, want 10", s.Value)
	}
}

func TestLinearTween(t *testing.T) {
	duration := 100 * time.Millisecond
	s := Linear{}.Step(State{}, 0, duration, 0)

	s = Linear{}.Step(s, 10, duration, 25*time.Millisecond)
	if math.Abs(s.Value-2.5) > 1e-9 {
		t.Errorf("Value at 25%% = %v, want 2.5", s.Value)
	}
	if s.Velocity <= 0 {
		t.Errorf("Velocity = %v, want positive", s.Velocity)
	}

	s = Linear{}.Step(s, 10, duration, 75*time.Millisecond)
	if math.Abs(s.Value-7.5) > 1e-9 {
		t.Errorf("Value at 75%% = %v, want 7.5", s.Value)
	}

	s = Linear{}.Step(s, 10, duration, 100*time.Millisecond)
	if s.Value != 10 || !s.Settled() || s.Velocity != 0 {
		t.Errorf("final state = %+v, want settled at 10", s)
	}
}

func TestLinearRetargetStartsFromCurrentValue(t *testing.T) {
	duration := 100 * time.Millisecond
	s := Linear{}.Step(State{}, 0, duration, 0)
	s = Linear{}.Step(s, 10, duration, 50*time.Millisecond) // 5
	s = Linear{}.Step(s, 0, duration, 100*time.Millisecond)

	if s.From != 5 {
		t.Errorf("From = %v, want 5", s.From)
	}
	// Retarget counts from the previous sample (50ms): 50% of the way back.
	if math.Abs(s.Value-2.5) > 1e-9 {
		t.Errorf("Value = %v, want 2.5", s.Value)
	}
}

func TestLinearConvergesStrictly(t *testing.T) {
	duration := 83 * time.Millisecond
	s := Linear{}.Step(State{}, 1, duration, 0)

	now := time.Duration(0)
	prevGap := math.Inf(1)
	frames := 0
	// The sampler starts settled at 1; the loop retargets it to 2.5.
	for frames == 0 || !s.Settled() {
		now += frame
		frames++
		s = Linear{}.Step(s, 2.5, duration, now)
		gap := math.Abs(2.5 - s.Value)
		if gap >= prevGap {
			t.Fatalf("frame %d: gap %v did not shrink from %v", frames, gap, prevGap)
		}
		prevGap = gap
		if frames > 100 {
			t.Fatal("did not converge")
		}
	}

	// 83ms at 60 fps is 5 frames.
	if frames != 5 {
		t.Errorf("converged after %d frames, want 5", frames)
	}
}

func TestSpringConverges(t *testing.T) {
	tests := []struct {
		name    string
		damping float64
	}{
		{"critical", 0},
		{"under damped", 0.5},
		{"over damped", 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp := Spring{Damping: tt.damping}
			duration := 100 * time.Millisecond
			s := sp.Step(State{}, 0, duration, 0)

			now := time.Duration(0)
			frames := 0
			for frames == 0 || (frames < 600 && !s.Settled()) {
				now += frame
				frames++
				s = sp.Step(s, 100, duration, now)
			}
			if !s.Settled() || s.Value != 100 {
				t.Errorf("spring did not settle after %d frames: %+v", frames, s)
			}
			if frames < 2 {
				t.Errorf("settled after %d frames, want an eased approach", frames)
			}
		})
	}
}

func TestSpringCriticalIsMonotonic(t *testing.T) {
	sp := Spring{}
	duration := 100 * time.Millisecond
	s := sp.Step(State{}, 0, duration, 0)

	now := time.Duration(0)
	prev := s.Value
	for i := 0; i < 120; i++ {
		now += frame
		s = sp.Step(s, 1, duration, now)
		if s.Value < prev || s.Value > 1 {
			t.Fatalf("frame %d: value %v regressed from %v or overshot", i, s.Value, prev)
		}
		prev = s.Value
	}
}

func TestSpringSameInstantIsNoop(t *testing.T) {
	sp := Spring{}
	s := sp.Step(State{}, 0, time.Second, 0)
	s = sp.Step(s, 1, time.Second, frame)
	again := sp.Step(s, 1, time.Second, frame)
	if again.Value != s.Value {
		t.Errorf("second sample at the same instant moved: %v -> %v", s.Value, again.Value)
	}
}
