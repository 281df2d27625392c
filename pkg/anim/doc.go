// Package anim eases scalar values toward a target over wall-clock time.
//
// The easing curves are pure functions of the previous [State], the target,
// the duration and the current time, so they can be tested without a frame
// loop. [Animator] binds an [Easing] to a [memory.Memory] and a [Clock]: each
// call to [Animator.Value] loads the state kept under an ID, steps it and
// stores it back, which is what the canvas viewport uses to smooth pan and
// zoom.
//
// Two curves are provided:
//
//   - [Linear] restarts a tween from the current value whenever the target
//     changes and lands on the target exactly one duration later.
//   - [Spring] follows a damped spring (github.com/charmbracelet/harmonica)
//     and snaps to the target once it is within [Epsilon].
package anim
