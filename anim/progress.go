// Package anim drives per-frame animation state.
//
// Demos advance a Progress once per frame and map it onto a curve or an
// angle. An Animator provides the per-frame callback when no windowing host
// is present (headless export, tests).
package anim

import (
	"math"
	"time"
)

// Wrap maps v into [0, 1) by discarding its integer part. Negative values
// wrap from the top, so Wrap(-0.25) is 0.75.
func Wrap(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	v -= math.Floor(v)
	if v >= 1 {
		// -tiny - floor(-tiny) rounds to exactly 1.
		v = 0
	}
	return v
}

// Progress is a scalar in [0, 1) advanced once per frame.
// The zero value starts at 0.
type Progress struct {
	v float64
}

// Value returns the current progress.
func (p *Progress) Value() float64 {
	return p.v
}

// Set moves the progress to v, wrapped into [0, 1).
func (p *Progress) Set(v float64) {
	p.v = Wrap(v)
}

// Reset moves the progress back to 0.
func (p *Progress) Reset() {
	p.v = 0
}

// Advance adds delta and wraps the result. It reports whether the progress
// crossed the end of the loop (or the start, for negative deltas).
func (p *Progress) Advance(delta float64) (wrapped bool) {
	next := p.v + delta
	p.v = Wrap(next)
	return next >= 1 || next < 0
}

// Loop maps elapsed time onto a repeating progress.
type Loop struct {
	// Duration of one full loop. Zero or negative stops the loop at 0.
	Duration time.Duration
}

// At returns the progress after elapsed time.
func (l Loop) At(elapsed time.Duration) float64 {
	if l.Duration <= 0 {
		return 0
	}
	return Wrap(float64(elapsed) / float64(l.Duration))
}

// Delta converts a frame duration into a progress increment.
func (l Loop) Delta(dt time.Duration) float64 {
	if l.Duration <= 0 {
		return 0
	}
	return float64(dt) / float64(l.Duration)
}
