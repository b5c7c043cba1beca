package anim

import (
	"context"
	"sync"
	"time"

	"github.com/gogpu/g3d"
)

// Frame describes one invocation of the per-frame callbacks.
type Frame struct {
	// Index counts frames from 0.
	Index uint64
	// Delta is the time since the previous frame (0 for the first).
	Delta time.Duration
	// Elapsed is the time since the first frame.
	Elapsed time.Duration
	// Time is the timestamp passed to Step.
	Time time.Time
}

// FrameFunc is called once per frame.
type FrameFunc func(Frame)

// Animator calls registered FrameFuncs once per frame.
//
// A windowing host calls Step from its own refresh callback; without one,
// Run schedules frames with a ticker. Callbacks always run on the goroutine
// that calls Step or Run, one at a time, in registration order.
type Animator struct {
	mu    sync.Mutex
	funcs []FrameFunc

	started bool
	start   time.Time
	last    time.Time
	index   uint64
}

// New creates an animator with the given callbacks.
func New(funcs ...FrameFunc) *Animator {
	a := &Animator{}
	for _, fn := range funcs {
		a.Add(fn)
	}
	return a
}

// Add registers fn. It is safe to call from a callback; fn first runs on the
// next frame.
func (a *Animator) Add(fn FrameFunc) {
	if fn == nil {
		return
	}
	a.mu.Lock()
	a.funcs = append(a.funcs, fn)
	a.mu.Unlock()
}

// Frames returns the number of frames stepped so far.
func (a *Animator) Frames() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.index
}

// Step runs every callback once for a frame at now and returns the frame.
func (a *Animator) Step(now time.Time) Frame {
	a.mu.Lock()
	if !a.started {
		a.started = true
		a.start, a.last = now, now
	}
	f := Frame{
		Index:   a.index,
		Delta:   now.Sub(a.last),
		Elapsed: now.Sub(a.start),
		Time:    now,
	}
	a.index++
	a.last = now
	funcs := append([]FrameFunc(nil), a.funcs...)
	a.mu.Unlock()

	for _, fn := range funcs {
		fn(f)
	}
	return f
}

// Run steps a frame immediately and then every interval until ctx is
// cancelled, returning ctx.Err(). A slow frame delays the next one rather
// than queueing extra frames.
func (a *Animator) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second / 60
	}
	g3d.Logger().Debug("animator started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.Step(time.Now())
	for {
		select {
		case <-ctx.Done():
			g3d.Logger().Debug("animator stopped", "frames", a.Frames())
			return ctx.Err()
		case now := <-ticker.C:
			a.Step(now)
		}
	}
}
