// Package loop is the single-goroutine frame loop. Scene state and GPU resources are owned by
// the goroutine calling Run; everything else talks to it through Post.
package loop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrRunning is returned by Run when the loop is already running.
var ErrRunning = errors.New("loop: already running")

// Frame renders one frame. dt is the time since the previous frame in seconds (0 on the first).
// Returning false ends the loop, e.g. when the window was closed.
type Frame func(dt float32) bool

// Loop runs frames back to back, each one scheduled when the previous finishes.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	running atomic.Bool
	frames  atomic.Uint64

	// Now is the clock used for frame deltas. Tests replace it.
	Now func() time.Time
}

// New returns an idle loop.
func New() *Loop {
	return &Loop{Now: time.Now}
}

// Post queues fn to run on the loop goroutine before the next frame. Safe from any goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
}

// Running reports whether Run is active.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// Frames returns the number of frames completed since the loop was created.
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}

func (l *Loop) drain() {
	l.mu.Lock()
	q := l.queue
	l.queue = nil
	l.mu.Unlock()
	for _, fn := range q {
		fn()
	}
}

// Run calls frame repeatedly on the calling goroutine until frame returns false or ctx is done.
// Posted closures run in FIFO order before each frame. Run returns nil when frame stopped the loop
// and ctx.Err() on cancellation.
func (l *Loop) Run(ctx context.Context, frame Frame) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer l.running.Store(false)

	var last time.Time
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.drain()

		now := l.Now()
		var dt float32
		if !last.IsZero() {
			dt = float32(now.Sub(last).Seconds())
		}
		last = now

		ok := frame(dt)
		l.frames.Add(1)
		if !ok {
			return nil
		}
	}
}
