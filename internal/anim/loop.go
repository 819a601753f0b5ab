// Package anim drives per-frame scene updates.
package anim

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Status is the scheduling state of a Loop.
type Status int

const (
	Idle Status = iota
	Running
)

func (s Status) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// DefaultInterval is the frame period used when Loop.Interval is zero.
const DefaultInterval = time.Second / 30

// Runner is the non-generic view of a Loop.
type Runner interface {
	Start(ctx context.Context) bool
	Stop()
	Frame(elapsed float64) error
	Do(fn func())
	Status() Status
	Err() error
}

// Loop owns the frame schedule of one scene. Each frame computes the next
// state from the previous one with Step, writes it to the scene with Apply
// and then calls Render. Frames and Do callbacks never overlap.
type Loop[S any] struct {
	// Step returns the state for the given elapsed time in seconds. It must
	// not touch the scene.
	Step func(prev S, elapsed float64) S
	// Apply writes a state to the scene.
	Apply func(S)
	// Render draws the scene. An error stops the loop.
	Render func() error
	// Interval is the frame period.
	Interval time.Duration

	mu     sync.Mutex
	state  S
	status Status
	err    error
	cancel context.CancelFunc
	done   chan struct{}
	begin  time.Time
	// offset is the elapsed time the running schedule resumes from.
	offset float64
	last   float64
}

// NewLoop returns an idle loop starting from initial.
func NewLoop[S any](initial S, step func(S, float64) S, apply func(S), render func() error) *Loop[S] {
	return &Loop[S]{Step: step, Apply: apply, Render: render, state: initial}
}

// Start moves an idle loop to running and begins ticking in a new
// goroutine. Elapsed time continues from the last frame, so a restart
// does not rewind the animation. It reports false, doing nothing, when the
// loop already runs.
func (l *Loop[S]) Start(ctx context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.status == Running {
		return false
	}
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	l.status = Running
	l.err = nil
	l.cancel = cancel
	l.done = make(chan struct{})
	l.begin = time.Now()
	l.offset = l.last
	go l.run(ctx, interval, l.done)
	return true
}

func (l *Loop[S]) run(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			l.mu.Lock()
			l.status = Idle
			l.mu.Unlock()
			return
		case now := <-ticker.C:
			l.mu.Lock()
			err := l.frame(l.offset + now.Sub(l.begin).Seconds())
			if err != nil {
				l.err = err
				l.status = Idle
				l.cancel()
				l.mu.Unlock()
				return
			}
			l.mu.Unlock()
		}
	}
}

// Stop returns the loop to idle and waits for the ticking goroutine to exit.
func (l *Loop[S]) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Frame advances one frame synchronously. It does not require Start.
func (l *Loop[S]) Frame(elapsed float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frame(elapsed)
}

func (l *Loop[S]) frame(elapsed float64) error {
	l.last = elapsed
	if l.Step != nil {
		l.state = l.Step(l.state, elapsed)
	}
	if l.Apply != nil {
		l.Apply(l.state)
	}
	if l.Render == nil {
		return nil
	}
	if err := l.Render(); err != nil {
		return fmt.Errorf("render frame at %.3fs: %w", elapsed, err)
	}
	return nil
}

// Do runs fn between frames.
func (l *Loop[S]) Do(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}

// State returns the last computed state.
func (l *Loop[S]) State() S {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Loop[S]) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// Err returns the render error that stopped the loop, if any.
func (l *Loop[S]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
