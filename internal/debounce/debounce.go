// Package debounce coalesces bursts of events into a single call.
package debounce

import (
	"sync"
	"time"
)

// DefaultQuiet is the quiet period used for surface resizes.
const DefaultQuiet = 500 * time.Millisecond

// Debouncer runs the most recently triggered function once no trigger has
// arrived for the quiet period.
type Debouncer struct {
	quiet time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// New returns a Debouncer with the given quiet period; zero or negative
// means DefaultQuiet.
func New(quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	return &Debouncer{quiet: quiet}
}

// Trigger cancels any pending call and schedules fn after the quiet period.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d.quiet, func() {
		d.mu.Lock()
		if d.timer != t {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
	d.timer = t
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
