package curve

import (
	"sync"
	"time"
)

// DefaultDebounce is how long input must stay quiet before a recomputation
// fires. Matches the frontend's keystroke debounce.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer collapses bursts of triggers into a single deferred call.
// Each Trigger resets the pending timer, so only the last function within a
// quiet window runs (last-input-wins; intermediate computations are dropped,
// not queued).
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a debouncer with the given quiet window.
// A non-positive delay falls back to DefaultDebounce.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the quiet window, cancelling any
// previously pending call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending call and rejects further triggers. Used on
// component teardown so no stale recomputation fires afterwards.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
