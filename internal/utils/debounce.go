package utils

import (
	"sync"
	"time"
)

// Debouncer runs the last submitted function once no new submission has
// arrived for the configured quiet period.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	stopped bool
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Submit(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.delay <= 0 {
		go fn()
		return
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop drops any pending call. Later submissions are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
