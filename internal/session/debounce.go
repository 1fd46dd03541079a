package session

import (
	"sync"
	"time"
)

// debouncer is a cancellable scheduled task: Schedule replaces any pending
// task, so only the last-scheduled one ever fires.
type debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
}

func (d *debouncer) Schedule(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(delay, fn)
}

func (d *debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
