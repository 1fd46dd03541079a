package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"vidsight/internal/models"
)

// TypeaheadSnapshot is an immutable view of a TypeaheadController.
type TypeaheadSnapshot struct {
	Query   string           `json:"query"`
	Results []models.Channel `json:"results"`
	Status  Status           `json:"status"`
}

// TypeaheadController turns a keystroke stream into a rate-limited series of
// channel searches. Every keystroke restarts the debounce timer and
// invalidates any in-flight query; blank input short-circuits to idle with
// no call. Failures are silent — typeahead is advisory, so they just
// degrade to an empty suggestion list.
type TypeaheadController struct {
	gw       Gateway
	delay    time.Duration
	deb      debouncer
	onChange func()

	mu      sync.Mutex
	seq     uint64
	query   string
	results []models.Channel
	status  Status
}

// NewTypeaheadController creates a controller firing delay after the last
// keystroke. onChange, if non-nil, runs after every committed transition.
func NewTypeaheadController(gw Gateway, delay time.Duration, onChange func()) *TypeaheadController {
	return &TypeaheadController{gw: gw, delay: delay, onChange: onChange, status: StatusIdle}
}

// SetQuery records a keystroke. The remote call, if any, happens after the
// debounce delay on a timer goroutine; ctx must therefore outlive the
// calling request.
func (t *TypeaheadController) SetQuery(ctx context.Context, query string) {
	t.mu.Lock()
	t.query = query
	t.seq++
	if strings.TrimSpace(query) == "" {
		t.results = nil
		t.status = StatusIdle
		t.mu.Unlock()
		t.deb.Cancel()
		t.emit()
		return
	}
	tag := t.seq
	t.status = StatusLoading
	// Scheduled under the lock so timer order matches tag order; an older
	// keystroke can never cancel a newer keystroke's pending timer.
	t.deb.Schedule(t.delay, func() {
		t.run(ctx, query, tag)
	})
	t.mu.Unlock()
	t.emit()
}

func (t *TypeaheadController) run(ctx context.Context, query string, tag uint64) {
	t.mu.Lock()
	if tag != t.seq {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	results, err := t.gw.ChannelTypeahead(ctx, query)

	t.mu.Lock()
	if tag != t.seq {
		t.mu.Unlock()
		return
	}
	if err != nil {
		t.results = nil
		t.status = StatusIdle
	} else {
		t.results = results
		if t.results == nil {
			t.results = []models.Channel{}
		}
		t.status = StatusSucceeded
	}
	t.mu.Unlock()
	t.emit()
}

// Reset cancels any pending or in-flight query and clears the controller,
// used when a suggestion is consumed.
func (t *TypeaheadController) Reset() {
	t.deb.Cancel()
	t.mu.Lock()
	t.seq++
	t.query = ""
	t.results = nil
	t.status = StatusIdle
	t.mu.Unlock()
	t.emit()
}

func (t *TypeaheadController) Snapshot() TypeaheadSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return TypeaheadSnapshot{
		Query:   t.query,
		Results: append([]models.Channel(nil), t.results...),
		Status:  t.status,
	}
}

func (t *TypeaheadController) emit() {
	if t.onChange != nil {
		t.onChange()
	}
}
