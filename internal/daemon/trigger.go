package daemon

import (
	"context"
	"sync"
	"time"
)

// DefaultQuietWindow is how long a burst of change events must settle before a rebuild.
const DefaultQuietWindow = 300 * time.Millisecond

// Trigger coalesces rebuild requests. Requests arriving within the quiet
// window collapse into one run; a request made while a run is in flight
// queues exactly one follow-up.
type Trigger struct {
	quiet time.Duration
	run   func(ctx context.Context, reason string)

	mu      sync.Mutex
	timer   *time.Timer
	reason  string
	pending chan string
}

// NewTrigger creates a Trigger calling run for each coalesced request.
func NewTrigger(quiet time.Duration, run func(ctx context.Context, reason string)) *Trigger {
	if quiet <= 0 {
		quiet = DefaultQuietWindow
	}
	return &Trigger{quiet: quiet, run: run, pending: make(chan string, 1)}
}

// Request schedules a rebuild after the quiet window.
func (t *Trigger) Request(reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reason = reason
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.quiet, t.fire)
}

// Now schedules a rebuild without waiting for the quiet window.
func (t *Trigger) Now(reason string) {
	t.mu.Lock()
	t.reason = reason
	t.mu.Unlock()
	t.fire()
}

func (t *Trigger) fire() {
	t.mu.Lock()
	reason := t.reason
	t.mu.Unlock()
	select {
	case t.pending <- reason:
	default:
	}
}

// Run executes requests one at a time until ctx is done.
func (t *Trigger) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			t.mu.Lock()
			if t.timer != nil {
				t.timer.Stop()
			}
			t.mu.Unlock()
			return
		case reason := <-t.pending:
			t.run(ctx, reason)
		}
	}
}
