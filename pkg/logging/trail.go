package logging

import (
	"fmt"
	"sync"
)

// Trail is a chronological record of human-readable step descriptions,
// one line per decision point. It is the only externally observable audit
// trail of a resolution session: callers inspect it to diagnose why a
// field was or wasn't resolved.
//
// A Trail is safe for concurrent use, though a resolution session is
// single-threaded; the lock exists because API callers may read the trail
// while a background task is still appending.
type Trail struct {
	mu     sync.Mutex
	steps  []string
	logger *Logger
}

// NewTrail creates a step trail. If logger is non-nil, every step is
// mirrored to it at info level.
func NewTrail(logger *Logger) *Trail {
	return &Trail{logger: logger}
}

// Step appends a formatted step description to the trail.
func (t *Trail) Step(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)

	t.mu.Lock()
	t.steps = append(t.steps, msg)
	t.mu.Unlock()

	if t.logger != nil {
		t.logger.Infof("%s", msg)
	}
}

// Steps returns a copy of all recorded steps in order.
func (t *Trail) Steps() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, len(t.steps))
	copy(out, t.steps)
	return out
}

// Len returns the number of recorded steps.
func (t *Trail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.steps)
}
