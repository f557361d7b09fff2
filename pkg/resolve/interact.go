package resolve

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mailwright/mailwright/pkg/logging"
)

const (
	// DefaultMaxRetries bounds click/fill attempts.
	DefaultMaxRetries = 3

	// DefaultBackoffMs is the fixed wait between failed attempts.
	DefaultBackoffMs = 1000

	clickWaitMs = 5000
	fillWaitMs  = 3000

	// typeDelayMs is the per-character delay of the typed write method.
	typeDelayMs = 50
)

// ExecutorOptions configures an Executor.
type ExecutorOptions struct {
	MaxRetries int
	BackoffMs  float64
	Trail      *logging.Trail
}

// Executor performs clicks and fills against resolved selectors. Every
// attempt re-acquires the live element through the surface; a selector
// from a Resolution is never assumed to still match.
type Executor struct {
	surface    Surface
	trail      *logging.Trail
	maxRetries int
	backoff    time.Duration
	sleep      func(time.Duration)
}

// NewExecutor creates an executor over the given surface.
func NewExecutor(surface Surface, opts ExecutorOptions) *Executor {
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	backoffMs := opts.BackoffMs
	if backoffMs <= 0 {
		backoffMs = DefaultBackoffMs
	}
	trail := opts.Trail
	if trail == nil {
		trail = logging.NewTrail(nil)
	}
	return &Executor{
		surface:    surface,
		trail:      trail,
		maxRetries: maxRetries,
		backoff:    time.Duration(backoffMs) * time.Millisecond,
		sleep:      time.Sleep,
	}
}

// Click clicks the element behind selector, retrying up to the configured
// attempt bound with a fixed backoff between attempts. Exhausting retries
// is reported in the Outcome, not as an error; the returned error is
// non-nil only for session-fatal surface faults.
func (e *Executor) Click(selector, label string) (Outcome, error) {
	var lastErr error

	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		e.trail.Step("Clicking %s (attempt %d/%d)", label, attempt, e.maxRetries)

		el, err := e.surface.WaitForSelector(selector, clickWaitMs)
		if err != nil {
			if IsSurfaceFault(err) {
				return Outcome{Kind: OutcomeFailed, Attempts: attempt, LastErr: err}, err
			}
			lastErr = err
		} else if el == nil {
			lastErr = fmt.Errorf("%s not present", label)
		} else if visible, verr := el.IsVisible(); verr != nil {
			if IsSurfaceFault(verr) {
				return Outcome{Kind: OutcomeFailed, Attempts: attempt, LastErr: verr}, verr
			}
			lastErr = verr
		} else if !visible {
			lastErr = fmt.Errorf("%s not visible", label)
		} else if cerr := el.Click(); cerr != nil {
			if IsSurfaceFault(cerr) {
				return Outcome{Kind: OutcomeFailed, Attempts: attempt, LastErr: cerr}, cerr
			}
			lastErr = cerr
		} else {
			e.trail.Step("Successfully clicked %s", label)
			return Outcome{Kind: OutcomeClicked, Attempts: attempt}, nil
		}

		if attempt < e.maxRetries {
			e.sleep(e.backoff)
		}
	}

	e.trail.Step("Failed to click %s after %d attempts", label, e.maxRetries)
	return Outcome{Kind: OutcomeFailed, Attempts: e.maxRetries, LastErr: lastErr}, nil
}

// Fill writes value into the element behind selector. Each attempt
// re-acquires the element, confirms visibility, and walks an ordered
// list of write methods (direct assignment, character-by-character
// typing, then a raw in-page value write) until one passes read-back
// verification. A field already holding the value verifies on the first
// method without further writes.
func (e *Executor) Fill(selector, label, value string) (Outcome, error) {
	var lastErr error

	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		e.trail.Step("Filling %s: %s", label, truncateValue(value, 30))

		el, err := e.surface.WaitForSelector(selector, fillWaitMs)
		if err != nil {
			if IsSurfaceFault(err) {
				return Outcome{Kind: OutcomeFailed, Attempts: attempt, LastErr: err}, err
			}
			lastErr = err
		} else if el == nil {
			lastErr = fmt.Errorf("%s not present", label)
		} else if visible, verr := el.IsVisible(); verr != nil {
			if IsSurfaceFault(verr) {
				return Outcome{Kind: OutcomeFailed, Attempts: attempt, LastErr: verr}, verr
			}
			lastErr = verr
		} else if !visible {
			lastErr = fmt.Errorf("%s not visible", label)
		} else {
			ok, werr := e.tryWriteMethods(el, selector, label, value)
			if werr != nil {
				return Outcome{Kind: OutcomeFailed, Attempts: attempt, LastErr: werr}, werr
			}
			if ok {
				e.trail.Step("Successfully filled %s", label)
				return Outcome{Kind: OutcomeFilled, Attempts: attempt}, nil
			}
			lastErr = fmt.Errorf("could not verify %s was filled", label)
		}

		if attempt < e.maxRetries {
			e.sleep(e.backoff)
		}
	}

	e.trail.Step("Failed to fill %s after %d attempts", label, e.maxRetries)
	return Outcome{Kind: OutcomeFailed, Attempts: e.maxRetries, LastErr: lastErr}, nil
}

// tryWriteMethods walks the write methods in order within one attempt.
// The first method whose result passes verification wins. A non-nil
// error is a surface fault.
func (e *Executor) tryWriteMethods(el Element, selector, label, value string) (bool, error) {
	methods := []struct {
		name  string
		write func() error
	}{
		{"direct fill", func() error { return el.Fill(value) }},
		{"typed input", func() error { return el.Type(value, typeDelayMs) }},
		{"raw value write", func() error {
			_, err := e.surface.Evaluate(rawWriteScript(selector, value))
			return err
		}},
	}

	for _, method := range methods {
		if err := method.write(); err != nil {
			if IsSurfaceFault(err) {
				return false, err
			}
			e.trail.Step("Write method %q failed for %s: %v", method.name, label, err)
			continue
		}

		readBack, err := readBackValue(el)
		if err != nil {
			if IsSurfaceFault(err) {
				return false, err
			}
			e.trail.Step("Read-back failed after %q for %s: %v", method.name, label, err)
			continue
		}

		if verifyFill(value, readBack) {
			e.trail.Step("Write method %q verified for %s", method.name, label)
			return true, nil
		}
		e.trail.Step("Write method %q did not verify for %s", method.name, label)
	}

	return false, nil
}

// readBackValue reads the element's current content, preferring the
// input value and falling back to text content for content-editable
// targets.
func readBackValue(el Element) (string, error) {
	value, err := el.InputValue()
	if err == nil {
		return value, nil
	}
	if IsSurfaceFault(err) {
		return "", err
	}
	return el.TextContent()
}

// verifyFill checks the written value against the read-back value. The
// policy is deliberately loose to tolerate UI-side trimming and
// formatting: either value may be a substring of the other. The one
// tightening over that policy: a non-empty write never verifies against
// an empty read-back.
func verifyFill(written, readBack string) bool {
	w := strings.TrimSpace(written)
	r := strings.TrimSpace(readBack)
	if w != "" && r == "" {
		return false
	}
	return strings.Contains(r, w) || strings.Contains(w, r)
}

// rawWriteScript builds the in-page value assignment used as the last
// write method. Values are JSON-encoded to survive embedding.
func rawWriteScript(selector, value string) string {
	sel, _ := json.Marshal(selector)
	val, _ := json.Marshal(value)
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el) return false;
	if ('value' in el) { el.value = %s; } else { el.textContent = %s; }
	el.dispatchEvent(new Event('input', { bubbles: true }));
	return true;
})()`, sel, val, val)
}

func truncateValue(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
