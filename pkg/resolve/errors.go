package resolve

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates no strategy located the requested field role.
	// Recoverable: callers fall back to a degraded/simulated path.
	ErrNotFound = errors.New("field not found")

	// ErrAuthRequired indicates an authentication wall blocks the session.
	// Recoverable by the caller escalating to a manual or OAuth flow;
	// never retried automatically.
	ErrAuthRequired = errors.New("authentication required")

	// ErrInteractionFailed indicates a click or fill exhausted its retries.
	ErrInteractionFailed = errors.New("interaction failed after retries")
)

// SurfaceError wraps an unexpected fault from the automation surface
// itself, such as a closed browser context. It is the only error kind
// treated as fatal to a resolution session: it is reported upward, never
// retried internally, and never confused with a field miss.
type SurfaceError struct {
	Op  string
	Err error
}

func (e *SurfaceError) Error() string {
	return fmt.Sprintf("surface fault during %s: %v", e.Op, e.Err)
}

func (e *SurfaceError) Unwrap() error {
	return e.Err
}

// NewSurfaceError wraps err as a session-fatal surface fault.
func NewSurfaceError(op string, err error) *SurfaceError {
	return &SurfaceError{Op: op, Err: err}
}

// IsSurfaceFault reports whether err carries a SurfaceError anywhere in
// its chain. Probe-level errors that are not surface faults are expected,
// high frequency, and swallowed locally by the strategy tiers.
func IsSurfaceFault(err error) bool {
	var se *SurfaceError
	return errors.As(err, &se)
}
