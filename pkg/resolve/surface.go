package resolve

// Element is a live handle to a single page element. Handles go stale as
// the DOM changes; holders must re-acquire through the Surface rather
// than reuse a handle across waterfall steps.
type Element interface {
	IsVisible() (bool, error)
	IsEnabled() (bool, error)
	Click() error

	// Fill writes the value directly, replacing existing content.
	Fill(value string) error

	// Type writes the value character by character with the given delay
	// between keystrokes, in milliseconds.
	Type(value string, delayMs float64) error

	TextContent() (string, error)

	// InputValue returns the current value of an input or textarea.
	InputValue() (string, error)

	// QuerySelector finds at most one descendant matching the selector.
	// A miss is (nil, nil).
	QuerySelector(selector string) (Element, error)

	// GetAttribute returns the attribute value, or "" when absent.
	GetAttribute(name string) (string, error)

	// TagName returns the lowercase tag name.
	TagName() (string, error)
}

// Surface is the capability set the resolution core requires from the
// underlying browser-control collaborator, and nothing more. The core
// never launches, navigates, or closes the surface.
//
// Error contract: a selector that matches nothing is a miss, reported as
// (nil, nil), including WaitForSelector timing out. A non-nil error
// wrapping SurfaceError means the surface itself failed (closed context,
// crashed page) and is fatal to the session. Other errors are per-probe
// failures the tiers swallow.
type Surface interface {
	// QuerySelector finds at most one live element; non-blocking.
	QuerySelector(selector string) (Element, error)

	// QuerySelectorAll finds all live elements matching the selector.
	QuerySelectorAll(selector string) ([]Element, error)

	// WaitForSelector blocks the calling task until the selector matches
	// a visible element or the timeout elapses. Timeout is a miss, not
	// an error.
	WaitForSelector(selector string, timeoutMs float64) (Element, error)

	// Evaluate runs a script in the page and returns its structured
	// result. Used by the heuristic tier to obtain a batch element
	// snapshot in one round trip; callers must not assume it is cheap.
	Evaluate(script string) (interface{}, error)

	// Screenshot captures the page to path. Diagnostics only; never used
	// for control flow.
	Screenshot(path string) error
}

// waitVisible probes one locator: wait up to timeoutMs, then confirm
// visibility. Returns (nil, false, nil) on a miss or a hidden match,
// and a non-nil error only for session-fatal surface faults.
func waitVisible(s Surface, selector string, timeoutMs float64) (Element, bool, error) {
	el, err := s.WaitForSelector(selector, timeoutMs)
	if err != nil {
		if IsSurfaceFault(err) {
			return nil, false, err
		}
		return nil, false, nil
	}
	if el == nil {
		return nil, false, nil
	}

	visible, err := el.IsVisible()
	if err != nil {
		if IsSurfaceFault(err) {
			return nil, false, err
		}
		return nil, false, nil
	}
	if !visible {
		return nil, false, nil
	}
	return el, true, nil
}
