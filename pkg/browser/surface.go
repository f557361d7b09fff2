package browser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/mailwright/mailwright/pkg/resolve"
)

// pageSurface adapts a Playwright page to the resolve.Surface contract:
// selector misses and wait timeouts become (nil, nil), closed-context
// failures become session-fatal SurfaceErrors, and everything else is a
// plain per-probe error the engine may swallow.
type pageSurface struct {
	page playwright.Page
}

func (s *pageSurface) QuerySelector(selector string) (resolve.Element, error) {
	handle, err := s.page.QuerySelector(selector)
	if err != nil {
		return nil, classifyErr("querySelector", err)
	}
	if handle == nil {
		return nil, nil
	}
	return &elementHandle{handle: handle, page: s.page}, nil
}

func (s *pageSurface) QuerySelectorAll(selector string) ([]resolve.Element, error) {
	handles, err := s.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, classifyErr("querySelectorAll", err)
	}
	elements := make([]resolve.Element, 0, len(handles))
	for _, handle := range handles {
		elements = append(elements, &elementHandle{handle: handle, page: s.page})
	}
	return elements, nil
}

func (s *pageSurface) WaitForSelector(selector string, timeoutMs float64) (resolve.Element, error) {
	handle, err := s.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		Timeout: &timeoutMs,
	})
	if err != nil {
		if isTimeout(err) {
			return nil, nil
		}
		return nil, classifyErr("waitForSelector", err)
	}
	if handle == nil {
		return nil, nil
	}
	return &elementHandle{handle: handle, page: s.page}, nil
}

func (s *pageSurface) Evaluate(script string) (interface{}, error) {
	result, err := s.page.Evaluate(script)
	if err != nil {
		return nil, classifyErr("evaluate", err)
	}
	return result, nil
}

func (s *pageSurface) Screenshot(path string) error {
	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(path),
	})
	if err != nil {
		return classifyErr("screenshot", err)
	}
	return nil
}

// elementHandle adapts a Playwright element handle to resolve.Element.
type elementHandle struct {
	handle playwright.ElementHandle
	page   playwright.Page
}

func (e *elementHandle) IsVisible() (bool, error) {
	visible, err := e.handle.IsVisible()
	if err != nil {
		return false, classifyErr("isVisible", err)
	}
	return visible, nil
}

func (e *elementHandle) IsEnabled() (bool, error) {
	enabled, err := e.handle.IsEnabled()
	if err != nil {
		return false, classifyErr("isEnabled", err)
	}
	return enabled, nil
}

func (e *elementHandle) Click() error {
	if err := e.handle.Click(); err != nil {
		return classifyErr("click", err)
	}
	return nil
}

func (e *elementHandle) Fill(value string) error {
	if err := e.handle.Fill(value); err != nil {
		return classifyErr("fill", err)
	}
	return nil
}

func (e *elementHandle) Type(value string, delayMs float64) error {
	err := e.handle.Type(value, playwright.ElementHandleTypeOptions{
		Delay: &delayMs,
	})
	if err != nil {
		return classifyErr("type", err)
	}
	return nil
}

func (e *elementHandle) TextContent() (string, error) {
	text, err := e.handle.TextContent()
	if err != nil {
		return "", classifyErr("textContent", err)
	}
	return text, nil
}

func (e *elementHandle) InputValue() (string, error) {
	value, err := e.handle.InputValue()
	if err != nil {
		return "", classifyErr("inputValue", err)
	}
	return value, nil
}

func (e *elementHandle) QuerySelector(selector string) (resolve.Element, error) {
	handle, err := e.handle.QuerySelector(selector)
	if err != nil {
		return nil, classifyErr("querySelector", err)
	}
	if handle == nil {
		return nil, nil
	}
	return &elementHandle{handle: handle, page: e.page}, nil
}

func (e *elementHandle) GetAttribute(name string) (string, error) {
	value, err := e.handle.GetAttribute(name)
	if err != nil {
		return "", classifyErr("getAttribute", err)
	}
	return value, nil
}

func (e *elementHandle) TagName() (string, error) {
	result, err := e.handle.Evaluate("el => el.tagName.toLowerCase()")
	if err != nil {
		return "", classifyErr("tagName", err)
	}
	tag, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("unexpected tag name result %T", result)
	}
	return tag, nil
}

// isTimeout reports whether err is a Playwright wait timeout.
func isTimeout(err error) bool {
	var pwErr *playwright.Error
	if errors.As(err, &pwErr) {
		return pwErr.Name == "TimeoutError"
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}

// isClosed reports whether err means the page, context, or browser has
// gone away. That failure class is fatal to a resolution session.
func isClosed(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "has been closed") ||
		strings.Contains(msg, "target closed") ||
		strings.Contains(msg, "browser closed") ||
		strings.Contains(msg, "context closed") ||
		strings.Contains(msg, "connection closed")
}

func classifyErr(op string, err error) error {
	if isClosed(err) {
		return resolve.NewSurfaceError(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
