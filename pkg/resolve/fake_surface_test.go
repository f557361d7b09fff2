package resolve

import (
	"github.com/mailwright/mailwright/pkg/logging"
)

// Scripted in-memory surface for exercising the engine without a
// browser. Selectors are matched literally: an element registered under
// a locator string is "found" by exactly that locator.

type fakeElement struct {
	tag     string
	attrs   map[string]string
	visible bool
	enabled bool
	value   string
	text    string
	child   *fakeElement

	// Behavior switches
	fillApplies bool
	typeApplies bool
	clickErr    error
	fillErr     error
	typeErr     error
	inputErr    error

	// Call records
	clicks    int
	fillCalls []string
	typeCalls []string
}

func newFakeElement(tag string) *fakeElement {
	return &fakeElement{
		tag:         tag,
		attrs:       map[string]string{},
		visible:     true,
		enabled:     true,
		fillApplies: true,
		typeApplies: true,
	}
}

func (e *fakeElement) IsVisible() (bool, error) { return e.visible, nil }
func (e *fakeElement) IsEnabled() (bool, error) { return e.enabled, nil }

func (e *fakeElement) Click() error {
	e.clicks++
	return e.clickErr
}

func (e *fakeElement) Fill(value string) error {
	e.fillCalls = append(e.fillCalls, value)
	if e.fillErr != nil {
		return e.fillErr
	}
	if e.fillApplies {
		e.value = value
	}
	return nil
}

func (e *fakeElement) Type(value string, _ float64) error {
	e.typeCalls = append(e.typeCalls, value)
	if e.typeErr != nil {
		return e.typeErr
	}
	if e.typeApplies {
		e.value = value
	}
	return nil
}

func (e *fakeElement) TextContent() (string, error) { return e.text, nil }

func (e *fakeElement) InputValue() (string, error) {
	if e.inputErr != nil {
		return "", e.inputErr
	}
	return e.value, nil
}

func (e *fakeElement) QuerySelector(string) (Element, error) {
	if e.child == nil {
		return nil, nil
	}
	return e.child, nil
}

func (e *fakeElement) GetAttribute(name string) (string, error) {
	return e.attrs[name], nil
}

func (e *fakeElement) TagName() (string, error) { return e.tag, nil }

type fakeSurface struct {
	elements map[string]*fakeElement
	all      map[string][]*fakeElement
	snapshot interface{}
	evalErr  error

	waitErr  map[string]error
	queryErr map[string]error

	waitCalls   []string
	queryCalls  []string
	evalCalls   int
	screenshots []string
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		elements: map[string]*fakeElement{},
		all:      map[string][]*fakeElement{},
		waitErr:  map[string]error{},
		queryErr: map[string]error{},
	}
}

func (s *fakeSurface) QuerySelector(selector string) (Element, error) {
	s.queryCalls = append(s.queryCalls, selector)
	if err, ok := s.queryErr[selector]; ok {
		return nil, err
	}
	if el, ok := s.elements[selector]; ok {
		return el, nil
	}
	return nil, nil
}

func (s *fakeSurface) QuerySelectorAll(selector string) ([]Element, error) {
	s.queryCalls = append(s.queryCalls, selector)
	if err, ok := s.queryErr[selector]; ok {
		return nil, err
	}
	elements := make([]Element, 0, len(s.all[selector]))
	for _, el := range s.all[selector] {
		elements = append(elements, el)
	}
	return elements, nil
}

func (s *fakeSurface) WaitForSelector(selector string, _ float64) (Element, error) {
	s.waitCalls = append(s.waitCalls, selector)
	if err, ok := s.waitErr[selector]; ok {
		return nil, err
	}
	if el, ok := s.elements[selector]; ok {
		return el, nil
	}
	return nil, nil
}

func (s *fakeSurface) Evaluate(string) (interface{}, error) {
	s.evalCalls++
	if s.evalErr != nil {
		return nil, s.evalErr
	}
	return s.snapshot, nil
}

func (s *fakeSurface) Screenshot(path string) error {
	s.screenshots = append(s.screenshots, path)
	return nil
}

// stubStrategy is a counting tier for waterfall ordering assertions.
type stubStrategy struct {
	name      string
	source    Source
	candidate Candidate
	hit       bool
	err       error
	calls     int
}

func (s *stubStrategy) Name() string   { return s.name }
func (s *stubStrategy) Source() Source { return s.source }

func (s *stubStrategy) Resolve(Surface, ServiceID, FieldRole, *logging.Trail) (Candidate, bool, error) {
	s.calls++
	return s.candidate, s.hit, s.err
}
