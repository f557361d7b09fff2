package resolve

import (
	"fmt"

	"github.com/mailwright/mailwright/pkg/logging"
)

// visualPatterns are literal visible-text patterns per role, used as the
// last-resort tier when every structural approach has failed.
var visualPatterns = map[FieldRole][]string{
	RoleCompose:   {"Compose", "New message", "Write"},
	RoleRecipient: {"To:", "Recipients", "Send to"},
	RoleSubject:   {"Subject:", "Subject"},
	RoleBody:      {"Message", "Type your message"},
	RoleSend:      {"Send", "Send message"},
}

// inputDescendants matches fillable elements nested under a text label.
const inputDescendants = `input, textarea, div[contenteditable]`

// VisualTextLocator finds fields by their visible labels. For button
// roles the labeled element is itself the target; for input roles the
// target is a fillable descendant of the labeled element.
type VisualTextLocator struct{}

// NewVisualTextLocator creates the visual-text tier.
func NewVisualTextLocator() *VisualTextLocator { return &VisualTextLocator{} }

// Name implements Strategy.
func (l *VisualTextLocator) Name() string { return "visual text" }

// Source implements Strategy.
func (l *VisualTextLocator) Source() Source { return SourceVisualText }

// Resolve tries each text pattern in order; the first success wins.
// Failures during a single pattern probe are swallowed and the loop
// continues, except for surface faults, which end the session.
func (l *VisualTextLocator) Resolve(surface Surface, _ ServiceID, role FieldRole, trail *logging.Trail) (Candidate, bool, error) {
	trail.Step("Trying visual text detection for %s", role)

	for _, pattern := range visualPatterns[role] {
		selector := fmt.Sprintf(`:has-text(%q)`, pattern)

		elements, err := surface.QuerySelectorAll(selector)
		if err != nil {
			if IsSurfaceFault(err) {
				return Candidate{}, false, err
			}
			continue
		}

		for _, el := range elements {
			visible, err := el.IsVisible()
			if err != nil {
				if IsSurfaceFault(err) {
					return Candidate{}, false, err
				}
				continue
			}
			if !visible {
				continue
			}

			// Button roles: the labeled element is the target.
			if role == RoleCompose || role == RoleSend {
				trail.Step("Found %s with visual pattern: %q", role, pattern)
				return Candidate{Selector: selector, Source: SourceVisualText}, true, nil
			}

			// Input roles: look for a fillable descendant.
			nested, err := el.QuerySelector(inputDescendants)
			if err != nil {
				if IsSurfaceFault(err) {
					return Candidate{}, false, err
				}
				continue
			}
			if nested == nil {
				continue
			}

			nestedSelector, err := describeElement(nested)
			if err != nil {
				if IsSurfaceFault(err) {
					return Candidate{}, false, err
				}
				continue
			}
			if nestedSelector != "" {
				trail.Step("Found %s near visual pattern: %q", role, pattern)
				return Candidate{Selector: nestedSelector, Source: SourceVisualText}, true, nil
			}
		}
	}

	trail.Step("Visual patterns exhausted for %s", role)
	return Candidate{}, false, nil
}

// describeElement synthesizes a locator for a live element from its most
// specific available attribute: identifier, ARIA label, placeholder,
// then bare tag name.
func describeElement(el Element) (string, error) {
	if id, err := el.GetAttribute("id"); err != nil {
		return "", err
	} else if id != "" {
		return "#" + id, nil
	}

	if aria, err := el.GetAttribute("aria-label"); err != nil {
		return "", err
	} else if aria != "" {
		return fmt.Sprintf(`[aria-label=%q]`, aria), nil
	}

	if placeholder, err := el.GetAttribute("placeholder"); err != nil {
		return "", err
	} else if placeholder != "" {
		return fmt.Sprintf(`[placeholder=%q]`, placeholder), nil
	}

	return el.TagName()
}
