package resolve

import (
	"github.com/mailwright/mailwright/pkg/logging"
)

const semanticWaitMs = 2000

// semanticLocators are role-keyed, service-agnostic locators expressed
// through accessibility semantics: ARIA labels, placeholders, and name
// attributes with case-insensitive substring matches, plus generic text
// content. Web apps converge on these conventions even when their markup
// differs, which is what makes this tier worth having.
var semanticLocators = map[FieldRole][]string{
	RoleCompose: {
		`[role="button"]:has-text("Compose")`,
		`[role="button"]:has-text("New")`,
		`[aria-label*="compose" i]`,
		`[aria-label*="new message" i]`,
	},
	RoleRecipient: {
		`input[aria-label*="to" i]`,
		`input[placeholder*="to" i]`,
		`input[name*="to" i]`,
		`[aria-label*="recipient" i] input`,
	},
	RoleSubject: {
		`input[aria-label*="subject" i]`,
		`input[placeholder*="subject" i]`,
		`input[name*="subject" i]`,
	},
	RoleBody: {
		`[aria-label*="message" i][role="textbox"]`,
		`[aria-label*="body" i]`,
		`div[contenteditable="true"]`,
		`textarea[aria-label*="message" i]`,
	},
	RoleSend: {
		`[role="button"]:has-text("Send")`,
		`[aria-label*="send" i]`,
		`button:has-text("Send")`,
	},
}

// SemanticLocator is the accessibility-convention resolution tier.
type SemanticLocator struct{}

// NewSemanticLocator creates the semantic tier.
func NewSemanticLocator() *SemanticLocator { return &SemanticLocator{} }

// Name implements Strategy.
func (l *SemanticLocator) Name() string { return "semantic" }

// Source implements Strategy.
func (l *SemanticLocator) Source() Source { return SourceSemantic }

// Resolve attempts each semantic locator with the same per-locator
// wait/visibility contract as the service profile tier.
func (l *SemanticLocator) Resolve(surface Surface, _ ServiceID, role FieldRole, trail *logging.Trail) (Candidate, bool, error) {
	for _, locator := range semanticLocators[role] {
		_, ok, err := waitVisible(surface, locator, semanticWaitMs)
		if err != nil {
			return Candidate{}, false, err
		}
		if ok {
			trail.Step("Found %s with semantic selector: %s", role, locator)
			return Candidate{Selector: locator, Source: SourceSemantic}, true, nil
		}
	}

	trail.Step("Semantic selectors exhausted for %s", role)
	return Candidate{}, false, nil
}
