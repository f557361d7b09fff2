package resolve

import "fmt"

// FieldRole is the semantic purpose a UI element serves in an email
// compose flow, independent of its concrete markup.
type FieldRole string

const (
	// RoleCompose is the button/trigger that opens a compose window
	RoleCompose FieldRole = "compose"

	// RoleRecipient is the "To" address input
	RoleRecipient FieldRole = "recipient"

	// RoleSubject is the subject line input
	RoleSubject FieldRole = "subject"

	// RoleBody is the message body editor
	RoleBody FieldRole = "body"

	// RoleSend is the send button
	RoleSend FieldRole = "send"
)

// Roles lists all field roles in compose order.
var Roles = []FieldRole{RoleCompose, RoleRecipient, RoleSubject, RoleBody, RoleSend}

// Valid reports whether r is one of the known field roles.
func (r FieldRole) Valid() bool {
	switch r {
	case RoleCompose, RoleRecipient, RoleSubject, RoleBody, RoleSend:
		return true
	}
	return false
}

// ServiceID identifies the target web application. Unknown services fall
// through to the generic/semantic resolution path only.
type ServiceID string

const (
	ServiceGmail   ServiceID = "gmail"
	ServiceOutlook ServiceID = "outlook"
	ServiceGeneric ServiceID = "generic"
)

// ElementDescriptor is a snapshot of one page element's observable
// attributes at scan time. It is produced fresh per scan, never cached
// across calls, and immutable once captured. The JSON tags match the
// in-page snapshot probe used by the heuristic tier.
type ElementDescriptor struct {
	Tag         string `json:"tag"`
	ID          string `json:"id"`
	Classes     string `json:"classes"`
	AriaLabel   string `json:"ariaLabel"`
	Placeholder string `json:"placeholder"`
	Text        string `json:"text"`
	Role        string `json:"role"`
	Type        string `json:"type"`
}

// Source tags which strategy tier produced a candidate.
type Source string

const (
	SourceServiceSpecific Source = "service-specific"
	SourceSemantic        Source = "semantic"
	SourceHeuristic       Source = "heuristic"
	SourceVisualText      Source = "visual-text"
)

// Candidate is a locator plus provenance and, for the heuristic tier, a
// confidence score. Scores are meaningful only within the strategy that
// produced them; they are never compared across tiers. Candidates are
// ephemeral and discarded after the waterfall step that used them.
type Candidate struct {
	Descriptor ElementDescriptor
	Selector   string
	Score      int
	Source     Source
}

// ResolutionKind discriminates the possible outcomes of a resolution.
type ResolutionKind int

const (
	// ResolutionFound means a strategy located a live, visible match.
	ResolutionFound ResolutionKind = iota

	// ResolutionNotFound means all strategy tiers were exhausted. This is
	// a normal, reportable outcome, not an error.
	ResolutionNotFound

	// ResolutionAuthRequired means an authentication wall blocks the page.
	ResolutionAuthRequired
)

// Resolution is the only value the waterfall returns. It owns no handle
// to the underlying element; the caller must re-acquire the element via
// the selector immediately before interaction, because the DOM may have
// changed between resolution and use.
type Resolution struct {
	Kind     ResolutionKind
	Selector string
	Source   Source
}

// Found constructs a successful resolution.
func Found(selector string, source Source) Resolution {
	return Resolution{Kind: ResolutionFound, Selector: selector, Source: source}
}

// NotFound constructs the exhausted-strategies resolution.
func NotFound() Resolution {
	return Resolution{Kind: ResolutionNotFound}
}

// AuthRequired constructs the auth-blocked resolution.
func AuthRequired() Resolution {
	return Resolution{Kind: ResolutionAuthRequired}
}

// Err maps the resolution onto the package's sentinel errors: nil for a
// found field, ErrNotFound and ErrAuthRequired for the other outcomes.
// Useful for callers that want errors.Is flow instead of switching on
// Kind.
func (r Resolution) Err() error {
	switch r.Kind {
	case ResolutionNotFound:
		return ErrNotFound
	case ResolutionAuthRequired:
		return ErrAuthRequired
	}
	return nil
}

// OutcomeKind discriminates interaction outcomes.
type OutcomeKind int

const (
	// OutcomeFilled means a fill was written and verified.
	OutcomeFilled OutcomeKind = iota

	// OutcomeClicked means a click completed.
	OutcomeClicked

	// OutcomeFailed means all retry attempts were exhausted.
	OutcomeFailed
)

// Outcome reports the result of a click or fill interaction.
type Outcome struct {
	Kind     OutcomeKind
	Attempts int
	LastErr  error
}

// OK reports whether the interaction succeeded.
func (o Outcome) OK() bool {
	return o.Kind != OutcomeFailed
}

// Err returns nil for successful outcomes, otherwise an error wrapping
// ErrInteractionFailed and the last per-attempt failure.
func (o Outcome) Err() error {
	if o.Kind != OutcomeFailed {
		return nil
	}
	if o.LastErr != nil {
		return fmt.Errorf("%w: %v", ErrInteractionFailed, o.LastErr)
	}
	return ErrInteractionFailed
}
