package resolve

import (
	"fmt"

	"github.com/mailwright/mailwright/pkg/logging"
)

// State tracks where a resolution session is in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateCheckingAuth
	StateBlocked
	StateSearching
	StateResolved
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCheckingAuth:
		return "checking-auth"
	case StateBlocked:
		return "blocked"
	case StateSearching:
		return "searching"
	case StateResolved:
		return "resolved"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Strategy is one resolution tier. Implementations report a miss as
// (Candidate{}, false, nil); a non-nil error is a session-fatal surface
// fault exclusively.
type Strategy interface {
	Name() string
	Source() Source
	Resolve(surface Surface, service ServiceID, role FieldRole, trail *logging.Trail) (Candidate, bool, error)
}

// WaterfallOptions configures a resolution session.
type WaterfallOptions struct {
	// Profiles overrides the built-in service profile registry.
	Profiles *ProfileRegistry

	// Gate overrides the default authentication gate.
	Gate *AuthGate

	// Trail receives one line per decision point. When nil, a detached
	// trail is created.
	Trail *logging.Trail

	// Strategies overrides the full tier list. Intended for tests; when
	// nil, the standard four tiers run in fixed order.
	Strategies []Strategy
}

// Waterfall orchestrates the strategy tiers in fixed order, short-
// circuiting on the first live, visible match. One Waterfall owns one
// resolution session over one surface: the authentication gate fires
// before the first resolution, and a blocked session stays blocked. No
// candidate state survives a Resolve call, and nothing is shared between
// sessions.
type Waterfall struct {
	surface    Surface
	service    ServiceID
	gate       *AuthGate
	strategies []Strategy
	trail      *logging.Trail

	state       State
	authChecked bool
}

// NewWaterfall creates a resolution session for one surface and service.
func NewWaterfall(surface Surface, service ServiceID, opts WaterfallOptions) *Waterfall {
	trail := opts.Trail
	if trail == nil {
		trail = logging.NewTrail(nil)
	}

	gate := opts.Gate
	if gate == nil {
		gate = NewAuthGate()
	}

	strategies := opts.Strategies
	if strategies == nil {
		profiles := opts.Profiles
		if profiles == nil {
			profiles = NewProfileRegistry(nil)
		}
		strategies = []Strategy{
			profiles,
			NewSemanticLocator(),
			NewHeuristicScorer(),
			NewVisualTextLocator(),
		}
	}

	return &Waterfall{
		surface:    surface,
		service:    service,
		gate:       gate,
		strategies: strategies,
		trail:      trail,
		state:      StateIdle,
	}
}

// State returns the session's current lifecycle state.
func (w *Waterfall) State() State { return w.state }

// Trail returns the session's step trail.
func (w *Waterfall) Trail() *logging.Trail { return w.trail }

// Resolve locates the given field role. The authentication gate runs
// before the first search; if it reports a login wall, the session is
// blocked and every subsequent Resolve returns AuthRequired without
// touching the page. Otherwise the tiers run in fixed order and the
// first visible hit wins; an earlier tier's first hit always beats a
// later tier's higher score.
//
// The returned error is non-nil only for session-fatal surface faults.
func (w *Waterfall) Resolve(role FieldRole) (Resolution, error) {
	if !role.Valid() {
		return NotFound(), fmt.Errorf("unknown field role %q", role)
	}

	if w.state == StateBlocked {
		w.trail.Step("Session blocked by authentication wall; skipping %s", role)
		return AuthRequired(), nil
	}

	if !w.authChecked {
		w.state = StateCheckingAuth
		blocked, err := w.gate.Check(w.surface, w.service, w.trail)
		if err != nil {
			return Resolution{}, err
		}
		w.authChecked = true
		if blocked {
			w.state = StateBlocked
			return AuthRequired(), nil
		}
	}

	w.state = StateSearching
	w.trail.Step("Looking for %s field on %s", role, w.service)

	for _, strategy := range w.strategies {
		candidate, ok, err := strategy.Resolve(w.surface, w.service, role, w.trail)
		if err != nil {
			return Resolution{}, err
		}
		if ok {
			w.state = StateResolved
			return Found(candidate.Selector, strategy.Source()), nil
		}
	}

	w.state = StateExhausted
	w.trail.Step("Could not find %s field after all strategies", role)
	return NotFound(), nil
}
