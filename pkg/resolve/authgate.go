package resolve

import (
	"time"

	"github.com/mailwright/mailwright/pkg/logging"
)

const (
	// authIndicatorWaitMs bounds the wait for each auth indicator.
	authIndicatorWaitMs = 2000

	// authGraceMs is the fixed grace period after detecting a login wall,
	// before the blocked state is reported.
	authGraceMs = 1000
)

// authIndicators lists per-service markers of an authentication wall:
// credential inputs and sign-in prompts. Services without a curated list
// use the generic indicators.
var authIndicators = map[ServiceID][]string{
	ServiceGmail: {
		`input[type="email"]`,
		`input[type="password"]`,
		`div:has-text("Sign in")`,
		`div:has-text("Choose an account")`,
	},
	ServiceOutlook: {
		`input[type="email"]`,
		`input[type="password"]`,
		`div:has-text("Sign in")`,
		`button:has-text("Sign in")`,
	},
}

var genericAuthIndicators = []string{
	`input[type="email"]`,
	`input[type="password"]`,
	`div:has-text("Sign in")`,
}

// AuthGate detects login walls before field resolution is attempted. It
// never authenticates: graceful handling is limited to waiting a fixed
// grace period and re-reporting state. Credential injection is the
// caller's problem, escalated through the AuthRequired result.
type AuthGate struct {
	sleep func(time.Duration)
}

// NewAuthGate creates the gate.
func NewAuthGate() *AuthGate {
	return &AuthGate{sleep: time.Sleep}
}

// Check probes the page for authentication indicators. It returns true
// when any indicator is visible within the timeout budget, after waiting
// out the grace period. A non-nil error is a session-fatal surface fault.
func (g *AuthGate) Check(surface Surface, service ServiceID, trail *logging.Trail) (bool, error) {
	trail.Step("Checking authentication state for %s", service)

	indicators, ok := authIndicators[service]
	if !ok {
		indicators = genericAuthIndicators
	}

	for _, indicator := range indicators {
		_, visible, err := waitVisible(surface, indicator, authIndicatorWaitMs)
		if err != nil {
			return false, err
		}
		if visible {
			trail.Step("Authentication required: found %s", indicator)
			g.sleep(time.Duration(authGraceMs) * time.Millisecond)
			return true, nil
		}
	}

	trail.Step("Already authenticated or in main interface")
	return false, nil
}
