package resolve

import (
	"github.com/mailwright/mailwright/pkg/logging"
)

// profileWaitMs bounds the wait for each profile locator attempt.
const profileWaitMs = 2000

// builtinProfiles holds the curated per-service selector catalogs.
// Ordering within each list matters: earlier selectors are more specific
// and are attempted first.
var builtinProfiles = map[ServiceID]map[FieldRole][]string{
	ServiceGmail: {
		RoleCompose: {
			`div[role="button"][gh="cm"]`,
			`button[aria-label*="Compose"]`,
			`div:has-text("Compose")`,
			`.T-I.T-I-KE.L3`,
		},
		RoleRecipient: {
			`input[aria-label*="To"]`,
			`textarea[name="to"]`,
			`input[name="to"]`,
			`div[aria-label*="To"] input`,
		},
		RoleSubject: {
			`input[aria-label*="Subject"]`,
			`input[name="subjectbox"]`,
			`input[placeholder*="Subject"]`,
		},
		RoleBody: {
			`div[aria-label*="Message body"]`,
			`div[role="textbox"]`,
			`textarea[aria-label*="Message body"]`,
			`div[contenteditable="true"]`,
		},
		RoleSend: {
			`div[role="button"][aria-label*="Send"]`,
			`button:has-text("Send")`,
			`div[data-tooltip*="Send"]`,
		},
	},
	ServiceOutlook: {
		RoleCompose: {
			`button[aria-label*="New message"]`,
			`button:has-text("New message")`,
			`div[aria-label*="Compose"]`,
		},
		RoleRecipient: {
			`input[aria-label*="To"]`,
			`div[aria-label*="To"] input`,
			`input[placeholder*="Enter names"]`,
		},
		RoleSubject: {
			`input[aria-label*="Add a subject"]`,
			`input[placeholder*="Add a subject"]`,
		},
		RoleBody: {
			`div[aria-label*="Message body"]`,
			`div[role="textbox"]`,
			`div[contenteditable="true"]`,
		},
		RoleSend: {
			`button[aria-label*="Send"]`,
			`button:has-text("Send")`,
		},
	},
}

// ProfileRegistry maps (service, role) pairs to ordered locator lists.
// The table is fixed at construction; nothing mutates it at runtime.
type ProfileRegistry struct {
	profiles map[ServiceID]map[FieldRole][]string
}

// NewProfileRegistry builds a registry from the built-in catalogs, with
// extra profiles (typically config-loaded) appended after the built-in
// locators for the same (service, role) pair.
func NewProfileRegistry(extra map[ServiceID]map[FieldRole][]string) *ProfileRegistry {
	profiles := make(map[ServiceID]map[FieldRole][]string, len(builtinProfiles))
	for service, roles := range builtinProfiles {
		profiles[service] = make(map[FieldRole][]string, len(roles))
		for role, locators := range roles {
			profiles[service][role] = append([]string(nil), locators...)
		}
	}
	for service, roles := range extra {
		if profiles[service] == nil {
			profiles[service] = make(map[FieldRole][]string, len(roles))
		}
		for role, locators := range roles {
			profiles[service][role] = append(profiles[service][role], locators...)
		}
	}
	return &ProfileRegistry{profiles: profiles}
}

// Locators returns the ordered locator list for a (service, role) pair.
// Unknown services yield an empty list, so resolution falls through to
// the generic tiers immediately.
func (r *ProfileRegistry) Locators(service ServiceID, role FieldRole) []string {
	roles, ok := r.profiles[service]
	if !ok {
		return nil
	}
	return roles[role]
}

// Name implements Strategy.
func (r *ProfileRegistry) Name() string { return "service profile" }

// Source implements Strategy.
func (r *ProfileRegistry) Source() Source { return SourceServiceSpecific }

// Resolve attempts each curated locator in sequence and stops at the
// first one that is present and visible. Remaining locators are not
// scanned once a hit is found.
func (r *ProfileRegistry) Resolve(surface Surface, service ServiceID, role FieldRole, trail *logging.Trail) (Candidate, bool, error) {
	locators := r.Locators(service, role)
	if len(locators) == 0 {
		trail.Step("No service profile for %s/%s", service, role)
		return Candidate{}, false, nil
	}

	for _, locator := range locators {
		_, ok, err := waitVisible(surface, locator, profileWaitMs)
		if err != nil {
			return Candidate{}, false, err
		}
		if ok {
			trail.Step("Found %s with service-specific selector: %s", role, locator)
			return Candidate{Selector: locator, Source: SourceServiceSpecific}, true, nil
		}
	}

	trail.Step("Service profile exhausted for %s/%s", service, role)
	return Candidate{}, false, nil
}
