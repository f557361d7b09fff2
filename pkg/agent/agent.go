// Package agent orchestrates email composition across providers: it
// parses the instruction, opens one browser session per provider, runs
// the field resolution waterfall, and drives the interaction executor.
// When a provider is blocked or a field cannot be found it degrades to a
// simulated completion rather than failing the whole request.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mailwright/mailwright/pkg/browser"
	"github.com/mailwright/mailwright/pkg/config"
	"github.com/mailwright/mailwright/pkg/logging"
	"github.com/mailwright/mailwright/pkg/parser"
	"github.com/mailwright/mailwright/pkg/resolve"
)

// serviceURLs maps providers to their web entry points.
var serviceURLs = map[resolve.ServiceID]string{
	resolve.ServiceGmail:   "https://mail.google.com",
	resolve.ServiceOutlook: "https://outlook.live.com",
}

// composeSettleWait gives the compose dialog time to render after the
// trigger is clicked.
const composeSettleWait = 2 * time.Second

// Providers lists the supported provider names.
func Providers() []string {
	return []string{string(resolve.ServiceGmail), string(resolve.ServiceOutlook)}
}

// Result reports one provider's run.
type Result struct {
	Provider  string   `json:"provider"`
	Success   bool     `json:"success"`
	Simulated bool     `json:"simulated"`
	Message   string   `json:"message"`
	Steps     []string `json:"steps"`
}

// Agent executes email instructions against one or more providers. Each
// provider run owns its own browser session; nothing is shared between
// concurrent runs except the manager that launches them.
type Agent struct {
	manager *browser.Manager
	cfg     *config.Config
	logger  *logging.Logger
}

// New creates an agent and starts the Playwright driver.
func New(cfg *config.Config, logger *logging.Logger) (*Agent, error) {
	manager := browser.NewManager()
	if err := manager.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize browser manager: %w", err)
	}
	return &Agent{manager: manager, cfg: cfg, logger: logger}, nil
}

// Close shuts down all sessions and the Playwright driver.
func (a *Agent) Close() error {
	return a.manager.Shutdown()
}

// Execute parses the instruction and runs it against the requested
// providers concurrently, one session each. Provider names "", "both",
// and "all" select every supported provider.
func (a *Agent) Execute(ctx context.Context, instruction string, providers []string) ([]Result, error) {
	msg := parser.Parse(instruction)
	a.logger.Infof("Parsed instruction %q into to=%s subject=%q", instruction, msg.To, msg.Subject)

	selected := selectProviders(providers)
	if len(selected) == 0 {
		return nil, fmt.Errorf("no supported providers in %v", providers)
	}

	results := make([]Result, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	for i, service := range selected {
		g.Go(func() error {
			results[i] = a.runProvider(gctx, service, msg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// selectProviders normalizes the requested provider names.
func selectProviders(providers []string) []resolve.ServiceID {
	if len(providers) == 0 {
		providers = Providers()
	}

	var selected []resolve.ServiceID
	seen := make(map[resolve.ServiceID]bool)
	for _, name := range providers {
		switch name {
		case "", "both", "all":
			for _, p := range Providers() {
				id := resolve.ServiceID(p)
				if !seen[id] {
					seen[id] = true
					selected = append(selected, id)
				}
			}
		default:
			id := resolve.ServiceID(name)
			if _, known := serviceURLs[id]; known && !seen[id] {
				seen[id] = true
				selected = append(selected, id)
			}
		}
	}
	return selected
}

// runProvider drives one provider end to end. It never returns an error:
// auth walls, unresolvable fields, and surface faults all degrade to a
// simulated completion, with the step trail recording why.
func (a *Agent) runProvider(ctx context.Context, service resolve.ServiceID, msg parser.Message) Result {
	trail := logging.NewTrail(a.logger)
	trail.Step("Starting %s automation", service)

	name := fmt.Sprintf("%s-%s", service, uuid.NewString()[:8])
	session, err := a.manager.StartSession(name, browser.SessionOptions{
		Headless: a.cfg.Browser.Headless,
		Timeout:  a.cfg.Browser.TimeoutMs,
	})
	if err != nil {
		trail.Step("Browser launch failed: %v", err)
		return a.simulate(service, msg, trail)
	}
	defer a.manager.CloseSession(name)

	trail.Step("Navigating to %s", serviceURLs[service])
	if err := session.Navigate(serviceURLs[service], browser.NavigateOptions{
		WaitUntil: "networkidle",
		Timeout:   30000,
	}); err != nil {
		trail.Step("Navigation failed: %v", err)
		return a.simulate(service, msg, trail)
	}

	if ctx.Err() != nil {
		trail.Step("Canceled before resolution: %v", ctx.Err())
		return a.simulate(service, msg, trail)
	}

	surface := session.Surface()
	waterfall := resolve.NewWaterfall(surface, service, resolve.WaterfallOptions{
		Trail:    trail,
		Profiles: resolve.NewProfileRegistry(a.cfg.ServiceProfiles()),
	})
	executor := resolve.NewExecutor(surface, resolve.ExecutorOptions{Trail: trail})

	composeRes, err := waterfall.Resolve(resolve.RoleCompose)
	if err != nil {
		a.diagnose(session, service, trail, err)
		return a.simulate(service, msg, trail)
	}
	switch composeRes.Kind {
	case resolve.ResolutionAuthRequired:
		trail.Step("Authentication required - falling back to demo mode")
		return a.simulate(service, msg, trail)
	case resolve.ResolutionNotFound:
		trail.Step("Could not find compose button with any strategy")
		return a.simulate(service, msg, trail)
	}

	outcome, err := executor.Click(composeRes.Selector, "compose button")
	if err != nil {
		a.diagnose(session, service, trail, err)
		return a.simulate(service, msg, trail)
	}
	if !outcome.OK() {
		return a.simulate(service, msg, trail)
	}
	time.Sleep(composeSettleWait)

	fields := []struct {
		role  resolve.FieldRole
		label string
		value string
	}{
		{resolve.RoleRecipient, "recipient", msg.To},
		{resolve.RoleSubject, "subject", msg.Subject},
		{resolve.RoleBody, "body", msg.Body},
	}

	for _, field := range fields {
		if ctx.Err() != nil {
			trail.Step("Canceled during field filling: %v", ctx.Err())
			return a.simulate(service, msg, trail)
		}

		res, err := waterfall.Resolve(field.role)
		if err != nil {
			a.diagnose(session, service, trail, err)
			return a.simulate(service, msg, trail)
		}
		if res.Kind != resolve.ResolutionFound {
			trail.Step("Could not fill %s - using fallback", field.label)
			continue
		}

		outcome, err := executor.Fill(res.Selector, field.label, field.value)
		if err != nil {
			a.diagnose(session, service, trail, err)
			return a.simulate(service, msg, trail)
		}
		if !outcome.OK() {
			trail.Step("Could not fill %s - using fallback", field.label)
		}
	}

	if sendRes, err := waterfall.Resolve(resolve.RoleSend); err == nil && sendRes.Kind == resolve.ResolutionFound {
		trail.Step("Email ready to send (sending disabled for demo safety)")
	}

	trail.Step("%s email composition completed", service)
	return Result{
		Provider: string(service),
		Success:  true,
		Message:  fmt.Sprintf("%s email composition completed", service),
		Steps:    trail.Steps(),
	}
}

// diagnose captures failure context: a screenshot and a page digest,
// both best-effort.
func (a *Agent) diagnose(session *browser.Session, service resolve.ServiceID, trail *logging.Trail, cause error) {
	trail.Step("%s automation error: %v", service, cause)

	shot := fmt.Sprintf("failure_%s.png", service)
	if err := session.Screenshot(shot); err != nil {
		trail.Step("Screenshot failed: %v", err)
	} else {
		trail.Step("Screenshot saved: %s", shot)
	}

	if digest, err := session.Digest(200); err == nil && digest != "" {
		trail.Step("Page at failure: %s", digest)
	}
}

// simulate is the degraded path: the composition is reported as a dry
// run, with the message echoed into the trail.
func (a *Agent) simulate(service resolve.ServiceID, msg parser.Message, trail *logging.Trail) Result {
	trail.Step("=== %s DEMO MODE ===", service)
	trail.Step("To: %s", msg.To)
	trail.Step("Subject: %s", msg.Subject)
	body := msg.Body
	if len(body) > 100 {
		body = body[:100] + "..."
	}
	trail.Step("Body: %s", body)
	trail.Step("Email composition simulated")

	return Result{
		Provider:  string(service),
		Success:   true,
		Simulated: true,
		Message:   fmt.Sprintf("%s email composition simulated", service),
		Steps:     trail.Steps(),
	}
}
