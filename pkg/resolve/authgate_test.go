package resolve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailwright/mailwright/pkg/logging"
)

func TestAuthGateDetectsCredentialInput(t *testing.T) {
	surface := newFakeSurface()
	surface.elements[`input[type="password"]`] = newFakeElement("input")

	var graceWaits []time.Duration
	gate := NewAuthGate()
	gate.sleep = func(d time.Duration) { graceWaits = append(graceWaits, d) }

	trail := logging.NewTrail(nil)
	blocked, err := gate.Check(surface, ServiceGmail, trail)

	require.NoError(t, err)
	assert.True(t, blocked)
	assert.Equal(t, []time.Duration{time.Second}, graceWaits)
	assert.Contains(t, trail.Steps(), `Authentication required: found input[type="password"]`)
}

func TestAuthGatePassesWhenNoIndicatorVisible(t *testing.T) {
	surface := newFakeSurface()
	hidden := newFakeElement("input")
	hidden.visible = false
	surface.elements[`input[type="email"]`] = hidden

	gate := quietGate()
	trail := logging.NewTrail(nil)
	blocked, err := gate.Check(surface, ServiceGmail, trail)

	require.NoError(t, err)
	assert.False(t, blocked)
	assert.Len(t, surface.waitCalls, len(authIndicators[ServiceGmail]))
	assert.Contains(t, trail.Steps(), "Already authenticated or in main interface")
}

func TestAuthGateFallsBackToGenericIndicators(t *testing.T) {
	surface := newFakeSurface()

	gate := quietGate()
	blocked, err := gate.Check(surface, ServiceID("protonmail"), logging.NewTrail(nil))

	require.NoError(t, err)
	assert.False(t, blocked)
	assert.Len(t, surface.waitCalls, len(genericAuthIndicators))
}

func TestAuthGateSurfaceFaultEscalates(t *testing.T) {
	surface := newFakeSurface()
	surface.waitErr[`input[type="email"]`] = NewSurfaceError("waitForSelector", assert.AnError)

	gate := quietGate()
	blocked, err := gate.Check(surface, ServiceGmail, logging.NewTrail(nil))

	require.Error(t, err)
	assert.False(t, blocked)
	assert.True(t, IsSurfaceFault(err))
}
