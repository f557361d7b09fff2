package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailwright/mailwright/pkg/logging"
)

func TestScoreDescriptor(t *testing.T) {
	tests := []struct {
		name string
		desc ElementDescriptor
		role FieldRole
		want int
	}{
		{
			name: "compose button with keyword and role bonus",
			desc: ElementDescriptor{Tag: "button", Text: "New", Role: "button"},
			role: RoleCompose,
			want: 3, // keyword "new" + structural bonus
		},
		{
			name: "recipient input with keyword and tag bonus",
			desc: ElementDescriptor{Tag: "input", AriaLabel: "To recipients"},
			role: RoleRecipient,
			want: 4, // "to" + "recipient" + input bonus
		},
		{
			name: "unrelated element scores zero",
			desc: ElementDescriptor{Tag: "span", Text: "Inbox"},
			role: RoleSubject,
			want: 0,
		},
		{
			name: "body contenteditable div",
			desc: ElementDescriptor{Tag: "div", AriaLabel: "Message body"},
			role: RoleBody,
			want: 4, // "body" + "message" + div bonus
		},
		{
			name: "keyword without structural match",
			desc: ElementDescriptor{Tag: "a", Text: "Send feedback"},
			role: RoleSend,
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreDescriptor(tt.desc, tt.role))
		})
	}
}

func TestRankCandidatesDeterministic(t *testing.T) {
	batch := []ElementDescriptor{
		{Tag: "button", Text: "New", Role: "button"},
		{Tag: "div", Text: "Write something", Role: "button"},
		{Tag: "span", Text: "Inbox"},
		{Tag: "button", Text: "Create", Role: "button"},
	}

	first := RankCandidates(batch, RoleCompose)
	second := RankCandidates(batch, RoleCompose)
	assert.Equal(t, first, second, "ranking must be identical across repeated calls")

	require.Len(t, first, 3)
	for _, c := range first {
		assert.NotZero(t, c.Score, "zero-score descriptors must be discarded")
		assert.Equal(t, SourceHeuristic, c.Source)
	}
}

func TestRankCandidatesTiesPreserveScanOrder(t *testing.T) {
	// Both score 3 for compose; the earlier descriptor must stay first.
	batch := []ElementDescriptor{
		{Tag: "button", ID: "first", Text: "New", Role: "button"},
		{Tag: "button", ID: "second", Text: "Write", Role: "button"},
	}

	ranked := RankCandidates(batch, RoleCompose)
	require.Len(t, ranked, 2)
	assert.Equal(t, "first", ranked[0].Descriptor.ID)
	assert.Equal(t, "second", ranked[1].Descriptor.ID)
}

func TestRankCandidatesKeepsTopThree(t *testing.T) {
	batch := []ElementDescriptor{
		{Tag: "input", AriaLabel: "Subject"},
		{Tag: "input", Placeholder: "Add a subject"},
		{Tag: "input", ID: "subjectbox"},
		{Tag: "input", Classes: "subject-line"},
	}

	ranked := RankCandidates(batch, RoleSubject)
	assert.Len(t, ranked, 3)
}

func TestSynthesizeSelectorsPreferenceOrder(t *testing.T) {
	desc := ElementDescriptor{
		Tag:         "input",
		ID:          "to-field",
		AriaLabel:   "To",
		Placeholder: "Recipients",
		Role:        "combobox",
	}

	selectors := SynthesizeSelectors(desc)
	require.Len(t, selectors, 4)
	assert.Equal(t, "#to-field", selectors[0])
	assert.Equal(t, `[aria-label="To"]`, selectors[1])
	assert.Equal(t, `[placeholder="Recipients"]`, selectors[2])
	assert.Equal(t, `input[role="combobox"]`, selectors[3])
}

func TestSynthesizeSelectorsSkipsMissingAttributes(t *testing.T) {
	desc := ElementDescriptor{Tag: "textarea", Placeholder: "Type your message"}
	selectors := SynthesizeSelectors(desc)
	require.Len(t, selectors, 1)
	assert.Equal(t, `[placeholder="Type your message"]`, selectors[0])
}

func TestHeuristicResolveProbesTopCandidates(t *testing.T) {
	surface := newFakeSurface()
	surface.snapshot = []ElementDescriptor{
		{Tag: "button", Text: "New", Role: "button"},
		{Tag: "span", Text: "Inbox"},
	}
	surface.elements[`button[role="button"]`] = newFakeElement("button")

	trail := logging.NewTrail(nil)
	scorer := NewHeuristicScorer()

	candidate, ok, err := scorer.Resolve(surface, ServiceGeneric, RoleCompose, trail)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `button[role="button"]`, candidate.Selector)
	assert.Equal(t, 3, candidate.Score)
	assert.Equal(t, SourceHeuristic, candidate.Source)
	assert.Equal(t, 1, surface.evalCalls, "snapshot must be one batch call")
}

func TestHeuristicResolveFailsWhenNoSelectorResolves(t *testing.T) {
	surface := newFakeSurface()
	surface.snapshot = []ElementDescriptor{
		{Tag: "button", Text: "New", Role: "button"},
	}
	// No live element registered: the synthesized locators all miss.

	_, ok, err := NewHeuristicScorer().Resolve(surface, ServiceGeneric, RoleCompose, logging.NewTrail(nil))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHeuristicResolveSwallowsSnapshotError(t *testing.T) {
	surface := newFakeSurface()
	surface.evalErr = assert.AnError

	_, ok, err := NewHeuristicScorer().Resolve(surface, ServiceGeneric, RoleBody, logging.NewTrail(nil))
	require.NoError(t, err, "plain probe errors must not escalate")
	assert.False(t, ok)
}

func TestHeuristicResolveEscalatesSurfaceFault(t *testing.T) {
	surface := newFakeSurface()
	surface.evalErr = NewSurfaceError("evaluate", assert.AnError)

	_, _, err := NewHeuristicScorer().Resolve(surface, ServiceGeneric, RoleBody, logging.NewTrail(nil))
	require.Error(t, err)
	assert.True(t, IsSurfaceFault(err))
}
