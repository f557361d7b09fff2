package resolve

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mailwright/mailwright/pkg/logging"
)

const (
	// heuristicProbeMs bounds the probe for each synthesized selector.
	heuristicProbeMs = 500

	// maxCandidates is how many top-scored descriptors are retained.
	maxCandidates = 3
)

// snapshotScript captures every interactive element's observable
// attributes in a single page round trip. One batch call instead of one
// probe per element keeps the tier's latency bounded on large pages.
const snapshotScript = `() => {
	const info = (el) => ({
		tag: el.tagName.toLowerCase(),
		id: el.id,
		classes: typeof el.className === 'string' ? el.className : '',
		ariaLabel: el.getAttribute('aria-label') || '',
		placeholder: el.getAttribute('placeholder') || '',
		text: (el.textContent || '').substring(0, 50),
		role: el.getAttribute('role') || '',
		type: el.getAttribute('type') || ''
	});
	return Array.from(document.querySelectorAll('input, textarea, div[contenteditable], button, div[role="button"]')).map(info);
}`

// roleKeywords is the scoring vocabulary. Each keyword found as a
// case-insensitive substring of an element's combined text attributes is
// worth one point. The table is the algorithm's specification, not a
// placeholder for model inference.
var roleKeywords = map[FieldRole][]string{
	RoleCompose:   {"compose", "new", "write", "create"},
	RoleRecipient: {"to", "recipient", "send to", "email to"},
	RoleSubject:   {"subject", "title", "topic"},
	RoleBody:      {"body", "message", "content", "text", "compose"},
	RoleSend:      {"send", "submit", "deliver"},
}

// structuralBonus is added when the element's tag or role structurally
// matches what the field role expects.
const structuralBonus = 2

// HeuristicScorer ranks a DOM snapshot by keyword score when structural
// locators have failed.
type HeuristicScorer struct{}

// NewHeuristicScorer creates the heuristic tier.
func NewHeuristicScorer() *HeuristicScorer { return &HeuristicScorer{} }

// Name implements Strategy.
func (h *HeuristicScorer) Name() string { return "heuristic" }

// Source implements Strategy.
func (h *HeuristicScorer) Source() Source { return SourceHeuristic }

// ScoreDescriptor computes the keyword score of one descriptor for a
// role. Pure and deterministic: the same descriptor and role always
// yield the same score.
func ScoreDescriptor(d ElementDescriptor, role FieldRole) int {
	score := 0
	combined := strings.ToLower(strings.Join([]string{
		d.AriaLabel, d.Placeholder, d.Text, d.ID, d.Classes,
	}, " "))

	for _, keyword := range roleKeywords[role] {
		if strings.Contains(combined, keyword) {
			score++
		}
	}

	switch role {
	case RoleRecipient, RoleSubject:
		if d.Tag == "input" {
			score += structuralBonus
		}
	case RoleBody:
		if d.Tag == "textarea" || d.Tag == "div" {
			score += structuralBonus
		}
	case RoleCompose, RoleSend:
		if d.Role == "button" {
			score += structuralBonus
		}
	}

	return score
}

// RankCandidates scores a descriptor batch for a role, discards zero
// scores, and returns the top candidates sorted by score descending.
// Ties preserve original scan order, so repeated calls over the same
// batch produce identical rankings.
func RankCandidates(batch []ElementDescriptor, role FieldRole) []Candidate {
	var candidates []Candidate
	for _, d := range batch {
		score := ScoreDescriptor(d, role)
		if score == 0 {
			continue
		}
		candidates = append(candidates, Candidate{
			Descriptor: d,
			Score:      score,
			Source:     SourceHeuristic,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates
}

// SynthesizeSelectors derives locators from a descriptor's most specific
// available attributes, in fixed preference order: identifier, ARIA
// label, placeholder, then tag/role pair.
func SynthesizeSelectors(d ElementDescriptor) []string {
	var selectors []string
	if d.ID != "" {
		selectors = append(selectors, "#"+d.ID)
	}
	if d.AriaLabel != "" {
		selectors = append(selectors, fmt.Sprintf(`[aria-label=%q]`, d.AriaLabel))
	}
	if d.Placeholder != "" {
		selectors = append(selectors, fmt.Sprintf(`[placeholder=%q]`, d.Placeholder))
	}
	if d.Role != "" {
		selectors = append(selectors, fmt.Sprintf(`%s[role=%q]`, d.Tag, d.Role))
	}
	return selectors
}

// Resolve captures a batch snapshot, ranks it, and probes the top
// candidates' synthesized locators. The first locator that resolves to a
// live, visible element wins.
func (h *HeuristicScorer) Resolve(surface Surface, _ ServiceID, role FieldRole, trail *logging.Trail) (Candidate, bool, error) {
	trail.Step("Scoring DOM snapshot for %s", role)

	raw, err := surface.Evaluate(snapshotScript)
	if err != nil {
		if IsSurfaceFault(err) {
			return Candidate{}, false, err
		}
		trail.Step("DOM snapshot failed for %s: %v", role, err)
		return Candidate{}, false, nil
	}

	batch, err := decodeSnapshot(raw)
	if err != nil {
		trail.Step("DOM snapshot unreadable for %s: %v", role, err)
		return Candidate{}, false, nil
	}

	candidates := RankCandidates(batch, role)
	if len(candidates) == 0 {
		trail.Step("No scoring candidates for %s", role)
		return Candidate{}, false, nil
	}

	for _, candidate := range candidates {
		for _, selector := range SynthesizeSelectors(candidate.Descriptor) {
			_, ok, werr := waitVisible(surface, selector, heuristicProbeMs)
			if werr != nil {
				return Candidate{}, false, werr
			}
			if ok {
				trail.Step("Found %s by heuristic score %d: %s", role, candidate.Score, selector)
				candidate.Selector = selector
				return candidate, true, nil
			}
		}
	}

	trail.Step("Heuristic candidates exhausted for %s", role)
	return Candidate{}, false, nil
}

// decodeSnapshot converts the loosely typed Evaluate result into typed
// descriptors via a JSON round trip.
func decodeSnapshot(raw interface{}) ([]ElementDescriptor, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	var batch []ElementDescriptor
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return batch, nil
}
