package temporal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cr625/proethica-temporal/internal/models"
)

// phraseDetector emits one boundary per event whose text contains any of its
// trigger phrases. Detectors are plain data so a future classifier can
// replace the phrase lists without touching relation calculation or phase
// segmentation.
type phraseDetector struct {
	boundaryType models.BoundaryType
	label        string
	phrases      []string
	significance float64
}

func (d phraseDetector) matches(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range d.phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

const (
	decisionBaseSignificance = 0.5
	decisionKindBonus        = 0.3
	keywordBonus             = 0.1
	keywordBonusCap          = 0.4
	stakeholderBonus         = 0.05
	stakeholderBonusCap      = 0.2
)

// ExtractBoundaries runs every sub-detector over the events and returns the
// merged result sorted ascending by timestamp, stable on ties. The narrative
// content is accepted alongside the events for narrative-level detectors; the
// current detectors are all event-anchored, so an empty narrative degrades
// nothing and an absent one never fails the call.
func (e *Engine) ExtractBoundaries(events []models.Event, content string) []models.TemporalBoundary {
	var boundaries []models.TemporalBoundary

	for _, ev := range events {
		if ev.Kind != models.KindDecision {
			continue
		}
		iv, _ := e.ToInterval(ev)
		boundaries = append(boundaries, models.TemporalBoundary{
			ID:             boundaryID(models.BoundaryDecisionPoint, ev.ID),
			Timestamp:      iv.Start,
			Type:           models.BoundaryDecisionPoint,
			Description:    "Decision point: " + snippet(ev.Text),
			TriggerEventID: ev.ID,
			AffectedAgents: ev.Stakeholders,
			StateChanges:   []string{"decision_made"},
			Significance:   e.decisionSignificance(ev),
		})
	}

	for _, detector := range e.detectors {
		for _, ev := range events {
			if ev.Text == "" || !detector.matches(ev.Text) {
				continue
			}
			iv, _ := e.ToInterval(ev)
			boundaries = append(boundaries, models.TemporalBoundary{
				ID:             boundaryID(detector.boundaryType, ev.ID),
				Timestamp:      iv.Start,
				Type:           detector.boundaryType,
				Description:    detector.label + ": " + snippet(ev.Text),
				TriggerEventID: ev.ID,
				AffectedAgents: ev.Stakeholders,
				StateChanges:   []string{string(detector.boundaryType)},
				Significance:   clamp01(detector.significance),
			})
		}
	}

	sort.SliceStable(boundaries, func(i, j int) bool {
		return boundaries[i].Timestamp.Before(boundaries[j].Timestamp)
	})
	return boundaries
}

// decisionSignificance scores a decision event: a fixed base plus bonuses
// for the decision kind, matched ethics vocabulary, and breadth of
// stakeholder impact. Clamped to [0,1].
func (e *Engine) decisionSignificance(ev models.Event) float64 {
	score := decisionBaseSignificance + decisionKindBonus

	lower := strings.ToLower(ev.Text)
	var fromKeywords float64
	for _, kw := range e.ethicsKeywords {
		if strings.Contains(lower, kw) {
			fromKeywords += keywordBonus
		}
	}
	if fromKeywords > keywordBonusCap {
		fromKeywords = keywordBonusCap
	}
	score += fromKeywords

	if n := len(ev.Stakeholders); n > 1 {
		fromStakeholders := float64(n-1) * stakeholderBonus
		if fromStakeholders > stakeholderBonusCap {
			fromStakeholders = stakeholderBonusCap
		}
		score += fromStakeholders
	}

	return clamp01(score)
}

func boundaryID(t models.BoundaryType, eventID string) string {
	return fmt.Sprintf("%s_%s", t, eventID)
}

func snippet(text string) string {
	if len(text) <= 80 {
		return text
	}
	return text[:80] + "..."
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
