package temporal

import "github.com/cr625/proethica-temporal/internal/models"

// classifications maps event kinds to their temporal character.
var classifications = map[models.EventKind]string{
	models.KindDecision: "instant",
	models.KindAction:   "interval",
	models.KindEvent:    "process",
}

const defaultClassification = "temporal region"

// EnrichEvents folds a finished profile back onto the events it was derived
// from: each enriched record carries the boundaries this event triggered,
// the relations it participates in, its phase, and a temporal
// classification. The input slice is never mutated.
func EnrichEvents(events []models.Event, profile *models.ProcessProfile) []models.EnrichedEvent {
	enriched := make([]models.EnrichedEvent, 0, len(events))
	for _, ev := range events {
		record := models.EnrichedEvent{
			Event:          ev,
			Classification: classify(ev.Kind),
		}

		for _, b := range profile.Boundaries {
			if b.TriggerEventID == ev.ID {
				record.Boundaries = append(record.Boundaries, b)
			}
		}
		for _, r := range profile.Relations {
			if r.SourceID == ev.ID || r.TargetID == ev.ID {
				record.Relations = append(record.Relations, r)
			}
		}
		for i := range profile.Phases {
			if phaseContains(&profile.Phases[i], ev.ID) {
				phase := profile.Phases[i]
				record.Phase = &phase
				break
			}
		}

		enriched = append(enriched, record)
	}
	return enriched
}

func classify(kind models.EventKind) string {
	if c, ok := classifications[kind]; ok {
		return c
	}
	return defaultClassification
}

func phaseContains(phase *models.Phase, id string) bool {
	for _, item := range phase.ItemIDs {
		if item == id {
			return true
		}
	}
	return false
}
