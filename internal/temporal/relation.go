package temporal

import (
	"fmt"

	"github.com/cr625/proethica-temporal/internal/models"
)

// relationConfidence is applied uniformly to every computed relation. The
// value is a placeholder for an evidence-weighted score; keep it a single
// constant so a future model replaces one line.
const relationConfidence = 0.8

// allenInverse maps each Allen relation to its converse. Read-only.
var allenInverse = map[models.AllenRelation]models.AllenRelation{
	models.RelBefore:       models.RelAfter,
	models.RelAfter:        models.RelBefore,
	models.RelMeets:        models.RelMetBy,
	models.RelMetBy:        models.RelMeets,
	models.RelOverlaps:     models.RelOverlappedBy,
	models.RelOverlappedBy: models.RelOverlaps,
	models.RelStarts:       models.RelStartedBy,
	models.RelStartedBy:    models.RelStarts,
	models.RelDuring:       models.RelContains,
	models.RelContains:     models.RelDuring,
	models.RelFinishes:     models.RelFinishedBy,
	models.RelFinishedBy:   models.RelFinishes,
	models.RelEquals:       models.RelEquals,
}

// profileRelations is the subset of relations retained on the process
// profile. The other seven are still computed (and tested) but add nothing
// to narrative sequencing or containment queries.
var profileRelations = map[models.AllenRelation]bool{
	models.RelBefore:   true,
	models.RelAfter:    true,
	models.RelMeets:    true,
	models.RelMetBy:    true,
	models.RelContains: true,
	models.RelDuring:   true,
}

// Inverse returns the converse of an Allen relation.
func Inverse(rel models.AllenRelation) models.AllenRelation {
	return allenInverse[rel]
}

// Classify computes the Allen relation from a to b. The second return is
// false when no branch applies, which only happens for malformed intervals
// (end before start); such pairs produce no relation rather than a guess.
func Classify(a, b Interval) (models.AllenRelation, bool) {
	switch {
	case a.IsPoint() && b.IsPoint():
		return classifyPointPoint(a, b)
	case a.IsPoint():
		return classifyPointInterval(a, b)
	case b.IsPoint():
		rel, ok := classifyPointInterval(b, a)
		if !ok {
			return "", false
		}
		return Inverse(rel), true
	default:
		return classifyIntervalInterval(a, b)
	}
}

func classifyPointPoint(a, b Interval) (models.AllenRelation, bool) {
	switch {
	case a.Start.Before(b.Start):
		return models.RelBefore, true
	case a.Start.After(b.Start):
		return models.RelAfter, true
	default:
		return models.RelEquals, true
	}
}

// classifyPointInterval positions point a against proper interval b.
func classifyPointInterval(a, b Interval) (models.AllenRelation, bool) {
	p := a.Start
	switch {
	case p.Before(b.Start):
		return models.RelBefore, true
	case p.Equal(b.Start):
		return models.RelStarts, true
	case p.Equal(b.End):
		return models.RelFinishes, true
	case p.After(b.End):
		return models.RelAfter, true
	case p.After(b.Start) && p.Before(b.End):
		return models.RelDuring, true
	}
	return "", false
}

// classifyIntervalInterval is the full 13-way decision tree over start/end
// comparisons of two proper intervals. Equality branches come before the
// strict ones so shared endpoints are never misread as overlap.
func classifyIntervalInterval(a, b Interval) (models.AllenRelation, bool) {
	switch {
	case a.End.Before(b.Start):
		return models.RelBefore, true
	case a.Start.After(b.End):
		return models.RelAfter, true
	case a.End.Equal(b.Start):
		return models.RelMeets, true
	case a.Start.Equal(b.End):
		return models.RelMetBy, true
	case a.Start.Equal(b.Start) && a.End.Equal(b.End):
		return models.RelEquals, true
	case a.Start.Equal(b.Start) && a.End.Before(b.End):
		return models.RelStarts, true
	case a.Start.Equal(b.Start) && a.End.After(b.End):
		return models.RelStartedBy, true
	case a.End.Equal(b.End) && a.Start.After(b.Start):
		return models.RelFinishes, true
	case a.End.Equal(b.End) && a.Start.Before(b.Start):
		return models.RelFinishedBy, true
	case a.Start.After(b.Start) && a.End.Before(b.End):
		return models.RelDuring, true
	case a.Start.Before(b.Start) && a.End.After(b.End):
		return models.RelContains, true
	case a.Start.Before(b.Start) && a.End.After(b.Start) && a.End.Before(b.End):
		return models.RelOverlaps, true
	case a.Start.After(b.Start) && a.Start.Before(b.End) && a.End.After(b.End):
		return models.RelOverlappedBy, true
	}
	return "", false
}

// ComputeRelations computes the Allen relation for every ordered pair of
// distinct intervals. O(n²) in event count, which is fine at case scale
// (tens of events).
func ComputeRelations(intervals []Interval) []models.TemporalRelation {
	var relations []models.TemporalRelation
	for i, a := range intervals {
		for j, b := range intervals {
			if i == j {
				continue
			}
			rel, ok := Classify(a, b)
			if !ok {
				continue
			}
			relations = append(relations, models.TemporalRelation{
				SourceID:   a.EventID,
				TargetID:   b.EventID,
				Relation:   rel,
				Confidence: relationConfidence,
				Evidence: []string{
					fmt.Sprintf("interval %s [%s, %s] vs %s [%s, %s]",
						a.EventID, a.Start.Format(evidenceLayout), a.End.Format(evidenceLayout),
						b.EventID, b.Start.Format(evidenceLayout), b.End.Format(evidenceLayout)),
				},
			})
		}
	}
	return relations
}

const evidenceLayout = "2006-01-02T15:04:05Z07:00"

// FilterForProfile keeps only the relations worth attaching to a profile.
func FilterForProfile(relations []models.TemporalRelation) []models.TemporalRelation {
	var kept []models.TemporalRelation
	for _, r := range relations {
		if profileRelations[r.Relation] {
			kept = append(kept, r)
		}
	}
	return kept
}
