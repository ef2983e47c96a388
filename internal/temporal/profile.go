package temporal

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cr625/proethica-temporal/internal/models"
)

// criticalSignificance is the threshold above which a boundary joins the
// critical path.
const criticalSignificance = 0.7

// roleBuckets maps coarse role keywords in event text to succession
// buckets. A heuristic stand-in for coreference, not entity resolution.
var roleBuckets = []struct {
	keywords []string
	bucket   string
}{
	{[]string{"engineer"}, "primary_engineer"},
	{[]string{"supervisor", "manager"}, "supervisor"},
}

// timelineItem is one entry in the merged event/boundary stream.
type timelineItem struct {
	id        string
	timestamp time.Time
	boundary  *models.TemporalBoundary
}

// BuildProfile composes boundaries, filtered relations, phase segmentation,
// agent succession, and the critical path into one read-only profile.
func (e *Engine) BuildProfile(caseID string, events []models.Event, intervals []Interval, boundaries []models.TemporalBoundary, relations []models.TemporalRelation, agents []models.Agent) *models.ProcessProfile {
	startByEvent := make(map[string]time.Time, len(intervals))
	for _, iv := range intervals {
		startByEvent[iv.EventID] = iv.Start
	}

	stream := mergeTimeline(events, startByEvent, boundaries)

	profile := &models.ProcessProfile{
		ProcessID:    "process_" + caseID,
		CaseID:       caseID,
		Boundaries:   boundaries,
		Relations:    relations,
		Phases:       segmentPhases(stream),
		Succession:   e.buildSuccession(agents, events, startByEvent),
		CriticalPath: criticalPath(events, startByEvent, boundaries),
	}
	if profile.Boundaries == nil {
		profile.Boundaries = []models.TemporalBoundary{}
	}
	if profile.Relations == nil {
		profile.Relations = []models.TemporalRelation{}
	}
	return profile
}

// mergeTimeline interleaves events and boundaries into one time-ordered
// stream, stable on ties (events before the boundaries they trigger).
func mergeTimeline(events []models.Event, startByEvent map[string]time.Time, boundaries []models.TemporalBoundary) []timelineItem {
	stream := make([]timelineItem, 0, len(events)+len(boundaries))
	for _, ev := range events {
		stream = append(stream, timelineItem{id: ev.ID, timestamp: startByEvent[ev.ID]})
	}
	for i := range boundaries {
		b := &boundaries[i]
		stream = append(stream, timelineItem{id: b.ID, timestamp: b.Timestamp, boundary: b})
	}
	sort.SliceStable(stream, func(i, j int) bool {
		return stream[i].timestamp.Before(stream[j].timestamp)
	})
	return stream
}

// segmentPhases walks the merged stream once, closing the open phase at
// every role-transition or decision boundary that follows at least one
// member. Every item lands in exactly one phase.
func segmentPhases(stream []timelineItem) []models.Phase {
	phases := []models.Phase{}
	if len(stream) == 0 {
		return phases
	}

	open := models.Phase{Start: stream[0].timestamp}
	for _, item := range stream {
		if item.boundary != nil && splitsPhase(item.boundary.Type) && len(open.ItemIDs) > 0 {
			open.End = item.boundary.Timestamp
			phases = append(phases, open)
			open = models.Phase{Start: item.boundary.Timestamp}
		}
		open.ItemIDs = append(open.ItemIDs, item.id)
	}
	open.End = stream[len(stream)-1].timestamp
	phases = append(phases, open)

	for i := range phases {
		phases[i].ID = fmt.Sprintf("phase_%d", i+1)
		phases[i].Name = fmt.Sprintf("Phase %d", i+1)
	}
	return phases
}

func splitsPhase(t models.BoundaryType) bool {
	return t == models.BoundaryRoleTransition || t == models.BoundaryDecisionPoint
}

// criticalPath concatenates decision event ids (time order) with
// high-significance boundary ids (time order). A flat list of the most
// consequential items, not a graph-theoretic longest path.
func criticalPath(events []models.Event, startByEvent map[string]time.Time, boundaries []models.TemporalBoundary) []string {
	var decisions []models.Event
	for _, ev := range events {
		if ev.Kind == models.KindDecision {
			decisions = append(decisions, ev)
		}
	}
	sort.SliceStable(decisions, func(i, j int) bool {
		return startByEvent[decisions[i].ID].Before(startByEvent[decisions[j].ID])
	})

	path := []string{}
	for _, ev := range decisions {
		path = append(path, ev.ID)
	}
	for _, b := range boundaries {
		if b.Significance > criticalSignificance {
			path = append(path, b.ID)
		}
	}
	return path
}

// buildSuccession appends one record per role-keyword mention per agent.
// Knowledge-state inference on top of these buckets is an extension point
// left open deliberately.
func (e *Engine) buildSuccession(agents []models.Agent, events []models.Event, startByEvent map[string]time.Time) map[string][]models.SuccessionRecord {
	succession := map[string][]models.SuccessionRecord{}
	if len(agents) == 0 {
		return succession
	}

	ordered := make([]models.Event, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return startByEvent[ordered[i].ID].Before(startByEvent[ordered[j].ID])
	})

	for _, agent := range agents {
		// Transient per-agent snapshots. Once transition detection lands
		// these will refine the records below; today the keyword buckets
		// are the whole signal.
		_ = e.BuildAgentTimeline(agent, ordered)

		records := []models.SuccessionRecord{}
		for _, ev := range ordered {
			lower := strings.ToLower(ev.Text)
			for _, rb := range roleBuckets {
				for _, kw := range rb.keywords {
					if strings.Contains(lower, kw) {
						records = append(records, models.SuccessionRecord{
							Timestamp: startByEvent[ev.ID],
							Role:      rb.bucket,
							EventID:   ev.ID,
						})
						break
					}
				}
			}
		}
		succession[agentKey(agent)] = records
	}
	return succession
}

func agentKey(agent models.Agent) string {
	if agent.ID != "" {
		return agent.ID
	}
	return agent.Name
}
