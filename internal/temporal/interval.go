package temporal

import (
	"fmt"
	"time"

	"github.com/cr625/proethica-temporal/internal/models"
)

// sequenceBase anchors timestamps synthesized from sequence numbers. Events
// at sequence N land at sequenceBase + N hours, which preserves a strict
// order for events that carry no real timestamp.
var sequenceBase = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// timestampLayouts are the explicit-timestamp formats accepted on input.
// Anything that parses in none of them falls through to the sequence or
// wall-clock fallback.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Interval is an event's resolved position on the case timeline. Start and
// End are equal for instantaneous events.
type Interval struct {
	EventID string
	Start   time.Time
	End     time.Time
}

// IsPoint reports whether the interval is degenerate (zero duration).
func (iv Interval) IsPoint() bool {
	return iv.Start.Equal(iv.End)
}

// ToInterval resolves a single event to an interval. Timestamp resolution
// order: explicit timestamp, sequence-derived synthetic, wall clock. The
// wall-clock fallback is reported through the returned warning; the other
// two resolve silently.
func (e *Engine) ToInterval(ev models.Event) (Interval, string) {
	start, warning := e.resolveStart(ev)

	end := start
	if ev.Kind != models.KindDecision {
		minutes := e.defaultDurationMinutes
		if ev.DurationMinutes != nil && *ev.DurationMinutes > 0 {
			minutes = *ev.DurationMinutes
		}
		end = start.Add(time.Duration(minutes) * time.Minute)
	}

	return Interval{EventID: ev.ID, Start: start, End: end}, warning
}

// ToIntervals resolves every event, collecting data-quality warnings.
func (e *Engine) ToIntervals(events []models.Event) ([]Interval, []string) {
	intervals := make([]Interval, 0, len(events))
	var warnings []string
	for _, ev := range events {
		iv, warning := e.ToInterval(ev)
		intervals = append(intervals, iv)
		if warning != "" {
			warnings = append(warnings, warning)
		}
	}
	return intervals, warnings
}

func (e *Engine) resolveStart(ev models.Event) (time.Time, string) {
	if ev.Timestamp != "" {
		if ts, ok := parseTimestamp(ev.Timestamp); ok {
			return ts, ""
		}
	}
	if ev.SequenceNumber != nil && *ev.SequenceNumber >= 0 {
		return sequenceBase.Add(time.Duration(*ev.SequenceNumber) * time.Hour), ""
	}
	return e.now(), fmt.Sprintf("event %s has no usable timestamp or sequence number; used wall clock", ev.ID)
}

func parseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
