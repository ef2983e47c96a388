package temporal

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/cr625/proethica-temporal/internal/models"
)

func analyzeFixture(t *testing.T) (*models.ProcessProfile, []models.Event) {
	t.Helper()
	e := newTestEngine()

	events := []models.Event{
		{ID: "e1", Kind: models.KindAction, Text: "The engineer inspected the site", SequenceNumber: intp(1)},
		{ID: "e2", Kind: models.KindEvent, Text: "The engineer learned the design was flawed", SequenceNumber: intp(2)},
		{ID: "d1", Kind: models.KindDecision, Text: "Decided to report the safety risk to the public", SequenceNumber: intp(3), Stakeholders: []string{"engineer", "public"}},
		{ID: "e3", Kind: models.KindAction, Text: "The supervisor reviewed the disclosure", SequenceNumber: intp(4)},
	}
	agents := []models.Agent{
		{ID: "a1", Name: "engineer", Role: "structural engineer", AuthorityLevel: 0.4},
	}

	profile, warnings := e.Analyze("case-1", events, "narrative text", agents)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	return profile, events
}

func TestProfileIdentifiers(t *testing.T) {
	profile, _ := analyzeFixture(t)

	if profile.ProcessID != "process_case-1" {
		t.Errorf("ProcessID = %q, want process_case-1", profile.ProcessID)
	}
	if profile.CaseID != "case-1" {
		t.Errorf("CaseID = %q, want case-1", profile.CaseID)
	}
}

func TestProfileRelationsFiltered(t *testing.T) {
	profile, _ := analyzeFixture(t)

	if len(profile.Relations) == 0 {
		t.Fatal("profile has no relations")
	}
	allowed := map[models.AllenRelation]bool{
		models.RelBefore: true, models.RelAfter: true,
		models.RelMeets: true, models.RelMetBy: true,
		models.RelContains: true, models.RelDuring: true,
	}
	for _, r := range profile.Relations {
		if !allowed[r.Relation] {
			t.Errorf("profile carries filtered-out relation %q (%s->%s)", r.Relation, r.SourceID, r.TargetID)
		}
	}
}

func TestPhasesPartitionTimeline(t *testing.T) {
	profile, events := analyzeFixture(t)

	if len(profile.Phases) < 2 {
		t.Fatalf("got %d phases, want at least 2 (decision boundary splits)", len(profile.Phases))
	}

	seen := map[string]int{}
	for _, phase := range profile.Phases {
		if len(phase.ItemIDs) == 0 {
			t.Errorf("phase %s is empty", phase.ID)
		}
		for _, id := range phase.ItemIDs {
			seen[id]++
		}
	}

	// Every event and boundary lands in exactly one phase.
	for _, ev := range events {
		if seen[ev.ID] != 1 {
			t.Errorf("event %s appears in %d phases, want 1", ev.ID, seen[ev.ID])
		}
	}
	for _, b := range profile.Boundaries {
		if seen[b.ID] != 1 {
			t.Errorf("boundary %s appears in %d phases, want 1", b.ID, seen[b.ID])
		}
	}

	total := 0
	for _, phase := range profile.Phases {
		total += len(phase.ItemIDs)
	}
	if want := len(events) + len(profile.Boundaries); total != want {
		t.Errorf("phases hold %d items, want %d", total, want)
	}
}

func TestCriticalPath(t *testing.T) {
	profile, _ := analyzeFixture(t)

	if len(profile.CriticalPath) == 0 {
		t.Fatal("critical path is empty")
	}
	// Decision events first, then boundaries with significance above 0.7.
	if profile.CriticalPath[0] != "d1" {
		t.Errorf("CriticalPath[0] = %q, want d1", profile.CriticalPath[0])
	}
	for _, id := range profile.CriticalPath[1:] {
		found := false
		for _, b := range profile.Boundaries {
			if b.ID == id {
				found = true
				if b.Significance <= 0.7 {
					t.Errorf("critical path boundary %s has significance %v, want > 0.7", id, b.Significance)
				}
			}
		}
		if !found {
			t.Errorf("critical path id %q is not a known boundary", id)
		}
	}
}

func TestAgentSuccessionBuckets(t *testing.T) {
	profile, _ := analyzeFixture(t)

	records, ok := profile.Succession["a1"]
	if !ok {
		t.Fatal("no succession entry for agent a1")
	}
	if len(records) == 0 {
		t.Fatal("agent a1 has no succession records")
	}

	var sawEngineer, sawSupervisor bool
	for _, r := range records {
		switch r.Role {
		case "primary_engineer":
			sawEngineer = true
		case "supervisor":
			sawSupervisor = true
		default:
			t.Errorf("unexpected succession bucket %q", r.Role)
		}
	}
	if !sawEngineer || !sawSupervisor {
		t.Errorf("succession buckets engineer=%v supervisor=%v, want both", sawEngineer, sawSupervisor)
	}

	for i := 1; i < len(records); i++ {
		if records[i].Timestamp.Before(records[i-1].Timestamp) {
			t.Errorf("succession records out of order at %d", i)
		}
	}
}

// Zero events and zero agents produce a well-typed empty profile.
func TestAnalyzeEmptyInput(t *testing.T) {
	e := newTestEngine()

	profile, warnings := e.Analyze("empty-case", nil, "", nil)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(profile.Boundaries) != 0 || profile.Boundaries == nil {
		t.Errorf("Boundaries = %v, want empty non-nil slice", profile.Boundaries)
	}
	if len(profile.Relations) != 0 || profile.Relations == nil {
		t.Errorf("Relations = %v, want empty non-nil slice", profile.Relations)
	}
	if len(profile.Phases) != 0 {
		t.Errorf("Phases = %v, want empty", profile.Phases)
	}
	if len(profile.Succession) != 0 {
		t.Errorf("Succession = %v, want empty", profile.Succession)
	}
	if len(profile.CriticalPath) != 0 {
		t.Errorf("CriticalPath = %v, want empty", profile.CriticalPath)
	}
}

// Two runs over identical input serialize to identical bytes.
func TestAnalyzeIdempotent(t *testing.T) {
	first, _ := analyzeFixture(t)
	second, _ := analyzeFixture(t)

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("repeated analysis produced different profiles:\n%s\n%s", a, b)
	}
}
