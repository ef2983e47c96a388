package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cr625/proethica-temporal/internal/models"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	dir, err := os.MkdirTemp("", "proethica-temporal-test-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func intp(n int) *int { return &n }

func TestOpenCreatesDatabase(t *testing.T) {
	dir, err := os.MkdirTemp("", "proethica-temporal-test-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(dir, "cases.db")); err != nil {
		t.Errorf("Expected cases.db to exist: %v", err)
	}
}

func TestCreateAndGetCase(t *testing.T) {
	store := tempStore(t)

	c, err := store.CreateCase("bridge-case", "The engineer discovered a flaw.")
	if err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	if c.Title != "bridge-case" {
		t.Errorf("Title = %q, want %q", c.Title, "bridge-case")
	}
	if c.Status != "active" {
		t.Errorf("Status = %q, want active", c.Status)
	}
	if c.ID == "" {
		t.Error("ID should not be empty")
	}

	got, err := store.GetCaseByID(c.ID)
	if err != nil {
		t.Fatalf("GetCaseByID: %v", err)
	}
	if got.Title != c.Title {
		t.Errorf("GetByID Title = %q, want %q", got.Title, c.Title)
	}

	// Duplicate titles are rejected.
	if _, err := store.CreateCase("bridge-case", ""); err == nil {
		t.Error("expected error creating duplicate case title")
	}
}

func TestListArchiveRestoreDelete(t *testing.T) {
	store := tempStore(t)

	if _, err := store.CreateCase("case-a", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateCase("case-b", ""); err != nil {
		t.Fatal(err)
	}

	active, err := store.ListCases("active")
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 2 {
		t.Fatalf("active cases = %d, want 2", len(active))
	}

	if _, err := store.SetCaseStatus("case-a", "archived"); err != nil {
		t.Fatalf("archive: %v", err)
	}
	active, _ = store.ListCases("active")
	if len(active) != 1 {
		t.Errorf("active cases after archive = %d, want 1", len(active))
	}
	all, _ := store.ListCases("all")
	if len(all) != 2 {
		t.Errorf("all cases = %d, want 2", len(all))
	}

	if _, err := store.SetCaseStatus("case-a", "active"); err != nil {
		t.Fatalf("restore: %v", err)
	}
	active, _ = store.ListCases("active")
	if len(active) != 2 {
		t.Errorf("active cases after restore = %d, want 2", len(active))
	}

	if err := store.DeleteCase("case-b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, _ = store.ListCases("all")
	if len(all) != 1 {
		t.Errorf("cases after delete = %d, want 1", len(all))
	}

	if err := store.DeleteCase("no-such-case"); err == nil {
		t.Error("expected error deleting unknown case")
	}
}

func TestAddAndListEvents(t *testing.T) {
	store := tempStore(t)

	c, err := store.CreateCase("case-a", "")
	if err != nil {
		t.Fatal(err)
	}

	events := []models.Event{
		{ID: "e1", Kind: models.KindAction, Text: "Inspected the site", SequenceNumber: intp(1), Stakeholders: []string{"a1", "a2"}},
		{Kind: models.KindDecision, Text: "Halted the work", Timestamp: "2024-03-01T09:00:00Z", DurationMinutes: intp(45)},
	}
	added, err := store.AddEvents(c.ID, events)
	if err != nil {
		t.Fatalf("AddEvents: %v", err)
	}
	if added[1].ID == "" {
		t.Error("event without id should get a generated one")
	}

	got, err := store.ListEvents(c.ID)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].ID != "e1" || got[1].ID != added[1].ID {
		t.Errorf("insertion order not preserved: %q, %q", got[0].ID, got[1].ID)
	}
	if got[0].SequenceNumber == nil || *got[0].SequenceNumber != 1 {
		t.Errorf("e1 sequence number round-trip failed: %v", got[0].SequenceNumber)
	}
	if len(got[0].Stakeholders) != 2 {
		t.Errorf("e1 stakeholders = %v, want 2 entries", got[0].Stakeholders)
	}
	if got[1].Timestamp != "2024-03-01T09:00:00Z" {
		t.Errorf("timestamp round-trip = %q", got[1].Timestamp)
	}
	if got[1].DurationMinutes == nil || *got[1].DurationMinutes != 45 {
		t.Errorf("duration round-trip failed: %v", got[1].DurationMinutes)
	}

	// Appending keeps positions monotonic.
	if _, err := store.AddEvents(c.ID, []models.Event{{ID: "e3", Kind: models.KindEvent}}); err != nil {
		t.Fatal(err)
	}
	got, _ = store.ListEvents(c.ID)
	if len(got) != 3 || got[2].ID != "e3" {
		t.Errorf("appended event not last: %v", got)
	}
}

func TestAddAndListAgents(t *testing.T) {
	store := tempStore(t)

	c, err := store.CreateCase("case-a", "")
	if err != nil {
		t.Fatal(err)
	}

	agents := []models.Agent{
		{Name: "Rivera", Role: "engineer", Capabilities: []string{"design_review"}, AuthorityLevel: 0.4},
		{ID: "a2", Name: "Kim", Role: "supervisor"},
	}
	if _, err := store.AddAgents(c.ID, agents); err != nil {
		t.Fatalf("AddAgents: %v", err)
	}

	got, err := store.ListAgents(c.ID)
	if err != nil {
		t.Fatalf("ListAgents: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d agents, want 2", len(got))
	}
	if got[0].Name != "Rivera" || got[0].ID == "" {
		t.Errorf("first agent = %+v, want Rivera with generated id", got[0])
	}
	if got[0].AuthorityLevel != 0.4 {
		t.Errorf("authority round-trip = %v, want 0.4", got[0].AuthorityLevel)
	}
	if len(got[0].Capabilities) != 1 || got[0].Capabilities[0] != "design_review" {
		t.Errorf("capabilities round-trip = %v", got[0].Capabilities)
	}
	if got[1].ID != "a2" {
		t.Errorf("explicit agent id not preserved: %q", got[1].ID)
	}
}

func TestSaveAndLatestAnalysis(t *testing.T) {
	store := tempStore(t)

	c, err := store.CreateCase("case-a", "")
	if err != nil {
		t.Fatal(err)
	}

	// No analysis yet.
	profile, warnings, err := store.LatestAnalysis(c.ID)
	if err != nil {
		t.Fatalf("LatestAnalysis: %v", err)
	}
	if profile != nil {
		t.Errorf("profile = %+v, want nil before first analysis", profile)
	}

	first := &models.ProcessProfile{ProcessID: "process_" + c.ID, CaseID: c.ID, CriticalPath: []string{"d1"}}
	if _, err := store.SaveAnalysis(c.ID, first, []string{"warn-1"}); err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}
	second := &models.ProcessProfile{ProcessID: "process_" + c.ID, CaseID: c.ID, CriticalPath: []string{"d1", "d2"}}
	if _, err := store.SaveAnalysis(c.ID, second, nil); err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}

	profile, warnings, err = store.LatestAnalysis(c.ID)
	if err != nil {
		t.Fatalf("LatestAnalysis: %v", err)
	}
	if profile == nil {
		t.Fatal("profile is nil after save")
	}
	if len(profile.CriticalPath) != 2 {
		t.Errorf("latest analysis critical path = %v, want the second save", profile.CriticalPath)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want empty", warnings)
	}
}

func TestSearchCases(t *testing.T) {
	store := tempStore(t)

	if _, err := store.CreateCase("bridge-collapse", "An engineer discovered cracks in the girder."); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateCase("budget-dispute", "A disagreement over project funding."); err != nil {
		t.Fatal(err)
	}

	got, err := store.SearchCases("girder")
	if err != nil {
		t.Fatalf("SearchCases: %v", err)
	}
	if len(got) != 1 || got[0].Title != "bridge-collapse" {
		t.Errorf("search results = %+v, want bridge-collapse only", got)
	}

	got, err = store.SearchCases("zeppelin")
	if err != nil {
		t.Fatalf("SearchCases: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("search for absent term returned %d cases", len(got))
	}
}

func TestDeleteCascades(t *testing.T) {
	store := tempStore(t)

	c, err := store.CreateCase("case-a", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddEvents(c.ID, []models.Event{{ID: "e1", Kind: models.KindAction}}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveAnalysis(c.ID, &models.ProcessProfile{CaseID: c.ID}, nil); err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteCase("case-a"); err != nil {
		t.Fatalf("DeleteCase: %v", err)
	}

	events, err := store.ListEvents(c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("events survived case deletion: %v", events)
	}
	profile, _, err := store.LatestAnalysis(c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if profile != nil {
		t.Error("analysis survived case deletion")
	}
}
