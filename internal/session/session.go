package session

import (
	"fmt"
	"sync"

	"github.com/cr625/proethica-temporal/internal/models"
	"github.com/cr625/proethica-temporal/internal/storage"
)

// Session holds the active case context for an MCP session.
type Session struct {
	mu               sync.Mutex
	currentCaseID    string
	currentCaseTitle string
}

// New creates a new empty session with no active case.
func New() *Session {
	return &Session{}
}

// SwitchCase makes the named case the active one.
func (s *Session) SwitchCase(store *storage.Store, title string) (*models.Case, error) {
	c, err := store.GetCaseByTitle(title)
	if err != nil {
		return nil, err
	}
	if c.Status == "archived" {
		return nil, fmt.Errorf("case %q is archived — restore it first", title)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentCaseID = c.ID
	s.currentCaseTitle = c.Title
	return c, nil
}

// Current returns the active case, or ok=false if none is selected.
func (s *Session) Current() (id, title string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentCaseID == "" {
		return "", "", false
	}
	return s.currentCaseID, s.currentCaseTitle, true
}

// Clear resets the session to no active case.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentCaseID = ""
	s.currentCaseTitle = ""
}
