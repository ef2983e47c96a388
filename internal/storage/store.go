package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/cr625/proethica-temporal/internal/models"
)

// Store manages the case database: narratives, their extracted events and
// agents, and stored analysis profiles.
type Store struct {
	db      *sql.DB
	dataDir string
}

// Open opens (or creates) cases.db under dataDir and runs migrations.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "cases.db")
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open case db: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate case db: %w", err)
	}
	if _, err := db.Exec(Triggers); err != nil {
		db.Close()
		return nil, fmt.Errorf("create triggers: %w", err)
	}

	return &Store{db: db, dataDir: dataDir}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateCase inserts a new case with its narrative content.
func (s *Store) CreateCase(title, content string) (*models.Case, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO cases (id, title, content, status) VALUES (?, ?, ?, 'active')`,
		id, title, content,
	)
	if err != nil {
		return nil, fmt.Errorf("insert case: %w", err)
	}
	return s.GetCaseByTitle(title)
}

// GetCaseByTitle looks up a case by its unique title.
func (s *Store) GetCaseByTitle(title string) (*models.Case, error) {
	row := s.db.QueryRow(
		`SELECT id, title, content, status, created_at, updated_at FROM cases WHERE title = ?`,
		title,
	)
	return scanCase(row)
}

// GetCaseByID looks up a case by its UUID.
func (s *Store) GetCaseByID(id string) (*models.Case, error) {
	row := s.db.QueryRow(
		`SELECT id, title, content, status, created_at, updated_at FROM cases WHERE id = ?`,
		id,
	)
	return scanCase(row)
}

// ListCases returns cases filtered by status. Use "all" for no filter.
func (s *Store) ListCases(status string) ([]models.Case, error) {
	var rows *sql.Rows
	var err error

	if status == "all" {
		rows, err = s.db.Query(
			`SELECT id, title, content, status, created_at, updated_at FROM cases ORDER BY title`,
		)
	} else {
		rows, err = s.db.Query(
			`SELECT id, title, content, status, created_at, updated_at FROM cases WHERE status = ? ORDER BY title`,
			status,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	var cases []models.Case
	for rows.Next() {
		var c models.Case
		if err := rows.Scan(&c.ID, &c.Title, &c.Content, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// SetCaseStatus changes a case's status (active/archived).
func (s *Store) SetCaseStatus(title, status string) (*models.Case, error) {
	result, err := s.db.Exec(
		`UPDATE cases SET status = ?, updated_at = datetime('now') WHERE title = ?`,
		status, title,
	)
	if err != nil {
		return nil, fmt.Errorf("update case status: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return nil, fmt.Errorf("case %q not found", title)
	}
	return s.GetCaseByTitle(title)
}

// DeleteCase permanently removes a case and, via foreign keys, its events,
// agents, and analyses.
func (s *Store) DeleteCase(title string) error {
	result, err := s.db.Exec(`DELETE FROM cases WHERE title = ?`, title)
	if err != nil {
		return fmt.Errorf("delete case: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("case %q not found", title)
	}
	return nil
}

// SearchCases performs FTS5 full-text search over case titles and
// narratives.
func (s *Store) SearchCases(query string) ([]models.Case, error) {
	rows, err := s.db.Query(
		`SELECT c.id, c.title, c.content, c.status, c.created_at, c.updated_at
		 FROM cases c
		 JOIN cases_fts ON cases_fts.rowid = c.rowid
		 WHERE cases_fts MATCH ?
		 ORDER BY rank`,
		query,
	)
	if err != nil {
		return nil, fmt.Errorf("search cases: %w", err)
	}
	defer rows.Close()

	var cases []models.Case
	for rows.Next() {
		var c models.Case
		if err := rows.Scan(&c.ID, &c.Title, &c.Content, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// AddEvents appends events to a case, preserving input order. Events
// without an id get a generated one.
func (s *Store) AddEvents(caseID string, events []models.Event) ([]models.Event, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRow(
		`SELECT COALESCE(MAX(position), -1) + 1 FROM events WHERE case_id = ?`, caseID,
	).Scan(&next); err != nil {
		return nil, fmt.Errorf("next event position: %w", err)
	}

	added := make([]models.Event, 0, len(events))
	for i, ev := range events {
		if ev.ID == "" {
			ev.ID = uuid.New().String()
		}
		stakeholders, err := json.Marshal(ev.Stakeholders)
		if err != nil {
			return nil, fmt.Errorf("marshal stakeholders: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO events (id, case_id, position, kind, text, timestamp, sequence_number, duration_minutes, stakeholders)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ev.ID, caseID, next+i, string(ev.Kind), ev.Text,
			nullString(ev.Timestamp), nullInt(ev.SequenceNumber), nullInt(ev.DurationMinutes),
			string(stakeholders),
		)
		if err != nil {
			return nil, fmt.Errorf("insert event %q: %w", ev.ID, err)
		}
		added = append(added, ev)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return added, nil
}

// ListEvents returns a case's events in insertion order.
func (s *Store) ListEvents(caseID string) ([]models.Event, error) {
	rows, err := s.db.Query(
		`SELECT id, kind, text, timestamp, sequence_number, duration_minutes, stakeholders
		 FROM events WHERE case_id = ? ORDER BY position`,
		caseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var ev models.Event
		var kind string
		var timestamp sql.NullString
		var seq, duration sql.NullInt64
		var stakeholders string
		if err := rows.Scan(&ev.ID, &kind, &ev.Text, &timestamp, &seq, &duration, &stakeholders); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = models.EventKind(kind)
		if timestamp.Valid {
			ev.Timestamp = timestamp.String
		}
		if seq.Valid {
			n := int(seq.Int64)
			ev.SequenceNumber = &n
		}
		if duration.Valid {
			n := int(duration.Int64)
			ev.DurationMinutes = &n
		}
		if err := json.Unmarshal([]byte(stakeholders), &ev.Stakeholders); err != nil {
			return nil, fmt.Errorf("unmarshal stakeholders: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// AddAgents appends agents to a case. Agents without an id get a generated
// one.
func (s *Store) AddAgents(caseID string, agents []models.Agent) ([]models.Agent, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	added := make([]models.Agent, 0, len(agents))
	for _, a := range agents {
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		capabilities, err := json.Marshal(a.Capabilities)
		if err != nil {
			return nil, fmt.Errorf("marshal capabilities: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO agents (id, case_id, name, role, capabilities, authority_level) VALUES (?, ?, ?, ?, ?, ?)`,
			a.ID, caseID, a.Name, a.Role, string(capabilities), a.AuthorityLevel,
		)
		if err != nil {
			return nil, fmt.Errorf("insert agent %q: %w", a.Name, err)
		}
		added = append(added, a)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return added, nil
}

// ListAgents returns a case's agents in insertion order.
func (s *Store) ListAgents(caseID string) ([]models.Agent, error) {
	rows, err := s.db.Query(
		`SELECT id, name, role, capabilities, authority_level FROM agents WHERE case_id = ? ORDER BY rowid`,
		caseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var agents []models.Agent
	for rows.Next() {
		var a models.Agent
		var capabilities string
		if err := rows.Scan(&a.ID, &a.Name, &a.Role, &capabilities, &a.AuthorityLevel); err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		if err := json.Unmarshal([]byte(capabilities), &a.Capabilities); err != nil {
			return nil, fmt.Errorf("unmarshal capabilities: %w", err)
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// SaveAnalysis stores one analysis run: the serialized profile plus its
// data-quality warnings.
func (s *Store) SaveAnalysis(caseID string, profile *models.ProcessProfile, warnings []string) (string, error) {
	payload, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("marshal profile: %w", err)
	}
	if warnings == nil {
		warnings = []string{}
	}
	warnJSON, err := json.Marshal(warnings)
	if err != nil {
		return "", fmt.Errorf("marshal warnings: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.Exec(
		`INSERT INTO analyses (id, case_id, profile, warnings) VALUES (?, ?, ?, ?)`,
		id, caseID, string(payload), string(warnJSON),
	)
	if err != nil {
		return "", fmt.Errorf("insert analysis: %w", err)
	}
	return id, nil
}

// LatestAnalysis returns the most recent stored profile for a case, or nil
// if the case was never analyzed.
func (s *Store) LatestAnalysis(caseID string) (*models.ProcessProfile, []string, error) {
	var payload, warnJSON string
	err := s.db.QueryRow(
		`SELECT profile, warnings FROM analyses WHERE case_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		caseID,
	).Scan(&payload, &warnJSON)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load analysis: %w", err)
	}

	var profile models.ProcessProfile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		return nil, nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	var warnings []string
	if err := json.Unmarshal([]byte(warnJSON), &warnings); err != nil {
		return nil, nil, fmt.Errorf("unmarshal warnings: %w", err)
	}
	return &profile, warnings, nil
}

func scanCase(row *sql.Row) (*models.Case, error) {
	var c models.Case
	err := row.Scan(&c.ID, &c.Title, &c.Content, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("case not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scan case: %w", err)
	}
	return &c, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}
