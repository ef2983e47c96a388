package models

import "time"

// EventKind classifies a case event. Decisions are instantaneous; actions
// and generic events occupy a span of time.
type EventKind string

const (
	KindDecision EventKind = "decision"
	KindAction   EventKind = "action"
	KindEvent    EventKind = "event"
)

// Event is one decision, action, or occurrence extracted from a case
// narrative. It is owned by the upstream extractor and read-only here.
type Event struct {
	ID              string    `json:"id"`
	Kind            EventKind `json:"kind"`
	Text            string    `json:"text"`
	Timestamp       string    `json:"timestamp,omitempty"`
	SequenceNumber  *int      `json:"sequence_number,omitempty"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	Stakeholders    []string  `json:"stakeholders,omitempty"`
}

// Agent describes a participant in the case.
type Agent struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Role           string   `json:"role,omitempty"`
	Capabilities   []string `json:"capabilities,omitempty"`
	AuthorityLevel float64  `json:"authority_level,omitempty"`
}

// BoundaryType tags the six kinds of temporal boundary the extractor emits.
type BoundaryType string

const (
	BoundaryDecisionPoint            BoundaryType = "decision_point"
	BoundaryKnowledgeAcquisition     BoundaryType = "knowledge_acquisition"
	BoundaryRoleTransition           BoundaryType = "role_transition"
	BoundaryDeadline                 BoundaryType = "deadline"
	BoundaryEscalation               BoundaryType = "escalation"
	BoundaryConsequenceManifestation BoundaryType = "consequence_manifestation"
)

// TemporalBoundary is a zero-duration, ethically or structurally significant
// point in the case timeline. Immutable once produced.
type TemporalBoundary struct {
	ID             string       `json:"id"`
	Timestamp      time.Time    `json:"timestamp"`
	Type           BoundaryType `json:"type"`
	Description    string       `json:"description"`
	TriggerEventID string       `json:"trigger_event_id,omitempty"`
	AffectedAgents []string     `json:"affected_agents,omitempty"`
	StateChanges   []string     `json:"state_changes,omitempty"`
	Significance   float64      `json:"significance"`
}

// AllenRelation is one of the thirteen relations of Allen's interval algebra.
type AllenRelation string

const (
	RelBefore       AllenRelation = "before"
	RelAfter        AllenRelation = "after"
	RelMeets        AllenRelation = "meets"
	RelMetBy        AllenRelation = "met_by"
	RelOverlaps     AllenRelation = "overlaps"
	RelOverlappedBy AllenRelation = "overlapped_by"
	RelStarts       AllenRelation = "starts"
	RelStartedBy    AllenRelation = "started_by"
	RelDuring       AllenRelation = "during"
	RelContains     AllenRelation = "contains"
	RelFinishes     AllenRelation = "finishes"
	RelFinishedBy   AllenRelation = "finished_by"
	RelEquals       AllenRelation = "equals"
)

// TemporalRelation records the Allen relation between an ordered pair of
// events, with supporting evidence.
type TemporalRelation struct {
	SourceID   string        `json:"source_id"`
	TargetID   string        `json:"target_id"`
	Relation   AllenRelation `json:"relation"`
	Confidence float64       `json:"confidence"`
	Evidence   []string      `json:"evidence,omitempty"`
}

// Phase is a contiguous segment of the case timeline bounded by
// role-transition or decision boundaries.
type Phase struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	ItemIDs []string  `json:"item_ids"`
}

// SuccessionRecord is one step in an agent's inferred role succession.
type SuccessionRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Role      string    `json:"role"`
	EventID   string    `json:"event_id"`
}

// ProcessProfile is the complete derived temporal structure of one case:
// boundaries, filtered pairwise relations, phases, per-agent succession, and
// the critical path of most consequential items. Read-only after
// construction.
type ProcessProfile struct {
	ProcessID    string                        `json:"process_id"`
	CaseID       string                        `json:"case_id"`
	Boundaries   []TemporalBoundary            `json:"boundaries"`
	Relations    []TemporalRelation            `json:"relations"`
	Phases       []Phase                       `json:"phases"`
	Succession   map[string][]SuccessionRecord `json:"succession"`
	CriticalPath []string                      `json:"critical_path"`
}

// AgentState is a snapshot of one agent at one point in the timeline. It
// informs succession building and is not retained in the profile.
type AgentState struct {
	AgentID        string    `json:"agent_id"`
	Timestamp      time.Time `json:"timestamp"`
	Role           string    `json:"role"`
	Knowledge      []string  `json:"knowledge,omitempty"`
	Capabilities   []string  `json:"capabilities,omitempty"`
	Constraints    []string  `json:"constraints,omitempty"`
	AuthorityLevel float64   `json:"authority_level"`
	EthicalStance  string    `json:"ethical_stance,omitempty"`
}

// EnrichedEvent decorates an input event with the profile facts that
// reference it.
type EnrichedEvent struct {
	Event          Event              `json:"event"`
	Boundaries     []TemporalBoundary `json:"boundaries,omitempty"`
	Relations      []TemporalRelation `json:"relations,omitempty"`
	Phase          *Phase             `json:"phase,omitempty"`
	Classification string             `json:"classification"`
}

// Case is a stored ethics case: narrative plus its extracted events and
// agents.
type Case struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
