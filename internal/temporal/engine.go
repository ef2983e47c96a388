// Package temporal derives the temporal structure of a professional-ethics
// case: boundaries, pairwise Allen relations, phase segmentation, agent
// succession, and a critical path of the most consequential moments. The
// whole pipeline is a pure in-memory computation; every derived fact traces
// back to the event(s) that produced it.
package temporal

import (
	"time"

	"github.com/cr625/proethica-temporal/internal/models"
)

// Default vocabularies for the keyword detectors. These are a coarse
// approximation of language understanding, not inference; Options lets a
// host swap them out.
var (
	defaultEthicsKeywords = []string{
		"safety", "public", "disclosure", "conflict", "responsibility",
		"duty", "harm", "risk", "ethical", "professional", "code",
	}
	defaultKnowledgePhrases = []string{"learned", "discovered", "found out", "realized", "became aware"}
	defaultRolePhrases      = []string{"promoted", "assigned", "became", "appointed", "replaced", "role"}
	defaultDeadlinePhrases  = []string{"deadline", "due", "must complete", "time limit", "urgently"}
)

const defaultDurationMinutes = 30

// Options configures an Engine. Zero values fall back to the defaults
// above.
type Options struct {
	DefaultDurationMinutes int
	EthicsKeywords         []string
	KnowledgePhrases       []string
	RolePhrases            []string
	DeadlinePhrases        []string

	// Now supplies the wall clock used as the last-resort timestamp
	// fallback. Tests inject a fixed clock here.
	Now func() time.Time
}

// Engine runs the full temporal analysis pipeline. It holds only immutable
// configuration, so one Engine may serve concurrent analyses.
type Engine struct {
	now                    func() time.Time
	defaultDurationMinutes int
	ethicsKeywords         []string
	detectors              []phraseDetector
}

// New creates an engine with the given options.
func New(opts Options) *Engine {
	e := &Engine{
		now:                    opts.Now,
		defaultDurationMinutes: opts.DefaultDurationMinutes,
		ethicsKeywords:         opts.EthicsKeywords,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.defaultDurationMinutes <= 0 {
		e.defaultDurationMinutes = defaultDurationMinutes
	}
	if e.ethicsKeywords == nil {
		e.ethicsKeywords = defaultEthicsKeywords
	}

	knowledge := opts.KnowledgePhrases
	if knowledge == nil {
		knowledge = defaultKnowledgePhrases
	}
	roles := opts.RolePhrases
	if roles == nil {
		roles = defaultRolePhrases
	}
	deadlines := opts.DeadlinePhrases
	if deadlines == nil {
		deadlines = defaultDeadlinePhrases
	}

	e.detectors = []phraseDetector{
		{models.BoundaryKnowledgeAcquisition, "Knowledge acquired", knowledge, 0.6},
		{models.BoundaryRoleTransition, "Role transition", roles, 0.7},
		{models.BoundaryDeadline, "Deadline", deadlines, 0.5},
	}
	return e
}

// Analyze runs the full pipeline: interval conversion, pairwise relation
// calculation, boundary extraction, and profile construction. The string
// slice carries data-quality warnings (wall-clock timestamp fallbacks);
// there are no fatal conditions, so no error is returned. Empty input
// yields a well-typed empty profile.
func (e *Engine) Analyze(caseID string, events []models.Event, content string, agents []models.Agent) (*models.ProcessProfile, []string) {
	intervals, warnings := e.ToIntervals(events)
	relations := ComputeRelations(intervals)
	boundaries := e.ExtractBoundaries(events, content)
	profile := e.BuildProfile(caseID, events, intervals, boundaries, FilterForProfile(relations), agents)
	return profile, warnings
}
