package temporal

import (
	"sort"
	"strings"

	"github.com/cr625/proethica-temporal/internal/models"
)

// BuildAgentTimeline returns the ordered state sequence for one agent: a
// snapshot at every event whose text mentions the agent (case-insensitive).
// Each snapshot carries the agent's declared role, capabilities, and
// authority; knowledge starts empty.
func (e *Engine) BuildAgentTimeline(agent models.Agent, events []models.Event) []models.AgentState {
	needle := strings.ToLower(agent.Name)
	if needle == "" {
		needle = strings.ToLower(agent.ID)
	}
	if needle == "" {
		return nil
	}

	var states []models.AgentState
	for _, ev := range events {
		if !strings.Contains(strings.ToLower(ev.Text), needle) {
			continue
		}
		iv, _ := e.ToInterval(ev)
		states = append(states, models.AgentState{
			AgentID:        agentKey(agent),
			Timestamp:      iv.Start,
			Role:           agent.Role,
			Knowledge:      nil,
			Capabilities:   append([]string(nil), agent.Capabilities...),
			AuthorityLevel: clamp01(agent.AuthorityLevel),
		})
	}
	sort.SliceStable(states, func(i, j int) bool {
		return states[i].Timestamp.Before(states[j].Timestamp)
	})
	return detectTransitions(states)
}

// detectTransitions is the declared hook for inferring state changes
// (knowledge gained, constraints added) across consecutive snapshots. No
// transition model is implemented yet; states pass through unchanged.
func detectTransitions(states []models.AgentState) []models.AgentState {
	return states
}
