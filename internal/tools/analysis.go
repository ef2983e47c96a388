package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cr625/proethica-temporal/internal/models"
	"github.com/cr625/proethica-temporal/internal/session"
	"github.com/cr625/proethica-temporal/internal/storage"
	"github.com/cr625/proethica-temporal/internal/temporal"
)

// AnalysisTools holds references needed by the temporal analysis tool
// handlers.
type AnalysisTools struct {
	Store   *storage.Store
	Session *session.Session
	Engine  *temporal.Engine
}

// --- Input types ---

type ComputeRelationsInput struct {
	Events []models.Event `json:"events" jsonschema:"Events to relate pairwise; not persisted"`
}

// AnalysisResult is the payload returned by analyze_case and get_analysis.
type AnalysisResult struct {
	Profile  *models.ProcessProfile `json:"profile"`
	Warnings []string               `json:"warnings,omitempty"`
}

// EnrichedResult wraps the enriched event sequence for the active case.
type EnrichedResult struct {
	Events []models.EnrichedEvent `json:"events"`
}

// --- Handlers ---

// AnalyzeCase runs the full temporal pipeline on the active case and
// persists the resulting profile.
func (t *AnalysisTools) AnalyzeCase(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	caseID, c, errResult := t.loadCase()
	if errResult != nil {
		return errResult, nil, nil
	}

	events, err := t.Store.ListEvents(caseID)
	if err != nil {
		return toolError("Failed to load events: %v", err), nil, nil
	}
	agents, err := t.Store.ListAgents(caseID)
	if err != nil {
		return toolError("Failed to load agents: %v", err), nil, nil
	}

	profile, warnings := t.Engine.Analyze(caseID, events, c.Content, agents)

	if _, err := t.Store.SaveAnalysis(caseID, profile, warnings); err != nil {
		return toolError("Failed to save analysis: %v", err), nil, nil
	}

	return toolJSON(AnalysisResult{Profile: profile, Warnings: warnings})
}

// GetAnalysis returns the latest stored profile for the active case.
func (t *AnalysisTools) GetAnalysis(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	caseID, _, errResult := t.loadCase()
	if errResult != nil {
		return errResult, nil, nil
	}

	profile, warnings, err := t.Store.LatestAnalysis(caseID)
	if err != nil {
		return toolError("Failed to load analysis: %v", err), nil, nil
	}
	if profile == nil {
		return toolText("Case has not been analyzed yet. Use analyze_case first."), nil, nil
	}
	return toolJSON(AnalysisResult{Profile: profile, Warnings: warnings})
}

// EnrichEvents decorates the active case's events with the facts from its
// latest profile.
func (t *AnalysisTools) EnrichEvents(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	caseID, _, errResult := t.loadCase()
	if errResult != nil {
		return errResult, nil, nil
	}

	profile, _, err := t.Store.LatestAnalysis(caseID)
	if err != nil {
		return toolError("Failed to load analysis: %v", err), nil, nil
	}
	if profile == nil {
		return toolText("Case has not been analyzed yet. Use analyze_case first."), nil, nil
	}

	events, err := t.Store.ListEvents(caseID)
	if err != nil {
		return toolError("Failed to load events: %v", err), nil, nil
	}

	return toolJSON(EnrichedResult{Events: temporal.EnrichEvents(events, profile)})
}

// ComputeRelations computes the full unfiltered pairwise relation set for
// inline events. A debugging surface: it exposes the seven relations the
// profile filter drops.
func (t *AnalysisTools) ComputeRelations(_ context.Context, _ *mcp.CallToolRequest, input ComputeRelationsInput) (*mcp.CallToolResult, any, error) {
	intervals, _ := t.Engine.ToIntervals(input.Events)
	relations := temporal.ComputeRelations(intervals)
	if relations == nil {
		relations = []models.TemporalRelation{}
	}
	return toolJSON(relations)
}

func (t *AnalysisTools) loadCase() (string, *models.Case, *mcp.CallToolResult) {
	id, _, ok := t.Session.Current()
	if !ok {
		return "", nil, toolError("No active case. Use switch_case to select one.")
	}
	c, err := t.Store.GetCaseByID(id)
	if err != nil {
		return "", nil, toolError("Failed to load current case: %v", err)
	}
	return id, c, nil
}
