package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cr625/proethica-temporal/internal/models"
	"github.com/cr625/proethica-temporal/internal/session"
	"github.com/cr625/proethica-temporal/internal/storage"
)

// CaseTools holds references needed by case management tool handlers.
type CaseTools struct {
	Store   *storage.Store
	Session *session.Session
}

// --- Input types ---

type CreateCaseInput struct {
	Title   string `json:"title" jsonschema:"Unique case title"`
	Content string `json:"content,omitempty" jsonschema:"Full narrative text of the case"`
}

type ListCasesInput struct {
	Status string `json:"status" jsonschema:"Filter cases by status: active, archived, or all"`
}

type SwitchCaseInput struct {
	Title string `json:"title" jsonschema:"Title of the case to make active"`
}

type ArchiveCaseInput struct {
	Title string `json:"title" jsonschema:"Title of the case to archive"`
}

type RestoreCaseInput struct {
	Title string `json:"title" jsonschema:"Title of the archived case to restore"`
}

type DeleteCaseInput struct {
	Title string `json:"title" jsonschema:"Title of the case to permanently delete"`
}

type SearchCasesInput struct {
	Query string `json:"query" jsonschema:"Search query over case titles and narratives (supports FTS5 syntax: AND, OR, NOT, prefix*)"`
}

type AddEventsInput struct {
	Events []models.Event `json:"events" jsonschema:"Events to append to the active case"`
}

type AddAgentsInput struct {
	Agents []models.Agent `json:"agents" jsonschema:"Agents to append to the active case"`
}

// --- Handlers ---

func (t *CaseTools) CreateCase(_ context.Context, _ *mcp.CallToolRequest, input CreateCaseInput) (*mcp.CallToolResult, any, error) {
	if input.Title == "" {
		return toolError("Case title is required"), nil, nil
	}
	c, err := t.Store.CreateCase(input.Title, input.Content)
	if err != nil {
		return toolError("Failed to create case: %v", err), nil, nil
	}
	return toolJSON(c)
}

func (t *CaseTools) ListCases(_ context.Context, _ *mcp.CallToolRequest, input ListCasesInput) (*mcp.CallToolResult, any, error) {
	status := input.Status
	if status == "" {
		status = "active"
	}
	cases, err := t.Store.ListCases(status)
	if err != nil {
		return toolError("Failed to list cases: %v", err), nil, nil
	}
	if cases == nil {
		cases = []models.Case{}
	}
	return toolJSON(cases)
}

func (t *CaseTools) SwitchCase(_ context.Context, _ *mcp.CallToolRequest, input SwitchCaseInput) (*mcp.CallToolResult, any, error) {
	if input.Title == "" {
		return toolError("Case title is required"), nil, nil
	}
	c, err := t.Session.SwitchCase(t.Store, input.Title)
	if err != nil {
		return toolError("Failed to switch case: %v", err), nil, nil
	}
	return toolJSON(c)
}

func (t *CaseTools) GetCurrentCase(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	id, _, ok := t.Session.Current()
	if !ok {
		return toolText("No active case. Use switch_case to select one."), nil, nil
	}
	c, err := t.Store.GetCaseByID(id)
	if err != nil {
		return toolError("Failed to load current case: %v", err), nil, nil
	}
	return toolJSON(c)
}

func (t *CaseTools) ArchiveCase(_ context.Context, _ *mcp.CallToolRequest, input ArchiveCaseInput) (*mcp.CallToolResult, any, error) {
	if input.Title == "" {
		return toolError("Case title is required"), nil, nil
	}

	// If archiving the current case, clear the session
	_, currentTitle, ok := t.Session.Current()
	if ok && currentTitle == input.Title {
		t.Session.Clear()
	}

	c, err := t.Store.SetCaseStatus(input.Title, "archived")
	if err != nil {
		return toolError("Failed to archive case: %v", err), nil, nil
	}
	return toolJSON(c)
}

func (t *CaseTools) RestoreCase(_ context.Context, _ *mcp.CallToolRequest, input RestoreCaseInput) (*mcp.CallToolResult, any, error) {
	if input.Title == "" {
		return toolError("Case title is required"), nil, nil
	}
	c, err := t.Store.SetCaseStatus(input.Title, "active")
	if err != nil {
		return toolError("Failed to restore case: %v", err), nil, nil
	}
	return toolJSON(c)
}

func (t *CaseTools) DeleteCase(_ context.Context, _ *mcp.CallToolRequest, input DeleteCaseInput) (*mcp.CallToolResult, any, error) {
	if input.Title == "" {
		return toolError("Case title is required"), nil, nil
	}

	_, currentTitle, ok := t.Session.Current()
	if ok && currentTitle == input.Title {
		t.Session.Clear()
	}

	if err := t.Store.DeleteCase(input.Title); err != nil {
		return toolError("Failed to delete case: %v", err), nil, nil
	}
	return toolText(fmt.Sprintf("Case %q permanently deleted.", input.Title)), nil, nil
}

func (t *CaseTools) SearchCases(_ context.Context, _ *mcp.CallToolRequest, input SearchCasesInput) (*mcp.CallToolResult, any, error) {
	cases, err := t.Store.SearchCases(input.Query)
	if err != nil {
		return toolError("Search failed: %v", err), nil, nil
	}
	if cases == nil {
		cases = []models.Case{}
	}
	return toolJSON(cases)
}

func (t *CaseTools) AddEvents(_ context.Context, _ *mcp.CallToolRequest, input AddEventsInput) (*mcp.CallToolResult, any, error) {
	caseID, errResult := t.requireCase()
	if errResult != nil {
		return errResult, nil, nil
	}
	added, err := t.Store.AddEvents(caseID, input.Events)
	if err != nil {
		return toolError("Failed to add events: %v", err), nil, nil
	}
	return toolJSON(added)
}

func (t *CaseTools) AddAgents(_ context.Context, _ *mcp.CallToolRequest, input AddAgentsInput) (*mcp.CallToolResult, any, error) {
	caseID, errResult := t.requireCase()
	if errResult != nil {
		return errResult, nil, nil
	}
	added, err := t.Store.AddAgents(caseID, input.Agents)
	if err != nil {
		return toolError("Failed to add agents: %v", err), nil, nil
	}
	return toolJSON(added)
}

func (t *CaseTools) requireCase() (string, *mcp.CallToolResult) {
	id, _, ok := t.Session.Current()
	if !ok {
		return "", toolError("No active case. Use switch_case to select one.")
	}
	return id, nil
}

// --- Helpers ---

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
