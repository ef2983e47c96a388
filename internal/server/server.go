package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cr625/proethica-temporal/internal/session"
	"github.com/cr625/proethica-temporal/internal/storage"
	"github.com/cr625/proethica-temporal/internal/temporal"
	"github.com/cr625/proethica-temporal/internal/tools"
)

// New creates a fully configured MCP server with all tools registered.
func New(store *storage.Store, engine *temporal.Engine) *mcp.Server {
	sess := session.New()

	ct := &tools.CaseTools{Store: store, Session: sess}
	at := &tools.AnalysisTools{Store: store, Session: sess, Engine: engine}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "proethica-temporal",
		Version: "0.1.0",
	}, nil)

	// Case management tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_case",
		Description: "Create a new ethics case with its narrative text",
	}, ct.CreateCase)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_cases",
		Description: "List cases with optional status filter (active, archived, all)",
	}, ct.ListCases)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "switch_case",
		Description: "Switch the active case for the current session",
	}, ct.SwitchCase)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_current_case",
		Description: "Get the currently active case",
	}, ct.GetCurrentCase)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "archive_case",
		Description: "Archive a case (preserves data, makes it inactive)",
	}, ct.ArchiveCase)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "restore_case",
		Description: "Restore an archived case back to active status",
	}, ct.RestoreCase)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_case",
		Description: "Permanently delete a case and all its data (irreversible)",
	}, ct.DeleteCase)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "search_cases",
		Description: "Search case titles and narratives using FTS5 full-text search",
	}, ct.SearchCases)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_events",
		Description: "Append extracted events to the active case (requires active case)",
	}, ct.AddEvents)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_agents",
		Description: "Append case participants to the active case (requires active case)",
	}, ct.AddAgents)

	// Temporal analysis tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "analyze_case",
		Description: "Run temporal analysis on the active case: boundaries, Allen relations, phases, agent succession, critical path (requires active case)",
	}, at.AnalyzeCase)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_analysis",
		Description: "Get the latest stored temporal profile for the active case (requires active case)",
	}, at.GetAnalysis)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "enrich_events",
		Description: "Return the active case's events decorated with boundaries, relations, and phases from the latest profile (requires active case)",
	}, at.EnrichEvents)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "compute_relations",
		Description: "Compute the full 13-relation Allen classification for events supplied inline (nothing is persisted)",
	}, at.ComputeRelations)

	return srv
}
