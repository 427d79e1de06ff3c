// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/VizLoreLabs/phasmaFoodPlatform/core"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the PhasmaFood MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(svc *core.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"PhasmaFood Platform Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{svc: svc}

	// --- 1. Tool: browse_rows ---
	s.AddTool(mcp.NewTool("browse_rows",
		mcp.WithDescription("List one page of replicated measurement documents."),
		mcp.WithString("database", mcp.Description("Document database (defaults to the configured one).")),
		mcp.WithString("collection", mcp.Description("Document collection (defaults to the configured one).")),
		mcp.WithString("filters", mcp.Description("JSON object of equality filters, e.g. {\"foodType\": \"maize\"}.")),
		mcp.WithNumber("page", mcp.Description("Page number starting at 1. Defaults to 1.")),
		mcp.WithNumber("page_size", mcp.Description("Documents per page. Defaults to 10.")),
	), h.handleBrowseRows)

	// --- 2. Tool: browse_row ---
	s.AddTool(mcp.NewTool("browse_row",
		mcp.WithDescription("Fetch the first replicated document matching the filters."),
		mcp.WithString("database", mcp.Description("Document database.")),
		mcp.WithString("collection", mcp.Description("Document collection.")),
		mcp.WithString("filters", mcp.Description("JSON object of equality filters."), mcp.Required()),
	), h.handleBrowseRow)

	// --- 3. Tool: list_databases ---
	s.AddTool(mcp.NewTool("list_databases",
		mcp.WithDescription("List document databases with their document counts."),
	), h.handleListDatabases)

	// --- 4. Tool: list_collections ---
	s.AddTool(mcp.NewTool("list_collections",
		mcp.WithDescription("List the collections of a document database with their document counts."),
		mcp.WithString("database", mcp.Description("Document database (defaults to the configured one).")),
	), h.handleListCollections)

	// --- 5. Tool: platform_statistics ---
	s.AddTool(mcp.NewTool("platform_statistics",
		mcp.WithDescription("Return the stored platform statistics snapshot."),
		mcp.WithBoolean("refresh", mcp.Description("Recompute the snapshot before returning it.")),
	), h.handlePlatformStatistics)

	// --- 6. Tool: sample_result ---
	s.AddTool(mcp.NewTool("sample_result",
		mcp.WithDescription("Return the classification result of one measurement."),
		mcp.WithNumber("sample_id", mcp.Description("Sample id of the measurement."), mcp.Required()),
	), h.handleSampleResult)

	// --- 7. Tool: list_measurements ---
	s.AddTool(mcp.NewTool("list_measurements",
		mcp.WithDescription("List stored measurements newest first, without their spectra."),
		mcp.WithString("use_case", mcp.Description("Only list measurements of this use case.")),
		mcp.WithString("food_type", mcp.Description("Only list measurements of this food type.")),
	), h.handleListMeasurements)

	// --- 8. Tool: measurement_filters ---
	s.AddTool(mcp.NewTool("measurement_filters",
		mcp.WithDescription("Return the distinct use cases and food types of stored measurements, with food types per use case."),
	), h.handleMeasurementFilters)

	return s
}

// StartMCPServer starts the PhasmaFood MCP server on stdio.
func StartMCPServer(_ context.Context, svc *core.Service) error {
	s := NewMCPServer(svc)
	return server.ServeStdio(s)
}
