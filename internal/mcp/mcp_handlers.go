package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/VizLoreLabs/phasmaFoodPlatform/core"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	svc *core.Service
}

// parseFilters decodes the filters argument. An empty string means no filter.
func parseFilters(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var filters map[string]any
	if err := json.Unmarshal([]byte(raw), &filters); err != nil {
		return nil, fmt.Errorf("filters must be a JSON object: %w", err)
	}
	return filters, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleBrowseRows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filters, err := parseFilters(request.GetString("filters", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid browse parameters: %v", err)), nil
	}
	page := request.GetInt("page", 1)
	pageSize := request.GetInt("page_size", contract.DefaultPageSize)

	result, err := h.svc.Rows(ctx, request.GetString("database", ""), request.GetString("collection", ""), filters, page, pageSize)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("browse failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleBrowseRow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filters, err := parseFilters(request.GetString("filters", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid browse parameters: %v", err)), nil
	}
	if len(filters) == 0 {
		return mcp.NewToolResultError("invalid browse parameters: filters are required"), nil
	}

	row, err := h.svc.Row(ctx, request.GetString("database", ""), request.GetString("collection", ""), filters)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("browse failed: %v", err)), nil
	}
	return jsonResult(row)
}

func (h *toolHandler) handleListDatabases(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dbs, err := h.svc.Databases(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}
	return jsonResult(dbs)
}

func (h *toolHandler) handleListCollections(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	colls, err := h.svc.Collections(ctx, request.GetString("database", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}
	return jsonResult(colls)
}

func (h *toolHandler) handlePlatformStatistics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if request.GetBool("refresh", false) {
		stat, err := h.svc.ComputeStatistics(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("statistics failed: %v", err)), nil
		}
		return jsonResult(stat)
	}
	stat, err := h.svc.Statistics(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("statistics unavailable: %v", err)), nil
	}
	return jsonResult(stat)
}

func (h *toolHandler) handleSampleResult(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetInt("sample_id", 0)
	if id < 1 {
		return mcp.NewToolResultError("invalid result parameters: sample_id must be at least 1"), nil
	}
	result, err := h.svc.Result(ctx, int64(id))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("result unavailable: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleListMeasurements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ms, err := h.svc.Measurements(ctx, schema.MeasurementFilter{
		UseCase:  request.GetString("use_case", ""),
		FoodType: request.GetString("food_type", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}
	if ms == nil {
		ms = []schema.MeasurementSummary{}
	}
	return jsonResult(ms)
}

func (h *toolHandler) handleMeasurementFilters(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filters, err := h.svc.MeasurementFilters(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}
	return jsonResult(map[string]schema.MeasurementFilters{"filter": filters})
}
