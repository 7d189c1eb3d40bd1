package mcpserver

import (
	"context"
	"fmt"

	"gridbook/internal/grid"
	"gridbook/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerDatasetTools() {
	s.mcp.AddTool(mcp.NewTool("list_datasets",
		mcp.WithDescription("List all datasets with their column configuration and row counts"),
	), s.handleListDatasets)

	s.mcp.AddTool(mcp.NewTool("get_dataset_rows",
		mcp.WithDescription("Read rows from a dataset. Optional filter and sort are evaluated with the grid's own semantics (filter: case-insensitive contains/equals, sort: single column, nulls first ascending)."),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
		mcp.WithString("filterField", mcp.Description("Column field to filter on")),
		mcp.WithString("filterOperator", mcp.Description("'contains' or 'equals' (anything else matches all rows)")),
		mcp.WithString("filterValue", mcp.Description("Filter value")),
		mcp.WithString("sortField", mcp.Description("Column field to sort by")),
		mcp.WithString("sortDirection", mcp.Description("'asc' or 'desc'")),
	), s.handleGetDatasetRows)

	s.mcp.AddTool(mcp.NewTool("get_view_state",
		mcp.WithDescription("Get the persisted grid view state for a dataset (column visibility, order, sort model, filter model). Falls back to the defaults derived from the column config."),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
	), s.handleGetViewState)

	s.mcp.AddTool(mcp.NewTool("export_csv",
		mcp.WithDescription("Render a dataset's currently visible data (after view-state filter, sort, column order and visibility) as CSV. Writes to a file when path is given, otherwise returns the CSV text."),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
		mcp.WithString("path", mcp.Description("Optional absolute file path to write the CSV to")),
	), s.handleExportCSV)
}

func (s *Server) handleListDatasets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	datasets, err := s.datasets.ListDatasets()
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}

	type datasetInfo struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Columns  any    `json:"columns"`
		RowCount int    `json:"rowCount"`
	}
	out := make([]datasetInfo, 0, len(datasets))
	for _, d := range datasets {
		info := datasetInfo{ID: d.ID, Name: d.Name, Columns: d.Columns()}
		if stats, err := s.datasets.GetDatasetStats(d.ID); err == nil {
			info.RowCount = stats.RowCount
		}
		out = append(out, info)
	}
	return jsonResult(out)
}

func (s *Server) handleGetDatasetRows(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	datasetID, _ := args["datasetId"].(string)
	if datasetID == "" {
		return nil, fmt.Errorf("datasetId is required")
	}

	stored, err := s.datasets.ListRows(datasetID)
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}
	rows := service.GridRows(stored)

	if field, _ := args["filterField"].(string); field != "" {
		op, _ := args["filterOperator"].(string)
		rows = grid.Filter(rows, []grid.FilterItem{{
			Field:    field,
			Operator: op,
			Value:    args["filterValue"],
		}})
	}
	if field, _ := args["sortField"].(string); field != "" {
		direction, _ := args["sortDirection"].(string)
		if direction == "" {
			direction = grid.SortAsc
		}
		rows = grid.Sort(rows, []grid.SortItem{{Field: field, Sort: direction}})
	}

	return jsonResult(rows)
}

func (s *Server) handleGetViewState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	datasetID, _ := args["datasetId"].(string)
	if datasetID == "" {
		return nil, fmt.Errorf("datasetId is required")
	}

	d, err := s.datasets.GetDataset(datasetID)
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}

	state := s.viewStates.Load(datasetID, service.DefaultViewState(d.Columns()))
	return jsonResult(state)
}

func (s *Server) handleExportCSV(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	datasetID, _ := args["datasetId"].(string)
	if datasetID == "" {
		return nil, fmt.Errorf("datasetId is required")
	}

	if path, _ := args["path"].(string); path != "" {
		if err := s.exports.WriteCSV(datasetID, path); err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		return textResult(fmt.Sprintf("Exported dataset %s to %s", datasetID, path)), nil
	}
	return textResult(s.exports.CSV(datasetID)), nil
}
