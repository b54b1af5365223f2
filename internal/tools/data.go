package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kobohub/kobohub/internal/core"
	"github.com/kobohub/kobohub/internal/kobo"
	"github.com/kobohub/kobohub/internal/telemetry"
)

func getSubmissionsTool() mcp.Tool {
	return mcp.NewTool("get_submissions",
		mcp.WithDescription("Get submissions (responses) for a form."),
		mcp.WithString("form_uid", mcp.Required(), mcp.Description("The unique identifier (uid) of the form.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of submissions to return (default 100).")),
		mcp.WithNumber("start", mcp.Description("Offset for pagination (default 0).")),
		mcp.WithString("query", mcp.Description(`Optional JSON query string to filter submissions (e.g. '{"field": "value"}').`)),
	)
}

func (s *Service) getSubmissions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, err := req.RequireString("form_uid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 100)
	start := req.GetInt("start", 0)
	query := req.GetString("query", "")

	page, err := s.client.GetSubmissions(ctx, uid, limit, start, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results := page.Results
	if results == nil {
		results = []json.RawMessage{}
	}
	return jsonResult(core.SubmissionPage{Count: page.Count, Results: results})
}

func exportFormTool() mcp.Tool {
	return mcp.NewTool("export_form",
		mcp.WithDescription("Download a form's XLSForm definition to a local file."),
		mcp.WithString("form_uid", mcp.Required(), mcp.Description("The unique identifier (uid) of the form.")),
		mcp.WithString("output_path", mcp.Required(), mcp.Description("Local path to write the .xlsx file to. Parent directories are created.")),
	)
}

func (s *Service) exportForm(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, err := req.RequireString("form_uid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	outputPath, err := req.RequireString("output_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	asset, err := s.client.GetAsset(ctx, uid)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.client.DownloadXLSForm(ctx, uid)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(core.SavedForm{
		UID:          uid,
		Name:         asset.Name,
		Path:         outputPath,
		BytesWritten: len(data),
	})
}

func exportDataTool() mcp.Tool {
	return mcp.NewTool("export_data",
		mcp.WithDescription("Create a data export for a form and return its download URL."),
		mcp.WithString("form_uid", mcp.Required(), mcp.Description("The unique identifier (uid) of the form.")),
		mcp.WithString("export_type", mcp.Description("Export format, 'csv' or 'xls' (default 'csv').")),
		mcp.WithBoolean("include_labels", mcp.Description("Include question labels in headers (default true).")),
	)
}

func (s *Service) exportData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, err := req.RequireString("form_uid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	exportType := req.GetString("export_type", "csv")
	includeLabels := req.GetBool("include_labels", true)

	task, err := s.client.CreateExport(ctx, uid, kobo.ExportSettings{
		FieldsFromAllVersions: true,
		GroupSep:              "/",
		HierarchyInLabels:     includeLabels,
		MultipleSelect:        "both",
		Type:                  exportType,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := kobo.PollJob(ctx, s.pollInterval, kobo.ExportPollLimit, func(ctx context.Context) (kobo.JobStatus, error) {
		t, err := s.client.GetExport(ctx, uid, task.UID)
		if err != nil {
			return kobo.JobStatus{}, err
		}
		return kobo.ClassifyExport(t), nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	switch res.Outcome {
	case kobo.OutcomeFailed:
		return jsonResult(core.NewJobErrorPayload(res.Messages))
	case kobo.OutcomeTimeout:
		telemetry.IncJobTimeout("export")
		return jsonResult(core.JobPendingPayload{Status: "pending", Message: "Export is still processing. Try again later."})
	}
	return jsonResult(core.ExportResult{
		Status:      "complete",
		DownloadURL: res.Result,
		Type:        exportType,
	})
}
