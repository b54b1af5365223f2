package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kobohub/kobohub/internal/core"
	"github.com/kobohub/kobohub/internal/kobo"
	"github.com/kobohub/kobohub/internal/telemetry"
)

func deployFormTool() mcp.Tool {
	return mcp.NewTool("deploy_form",
		mcp.WithDescription("Upload an XLSForm and deploy it as a new survey."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Path to the XLSForm (.xlsx) file.")),
		mcp.WithString("form_name", mcp.Description("Optional name for the form; defaults to the file name.")),
	)
}

func (s *Service) deployForm(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := os.Stat(filePath); err != nil {
		return jsonResult(core.ErrorPayload{Error: "File not found: " + filePath})
	}

	name := strings.TrimSpace(req.GetString("form_name", ""))
	if name == "" {
		base := filepath.Base(filePath)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	asset, err := s.client.CreateAssetFromFile(ctx, filePath, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.client.ActivateDeployment(ctx, asset.UID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	refreshed, err := s.client.GetAsset(ctx, asset.UID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(core.DeployResult{
		UID:       asset.UID,
		Name:      name,
		Status:    "deployed",
		EnketoURL: core.EnketoURL(refreshed),
		URL:       s.client.ManagementURL(asset.UID),
	})
}

func replaceFormTool() mcp.Tool {
	return mcp.NewTool("replace_form",
		mcp.WithDescription("Replace an existing form with a new XLSForm version. The form uid and its submissions are preserved."),
		mcp.WithString("form_uid", mcp.Required(), mcp.Description("The unique identifier (uid) of the form to replace.")),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Path to the new XLSForm (.xlsx) file.")),
	)
}

func (s *Service) replaceForm(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, err := req.RequireString("form_uid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	filePath, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := os.Stat(filePath); err != nil {
		return jsonResult(core.ErrorPayload{Error: "File not found: " + filePath})
	}

	task, err := s.client.CreateImport(ctx, uid, filePath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := kobo.PollJob(ctx, s.pollInterval, kobo.ImportPollLimit, func(ctx context.Context) (kobo.JobStatus, error) {
		t, err := s.client.GetImport(ctx, task.UID)
		if err != nil {
			return kobo.JobStatus{}, err
		}
		return kobo.ClassifyImport(t), nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	switch res.Outcome {
	case kobo.OutcomeFailed:
		payload := core.NewJobErrorPayload(res.Messages)
		payload.UID = uid
		return jsonResult(payload)
	case kobo.OutcomeTimeout:
		telemetry.IncJobTimeout("import")
		return jsonResult(core.JobPendingPayload{Status: "timeout", Message: "Import is still processing."})
	}

	// Redeploy must target the version id current after the import
	// completed, not whatever the import response carried.
	current, err := s.client.GetAsset(ctx, uid)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.client.RedeployVersion(ctx, uid, current.VersionID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	refreshed, err := s.client.GetAsset(ctx, uid)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(core.ReplaceResult{
		UID:             uid,
		Name:            refreshed.Name,
		Status:          "redeployed",
		SubmissionCount: refreshed.SubmissionCount,
		EnketoURL:       core.EnketoURL(refreshed),
		URL:             s.client.ManagementURL(uid),
	})
}
