package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kobohub/kobohub/internal/core"
)

func listFormsTool() mcp.Tool {
	return mcp.NewTool("list_forms",
		mcp.WithDescription("List KoboToolbox survey forms with uid, name, deployment status and submission count."),
		mcp.WithString("search", mcp.Description("Optional search term to filter forms by name.")),
	)
}

func (s *Service) listForms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	search := strings.TrimSpace(req.GetString("search", ""))

	assets, err := s.client.ListSurveys(ctx, search)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	forms := make([]core.FormSummary, 0, len(assets))
	for i := range assets {
		forms = append(forms, core.SummarizeAsset(&assets[i]))
	}
	return jsonResult(forms)
}

func getFormTool() mcp.Tool {
	return mcp.NewTool("get_form",
		mcp.WithDescription("Get detailed information about a form, including its questionnaire structure and deployment links."),
		mcp.WithString("form_uid", mcp.Required(), mcp.Description("The unique identifier (uid) of the form.")),
	)
}

func (s *Service) getForm(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, err := req.RequireString("form_uid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	asset, err := s.client.GetAsset(ctx, uid)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(core.DetailAsset(asset))
}

func resolveFormTool() mcp.Tool {
	return mcp.NewTool("resolve_form",
		mcp.WithDescription("Find the form whose deployment link matches an enketo URL. A single trailing slash difference is tolerated."),
		mcp.WithString("enketo_url", mcp.Required(), mcp.Description("The enketo data-collection URL to resolve.")),
	)
}

func (s *Service) resolveForm(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := req.RequireString("enketo_url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	want := strings.TrimRight(strings.TrimSpace(target), "/")

	assets, err := s.client.ListSurveys(ctx, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	for i := range assets {
		for _, link := range assets[i].DeploymentLinks {
			if strings.TrimRight(link, "/") == want {
				return jsonResult(core.ResolveAsset(&assets[i], link))
			}
		}
	}
	return jsonResult(core.ErrorPayload{Error: fmt.Sprintf("No form found for enketo URL: %s", target)})
}
