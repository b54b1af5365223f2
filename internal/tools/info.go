package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const overviewHelp = `kobohub: KoboToolbox survey management over MCP.

Tools:
  list_forms       List survey forms (optionally filtered by name).
  get_form         Full form details including the questionnaire structure.
  resolve_form     Find the form behind an enketo data-collection URL.
  export_form      Download a form's XLSForm definition to a local file.
  get_submissions  Fetch submission records, paginated, optionally filtered.
  deploy_form      Upload an XLSForm and deploy it as a new survey.
  replace_form     Upload a new XLSForm version into an existing form.
  export_data      Export submission data and get a download URL.
  info             This help. Topics: overview, translate, deploy, data.

All tools return JSON except info. Configure KOBO_API_TOKEN (required)
and KOBO_SERVER (optional, defaults to the public kf.kobotoolbox.org
instance).`

const translateHelp = `Turning a questionnaire into an XLSForm:

An XLSForm is a spreadsheet (.xlsx) with three sheets:
  survey    One row per question: type, name, label. Types include text,
            integer, decimal, date, select_one <list>, select_multiple
            <list>, note, geopoint.
  choices   One row per answer option: list_name, name, label. Referenced
            by select_one/select_multiple questions.
  settings  Optional: form_title, default_language, version.

Add label columns per language (label::English (en), label::French (fr))
for multilingual forms. Once the file is ready, use deploy_form to create
a new survey or replace_form to version an existing one.`

const deployHelp = `Deploying and replacing forms:

deploy_form uploads an XLSForm, creates a new survey asset and activates
its deployment. The result carries the form uid, the enketo_url where
data is collected, and the management URL.

replace_form uploads a new XLSForm into an existing form. The upload runs
as a server-side import job that is polled for up to 60 seconds; when it
completes, the form is redeployed onto its current version. The uid and
all existing submissions are preserved. A "timeout" status means the
import is still running - the form is untouched until it finishes, so
simply retry later. An "error" status carries the import messages, which
usually point at a problem in the spreadsheet.`

const dataHelp = `Working with submission data:

get_submissions returns raw submission records as stored by the platform,
with count for the total and limit/start for pagination. The optional
query argument is a MongoDB-style JSON filter passed through verbatim,
e.g. {"age": {"$gt": 30}}.

export_data creates a server-side export job (csv or xls) and polls it
for up to 30 seconds. Multi-select questions are exported in both single-
and multi-column form, groups are separated with "/", and fields from all
historical form versions are included. A "pending" status means the
export is still being generated; call export_data again later to get the
download URL.`

var infoTopics = map[string]string{
	"overview":  overviewHelp,
	"translate": translateHelp,
	"deploy":    deployHelp,
	"data":      dataHelp,
}

func infoTool() mcp.Tool {
	return mcp.NewTool("info",
		mcp.WithDescription("Static help text about kobohub usage. Plain text, not JSON."),
		mcp.WithString("topic", mcp.Description("Help topic: overview, translate, deploy or data. Defaults to overview.")),
	)
}

func (s *Service) info(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := strings.ToLower(strings.TrimSpace(req.GetString("topic", "overview")))
	if topic == "" {
		topic = "overview"
	}
	text, ok := infoTopics[topic]
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("Unknown topic %q. Valid topics: overview, translate, deploy, data.", topic)), nil
	}
	return mcp.NewToolResultText(text), nil
}
