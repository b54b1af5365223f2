package kobo

import "encoding/json"

// Wire types for the KoboToolbox v2 API. Field names and shapes are owned
// by the remote service; only the fields this server consumes are decoded.

// Asset is a survey/form resource. The uid is stable for the lifetime of
// the form, including across content replacements.
type Asset struct {
	UID              string            `json:"uid"`
	Name             string            `json:"name"`
	AssetType        string            `json:"asset_type"`
	DeploymentStatus string            `json:"deployment_status"`
	SubmissionCount  int               `json:"deployment__submission_count"`
	DateCreated      string            `json:"date_created"`
	DateModified     string            `json:"date_modified"`
	Owner            string            `json:"owner__username"`
	VersionID        string            `json:"version_id"`
	Content          json.RawMessage   `json:"content"`
	DeploymentLinks  map[string]string `json:"deployment__links"`
}

type AssetPage struct {
	Count   int     `json:"count"`
	Results []Asset `json:"results"`
}

// Terminal job statuses reported by the API; anything else is pending.
const (
	StatusComplete = "complete"
	StatusError    = "error"
)

// ImportTask is an asynchronous server-side conversion of an uploaded
// XLSForm into a new content version of an existing asset.
type ImportTask struct {
	UID      string          `json:"uid"`
	Status   string          `json:"status"`
	Messages json.RawMessage `json:"messages"`
}

// ExportTask is an asynchronous server-side materialization of submission
// data into a downloadable file. Result is the download URL once complete.
type ExportTask struct {
	UID      string          `json:"uid"`
	Status   string          `json:"status"`
	Result   string          `json:"result"`
	Messages json.RawMessage `json:"messages"`
}

// DataPage is one page of submission records, passed through verbatim.
type DataPage struct {
	Count   int               `json:"count"`
	Results []json.RawMessage `json:"results"`
}
