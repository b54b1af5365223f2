// Package core holds configuration and the shaped output types returned by
// tool operations. Shaping extracts an explicit allow-list of fields from
// the remote API's payloads so callers never see upstream schema churn.
package core

import (
	"encoding/json"

	"github.com/kobohub/kobohub/internal/kobo"
)

// FormSummary is the stable subset of asset fields exposed for listings.
// Every field is always present: strings default to "" and counts to 0
// when the upstream payload omits them.
type FormSummary struct {
	UID              string `json:"uid"`
	Name             string `json:"name"`
	AssetType        string `json:"asset_type"`
	DeploymentStatus string `json:"deployment_status"`
	SubmissionCount  int    `json:"submission_count"`
	DateCreated      string `json:"date_created"`
	DateModified     string `json:"date_modified"`
	Owner            string `json:"owner"`
}

// FormDetail adds the verbatim questionnaire structure and deployment
// links. Content is null when the asset carries none.
type FormDetail struct {
	FormSummary
	Content         json.RawMessage   `json:"content"`
	DeploymentLinks map[string]string `json:"deployment_links"`
}

// ResolvedForm is the output of resolving a deployment link back to its
// form. EnketoURL is the stored link that matched.
type ResolvedForm struct {
	UID              string `json:"uid"`
	Name             string `json:"name"`
	DeploymentStatus string `json:"deployment_status"`
	SubmissionCount  int    `json:"submission_count"`
	EnketoURL        string `json:"enketo_url"`
}

func SummarizeAsset(a *kobo.Asset) FormSummary {
	return FormSummary{
		UID:              a.UID,
		Name:             a.Name,
		AssetType:        a.AssetType,
		DeploymentStatus: a.DeploymentStatus,
		SubmissionCount:  a.SubmissionCount,
		DateCreated:      a.DateCreated,
		DateModified:     a.DateModified,
		Owner:            a.Owner,
	}
}

func DetailAsset(a *kobo.Asset) FormDetail {
	links := a.DeploymentLinks
	if links == nil {
		links = map[string]string{}
	}
	return FormDetail{
		FormSummary:     SummarizeAsset(a),
		Content:         a.Content,
		DeploymentLinks: links,
	}
}

func ResolveAsset(a *kobo.Asset, matchedLink string) ResolvedForm {
	return ResolvedForm{
		UID:              a.UID,
		Name:             a.Name,
		DeploymentStatus: a.DeploymentStatus,
		SubmissionCount:  a.SubmissionCount,
		EnketoURL:        matchedLink,
	}
}

// EnketoURL returns the primary data-collection link for a deployed asset:
// the "url" deployment link, falling back to "offline_url", else "".
func EnketoURL(a *kobo.Asset) string {
	if link := a.DeploymentLinks["url"]; link != "" {
		return link
	}
	return a.DeploymentLinks["offline_url"]
}
