package kobo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// CreateImport uploads a replacement XLSForm as an import task targeting
// an existing asset. The import produces a new content version under the
// same uid.
func (c *Client) CreateImport(ctx context.Context, uid, filePath string) (*ImportTask, error) {
	fields := map[string]string{
		"destination": fmt.Sprintf("%s/api/v2/assets/%s/", c.baseURL, uid),
	}
	var task ImportTask
	if err := c.uploadFile(ctx, "create import", "imports/", filePath, fields, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) GetImport(ctx context.Context, importUID string) (*ImportTask, error) {
	var task ImportTask
	if err := c.getJSON(ctx, "get import", "imports/"+importUID+"/", nil, shortTimeout, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ExportSettings are the fixed knobs sent when creating an export job:
// group separator, multi-select column handling, label hierarchy and
// whether fields from all historical form versions are included.
type ExportSettings struct {
	FieldsFromAllVersions bool   `json:"fields_from_all_versions"`
	GroupSep              string `json:"group_sep"`
	HierarchyInLabels     bool   `json:"hierarchy_in_labels"`
	MultipleSelect        string `json:"multiple_select"`
	Type                  string `json:"type"`
}

func (c *Client) CreateExport(ctx context.Context, uid string, settings ExportSettings) (*ExportTask, error) {
	var task ExportTask
	if err := c.sendJSON(ctx, "create export", http.MethodPost, "assets/"+uid+"/exports/", settings, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) GetExport(ctx context.Context, uid, exportUID string) (*ExportTask, error) {
	var task ExportTask
	path := fmt.Sprintf("assets/%s/exports/%s/", uid, exportUID)
	if err := c.getJSON(ctx, "get export", path, nil, shortTimeout, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetSubmissions fetches one page of submission records. The optional
// query is a JSON filter passed through to the API verbatim.
func (c *Client) GetSubmissions(ctx context.Context, uid string, limit, start int, query string) (*DataPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("start", strconv.Itoa(start))
	if query != "" {
		q.Set("query", query)
	}
	var page DataPage
	if err := c.getJSON(ctx, "get submissions", "assets/"+uid+"/data/", q, longTimeout, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
