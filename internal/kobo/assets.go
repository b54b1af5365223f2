package kobo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListSurveys returns all survey-type assets, optionally filtered by a
// name-contains search term.
func (c *Client) ListSurveys(ctx context.Context, search string) ([]Asset, error) {
	q := url.Values{}
	q.Set("asset_type", "survey")
	if search != "" {
		q.Set("q", search)
	}
	var page AssetPage
	if err := c.getJSON(ctx, "list assets", "assets/", q, shortTimeout, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *Client) GetAsset(ctx context.Context, uid string) (*Asset, error) {
	var asset Asset
	if err := c.getJSON(ctx, "get asset", "assets/"+uid+"/", nil, shortTimeout, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// CreateAssetFromFile uploads an XLSForm and creates a new survey asset
// named name.
func (c *Client) CreateAssetFromFile(ctx context.Context, filePath, name string) (*Asset, error) {
	var asset Asset
	fields := map[string]string{"name": name}
	if err := c.uploadFile(ctx, "create asset", "assets/", filePath, fields, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// ActivateDeployment makes a freshly created asset live for data
// collection.
func (c *Client) ActivateDeployment(ctx context.Context, uid string) error {
	payload := map[string]any{"active": true}
	return c.sendJSON(ctx, "deploy asset", http.MethodPost, "assets/"+uid+"/deployment/", payload, nil)
}

// RedeployVersion forces an existing deployment onto the given content
// version. The asset keeps its uid.
func (c *Client) RedeployVersion(ctx context.Context, uid, versionID string) error {
	payload := map[string]any{"active": true, "version_id": versionID}
	return c.sendJSON(ctx, "redeploy asset", http.MethodPatch, "assets/"+uid+"/deployment/", payload, nil)
}

// DownloadXLSForm fetches the asset's form definition as XLSX bytes.
func (c *Client) DownloadXLSForm(ctx context.Context, uid string) ([]byte, error) {
	return c.getBytes(ctx, "download form", fmt.Sprintf("assets/%s.xls", uid))
}
