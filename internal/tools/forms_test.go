package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/kobohub/kobohub/internal/kobo"
)

func surveyFixture() []kobo.Asset {
	return []kobo.Asset{
		{
			UID:              "aCensus1",
			Name:             "Census North",
			AssetType:        "survey",
			DeploymentStatus: "deployed",
			SubmissionCount:  12,
			DeploymentLinks:  map[string]string{"url": "https://ee.example.org/cn/"},
		},
		{
			UID:              "aCensus2",
			Name:             "Census South",
			AssetType:        "survey",
			DeploymentStatus: "deployed",
			SubmissionCount:  3,
			DeploymentLinks:  map[string]string{"offline_url": "https://ee.example.org/cs"},
		},
		{
			UID:       "aHealth",
			Name:      "Health Checkup",
			AssetType: "survey",
		},
	}
}

// fakeAssetList emulates the remote side of the q= search filter.
func fakeAssetList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	results := make([]kobo.Asset, 0)
	for _, a := range surveyFixture() {
		if q == "" || strings.Contains(a.Name, q) {
			results = append(results, a)
		}
	}
	json.NewEncoder(w).Encode(kobo.AssetPage{Count: len(results), Results: results})
}

func TestListFormsSearch(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(fakeAssetList))

	res, err := svc.listForms(context.Background(), callReq("list_forms", map[string]any{"search": "Census"}))
	if err != nil {
		t.Fatalf("list_forms: %v", err)
	}

	var forms []map[string]any
	decodeResult(t, res, &forms)
	if len(forms) != 2 {
		t.Fatalf("got %d forms, want 2", len(forms))
	}
	for _, f := range forms {
		for _, key := range []string{"uid", "name", "deployment_status", "submission_count"} {
			if _, ok := f[key]; !ok {
				t.Fatalf("form %v missing %q", f, key)
			}
		}
	}
	if forms[0]["uid"] != "aCensus1" || forms[0]["submission_count"] != float64(12) {
		t.Fatalf("first form = %v", forms[0])
	}
}

func TestGetFormDetail(t *testing.T) {
	content := `{"survey":[{"type":"text","name":"q1"}]}`
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/assets/aCensus1/" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(kobo.Asset{
			UID:             "aCensus1",
			Name:            "Census North",
			Content:         json.RawMessage(content),
			DeploymentLinks: map[string]string{"url": "https://ee.example.org/cn/"},
		})
	}))

	res, err := svc.getForm(context.Background(), callReq("get_form", map[string]any{"form_uid": "aCensus1"}))
	if err != nil {
		t.Fatalf("get_form: %v", err)
	}

	var detail struct {
		UID             string            `json:"uid"`
		Content         json.RawMessage   `json:"content"`
		DeploymentLinks map[string]string `json:"deployment_links"`
	}
	decodeResult(t, res, &detail)
	if detail.UID != "aCensus1" {
		t.Fatalf("uid = %q", detail.UID)
	}
	if normalizeJSON(t, detail.Content) != normalizeJSON(t, json.RawMessage(content)) {
		t.Fatalf("content = %s", detail.Content)
	}
	if detail.DeploymentLinks["url"] == "" {
		t.Fatal("deployment_links missing url")
	}
}

// normalizeJSON compacts a JSON document so indentation differences do not
// affect comparison.
func normalizeJSON(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestResolveFormTrailingSlash(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(fakeAssetList))

	// Stored link has the trailing slash, the query does not.
	res, err := svc.resolveForm(context.Background(), callReq("resolve_form", map[string]any{
		"enketo_url": "https://ee.example.org/cn",
	}))
	if err != nil {
		t.Fatalf("resolve_form: %v", err)
	}
	var resolved map[string]any
	decodeResult(t, res, &resolved)
	if resolved["uid"] != "aCensus1" {
		t.Fatalf("resolved = %v", resolved)
	}

	// The other way around: stored without, queried with.
	res, err = svc.resolveForm(context.Background(), callReq("resolve_form", map[string]any{
		"enketo_url": "https://ee.example.org/cs/",
	}))
	if err != nil {
		t.Fatalf("resolve_form: %v", err)
	}
	decodeResult(t, res, &resolved)
	if resolved["uid"] != "aCensus2" {
		t.Fatalf("resolved = %v", resolved)
	}
}

func TestResolveFormNotFound(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(fakeAssetList))

	res, err := svc.resolveForm(context.Background(), callReq("resolve_form", map[string]any{
		"enketo_url": "https://ee.example.org/unknown",
	}))
	if err != nil {
		t.Fatalf("resolve_form: %v", err)
	}
	var payload map[string]string
	decodeResult(t, res, &payload)
	if !strings.Contains(payload["error"], "https://ee.example.org/unknown") {
		t.Fatalf("payload = %v", payload)
	}
}
