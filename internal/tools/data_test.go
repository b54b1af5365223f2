package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/kobohub/kobohub/internal/kobo"
)

func TestGetSubmissionsPassthrough(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/assets/aForm/data/" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("limit") != "5" || q.Get("start") != "10" {
			t.Fatalf("pagination = limit %q start %q", q.Get("limit"), q.Get("start"))
		}
		if q.Get("query") != `{"region":"north"}` {
			t.Fatalf("query = %q, want the filter verbatim", q.Get("query"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"count": 2,
			"results": []map[string]any{
				{"_id": 1, "region": "north"},
				{"_id": 2, "region": "north"},
			},
		})
	}))

	res, err := svc.getSubmissions(context.Background(), callReq("get_submissions", map[string]any{
		"form_uid": "aForm",
		"limit":    5,
		"start":    10,
		"query":    `{"region":"north"}`,
	}))
	if err != nil {
		t.Fatalf("get_submissions: %v", err)
	}

	var page struct {
		Count   int               `json:"count"`
		Results []json.RawMessage `json:"results"`
	}
	decodeResult(t, res, &page)
	if page.Count != 2 || len(page.Results) != 2 {
		t.Fatalf("page = count %d, %d results", page.Count, len(page.Results))
	}
}

func TestGetSubmissionsEmptyResults(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"count": 0})
	}))

	res, err := svc.getSubmissions(context.Background(), callReq("get_submissions", map[string]any{
		"form_uid": "aForm",
	}))
	if err != nil {
		t.Fatalf("get_submissions: %v", err)
	}

	text := resultText(t, res)
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		t.Fatalf("decode %q: %v", text, err)
	}
	if string(raw["results"]) != "[]" {
		t.Fatalf("results = %s, want an empty array, not null", raw["results"])
	}
}

func TestExportFormWritesFile(t *testing.T) {
	xlsx := []byte("binary form definition")
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/assets/aForm/":
			json.NewEncoder(w).Encode(kobo.Asset{UID: "aForm", Name: "Census North"})
		case "/api/v2/assets/aForm.xls":
			w.Write(xlsx)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	outPath := filepath.Join(t.TempDir(), "nested", "dir", "census.xlsx")
	res, err := svc.exportForm(context.Background(), callReq("export_form", map[string]any{
		"form_uid":    "aForm",
		"output_path": outPath,
	}))
	if err != nil {
		t.Fatalf("export_form: %v", err)
	}

	var out map[string]any
	decodeResult(t, res, &out)
	if out["uid"] != "aForm" || out["name"] != "Census North" {
		t.Fatalf("result = %v", out)
	}
	if out["bytes_written"] != float64(len(xlsx)) {
		t.Fatalf("bytes_written = %v, want %d", out["bytes_written"], len(xlsx))
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read exported file: %v", err)
	}
	if string(got) != string(xlsx) {
		t.Fatalf("file contents = %q", got)
	}
}

func TestExportDataComplete(t *testing.T) {
	var polls atomic.Int64
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v2/assets/aForm/exports/":
			var settings kobo.ExportSettings
			if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
				t.Fatalf("decode settings: %v", err)
			}
			if settings.GroupSep != "/" || settings.MultipleSelect != "both" || !settings.FieldsFromAllVersions {
				t.Fatalf("settings = %+v", settings)
			}
			if settings.Type != "xls" {
				t.Fatalf("type = %q", settings.Type)
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(kobo.ExportTask{UID: "exp1", Status: "created"})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v2/assets/aForm/exports/exp1/":
			if polls.Add(1) < 2 {
				json.NewEncoder(w).Encode(kobo.ExportTask{UID: "exp1", Status: "processing"})
				return
			}
			json.NewEncoder(w).Encode(kobo.ExportTask{
				UID:    "exp1",
				Status: "complete",
				Result: "https://kf.example.org/exports/exp1.xlsx",
			})
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))

	res, err := svc.exportData(context.Background(), callReq("export_data", map[string]any{
		"form_uid":    "aForm",
		"export_type": "xls",
	}))
	if err != nil {
		t.Fatalf("export_data: %v", err)
	}

	var out map[string]string
	decodeResult(t, res, &out)
	if out["status"] != "complete" || out["type"] != "xls" {
		t.Fatalf("result = %v", out)
	}
	if out["download_url"] != "https://kf.example.org/exports/exp1.xlsx" {
		t.Fatalf("download_url = %q", out["download_url"])
	}
}

func TestExportDataPending(t *testing.T) {
	var polls atomic.Int64
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v2/assets/aForm/exports/":
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(kobo.ExportTask{UID: "exp1", Status: "created"})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v2/assets/aForm/exports/exp1/":
			polls.Add(1)
			json.NewEncoder(w).Encode(kobo.ExportTask{UID: "exp1", Status: "processing"})
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))

	res, err := svc.exportData(context.Background(), callReq("export_data", map[string]any{
		"form_uid": "aForm",
	}))
	if err != nil {
		t.Fatalf("export_data: %v", err)
	}

	var out map[string]string
	decodeResult(t, res, &out)
	if out["status"] != "pending" {
		t.Fatalf("status = %q", out["status"])
	}
	if out["message"] != "Export is still processing. Try again later." {
		t.Fatalf("message = %q", out["message"])
	}
	if got := polls.Load(); got != kobo.ExportPollLimit {
		t.Fatalf("export polled %d times, want ceiling %d", got, kobo.ExportPollLimit)
	}
}
