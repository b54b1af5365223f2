package tools

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kobohub/kobohub/internal/kobo"
)

// newTestService wires a Service against a fake KoboToolbox API, with the
// poll interval shrunk so lifecycle tests complete instantly.
func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(kobo.NewClient(ts.URL, "test-token", logger), logger)
	svc.pollInterval = time.Millisecond
	return svc
}

func callReq(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", res.Content[0])
	}
	return tc.Text
}

// decodeResult parses a JSON tool result into out, failing the test on a
// transport-level error result.
func decodeResult(t *testing.T, res *mcp.CallToolResult, out any) {
	t.Helper()
	text := resultText(t, res)
	if res.IsError {
		t.Fatalf("unexpected error result: %s", text)
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		t.Fatalf("decode result %q: %v", text, err)
	}
}
