package tools

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestInfoDefaultsToOverview(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("info must not touch the network, got %s %s", r.Method, r.URL.Path)
	}))

	res, err := svc.info(context.Background(), callReq("info", nil))
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if got := resultText(t, res); got != overviewHelp {
		t.Fatalf("default topic text = %q", got)
	}
}

func TestInfoTopics(t *testing.T) {
	svc := newTestService(t, http.NotFoundHandler())

	for topic, want := range infoTopics {
		res, err := svc.info(context.Background(), callReq("info", map[string]any{"topic": topic}))
		if err != nil {
			t.Fatalf("info(%s): %v", topic, err)
		}
		if got := resultText(t, res); got != want {
			t.Fatalf("topic %s text = %q", topic, got)
		}
	}
}

func TestInfoUnknownTopic(t *testing.T) {
	svc := newTestService(t, http.NotFoundHandler())

	res, err := svc.info(context.Background(), callReq("info", map[string]any{"topic": "bogus"}))
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	got := resultText(t, res)
	if !strings.Contains(got, `"bogus"`) {
		t.Fatalf("text = %q, want the bad topic echoed", got)
	}
	for _, topic := range []string{"overview", "translate", "deploy", "data"} {
		if !strings.Contains(got, topic) {
			t.Fatalf("text %q does not list topic %s", got, topic)
		}
	}
}
