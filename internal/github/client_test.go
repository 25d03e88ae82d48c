package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-logr/logr"

	"github.com/reviewlens/reviewlens/internal/logging"
)

func TestRateLimitQueriesConfiguredEndpoint(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/rate_limit" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"resources":{"core":{"limit":5000,"remaining":4993,"reset":1735689600}}}`))
	}))
	defer ts.Close()

	client, err := NewClient("", ts.URL+"/api/v3/", logging.New(logr.Discard()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	remaining, limit, err := client.RateLimit(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remaining != 4993 || limit != 5000 {
		t.Fatalf("got remaining=%d limit=%d, want 4993/5000", remaining, limit)
	}
}

func TestRateLimitReportsUnreachableEndpoint(t *testing.T) {
	client, err := NewClient("", "http://127.0.0.1:1/api/v3/", logging.New(logr.Discard()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := client.RateLimit(context.Background()); err == nil {
		t.Fatalf("expected error for unreachable endpoint")
	}
}
