package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAPIClient_Do(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/snapshots":
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected json content type, got %q", ct)
			}
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "1", "name": body["name"]})
		case r.URL.Path == "/v1/snapshots/missing/restore":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"snapshot not found"}`))
		case r.URL.Path == "/v1/alerts":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer server.Close()

	c := newAPIClient(server.URL + "/")
	ctx := context.Background()

	var snap struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := c.do(ctx, "POST", "/v1/snapshots", map[string]string{"name": "nightly"}, &snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.ID != "1" || snap.Name != "nightly" {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	err := c.do(ctx, "POST", "/v1/snapshots/missing/restore", nil, &snap)
	if err == nil || !strings.Contains(err.Error(), "snapshot not found") {
		t.Errorf("expected API error message, got %v", err)
	}

	if err := c.do(ctx, "DELETE", "/v1/alerts", nil, &snap); err != nil {
		t.Errorf("expected empty 204 body to be accepted, got %v", err)
	}

	err = c.do(ctx, "GET", "/elsewhere", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "HTTP 502") {
		t.Errorf("expected status error, got %v", err)
	}
}
