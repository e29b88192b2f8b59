package routing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestHTTPCallRouter_Route(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/route-call" {
			t.Errorf("Expected path /route-call, got %s", r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req["transcript"] != "there is a fire" {
			t.Errorf("Unexpected transcript: %q", req["transcript"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"forwarded_to":"Fire Department"}`))
	}))
	defer server.Close()

	// Trailing slash must not produce a double-slash path.
	adapter, err := NewHTTPCallRouter(HTTPConfig{BaseURL: server.URL + "/"}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewHTTPCallRouter failed: %v", err)
	}

	department, err := adapter.Route(context.Background(), "there is a fire")
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if department != "Fire Department" {
		t.Errorf("Expected 'Fire Department', got %q", department)
	}
}

func TestHTTPCallRouter_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter, err := NewHTTPCallRouter(HTTPConfig{BaseURL: server.URL}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewHTTPCallRouter failed: %v", err)
	}

	_, err = adapter.Route(context.Background(), "hello")
	if err == nil {
		t.Fatal("Expected an error for a non-success response")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("Error should carry the status code, got: %v", err)
	}
}

func TestHTTPCallRouter_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(`{"forwarded_to":"too late"}`))
	}))
	defer server.Close()

	adapter, err := NewHTTPCallRouter(HTTPConfig{
		BaseURL: server.URL,
		Timeout: 50 * time.Millisecond,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewHTTPCallRouter failed: %v", err)
	}

	if _, err := adapter.Route(context.Background(), "hello"); err == nil {
		t.Fatal("Expected a timeout error")
	}
}

func TestValidateHTTPConfig_MissingBaseURL(t *testing.T) {
	if err := ValidateHTTPConfig(HTTPConfig{}); err == nil {
		t.Error("Expected an error for missing base URL")
	}
}
