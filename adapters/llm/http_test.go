package llm

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

func TestValidateHTTPConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  HTTPConfig
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  HTTPConfig{ServiceURL: "http://llm.local/respond"},
			wantErr: false,
		},
		{
			name:    "missing service URL",
			config:  HTTPConfig{},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			config:  HTTPConfig{ServiceURL: "http://llm.local", Timeout: -time.Second},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHTTPConfig(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHTTPConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHTTPResponseGenerator_Respond(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req["input_text"] != "my house is flooding" {
			t.Errorf("Unexpected input_text: %q", req["input_text"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response_text":"Rescue teams are on their way","emotion":"panicked"}`))
	}))
	defer server.Close()

	adapter, err := NewHTTPResponseGenerator(HTTPConfig{ServiceURL: server.URL}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewHTTPResponseGenerator failed: %v", err)
	}

	response, err := adapter.Respond(context.Background(), "conn-1", "my house is flooding")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if response.ResponseText != "Rescue teams are on their way" {
		t.Errorf("Unexpected response text: %q", response.ResponseText)
	}
	if response.Emotion != "panicked" {
		t.Errorf("Expected emotion 'panicked', got %q", response.Emotion)
	}
}

func TestHTTPResponseGenerator_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	adapter, err := NewHTTPResponseGenerator(HTTPConfig{ServiceURL: server.URL}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewHTTPResponseGenerator failed: %v", err)
	}

	_, err = adapter.Respond(context.Background(), "conn-1", "hello")
	if err == nil {
		t.Fatal("Expected an error for a non-success response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("Error should carry the status code, got: %v", err)
	}
}

func TestHTTPResponseGenerator_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(`{"response_text":"too late","emotion":"calm"}`))
	}))
	defer server.Close()

	adapter, err := NewHTTPResponseGenerator(HTTPConfig{
		ServiceURL: server.URL,
		Timeout:    50 * time.Millisecond,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewHTTPResponseGenerator failed: %v", err)
	}

	if _, err := adapter.Respond(context.Background(), "conn-1", "hello"); err == nil {
		t.Fatal("Expected a timeout error")
	}
}
