package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPClientGenerate(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("missing bearer token")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"traits\":[]}"}}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", "secret", "test-model", nil)
	out, err := c.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"traits":[]}` {
		t.Fatalf("unexpected content: %q", out)
	}
	if got.Model != "test-model" || len(got.Messages) != 1 || got.Messages[0].Content != "hello" {
		t.Fatalf("unexpected request: %+v", got)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Fatalf("expected json response format")
	}
}

func TestHTTPClientErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"status http", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, "status=429"},
		{"error en payload", http.StatusOK, `{"error":{"message":"bad model"}}`, "bad model"},
		{"sin choices", http.StatusOK, `{"choices":[]}`, "empty response"},
		{"json invalido", http.StatusOK, `not json`, "unmarshal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPClient(srv.URL, "k", "m", nil).Generate(context.Background(), "x")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestOllamaClientGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["model"] != "llama3.1" || req["format"] != "json" {
			t.Errorf("unexpected request: %v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"llama3.1","response":"{\"traits\":[]}","done":true}`))
	}))
	defer srv.Close()

	c, err := NewOllamaClient(srv.URL, "llama3.1", nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	out, err := c.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"traits":[]}` {
		t.Fatalf("unexpected content: %q", out)
	}
}

func TestMockClient(t *testing.T) {
	var c LLMClient = &MockClient{Response: "ok"}
	out, err := c.Generate(context.Background(), "x")
	if err != nil || out != "ok" {
		t.Fatalf("unexpected mock result: %q %v", out, err)
	}
}
