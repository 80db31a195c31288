package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientGenerateRequestShape(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "hello"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "llama3")
	out, err := c.Generate(context.Background(), "say hello")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "hello" {
		t.Fatalf("response = %q", out)
	}
	if got.Model != "llama3" || got.Prompt != "say hello" || got.Stream {
		t.Fatalf("unexpected request: %+v", got)
	}
	if got.Options.Temperature != 0.1 || got.Options.TopP != 0.9 {
		t.Fatalf("unexpected options: %+v", got.Options)
	}
}

func TestAskDegradesFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	out := Ask(context.Background(), NewClient(srv.URL, "llama3"), "anything")
	if out == "" {
		t.Fatalf("expected a descriptive string, got empty")
	}
	if m := ParseObject(out); len(m) != 0 {
		t.Fatalf("error string should parse to empty mapping, got %v", m)
	}
}
