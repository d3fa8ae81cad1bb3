package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// tagsJSON builds a /api/tags response with the given model names.
func tagsJSON(names ...string) []byte {
	type entry struct {
		Name string `json:"name"`
	}
	type resp struct {
		Models []entry `json:"models"`
	}
	r := resp{}
	for _, n := range names {
		r.Models = append(r.Models, entry{Name: n})
	}
	b, _ := json.Marshal(r)
	return b
}

func TestGenerate(t *testing.T) {
	var gotBody generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Write([]byte(`{"response": "tailored summary text"}`))
	}))
	defer srv.Close()

	c := NewOllama(srv.URL, "mistral")
	out, err := c.Generate(context.Background(), "Summarize this profile")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "tailored summary text" {
		t.Errorf("response = %q", out)
	}
	if gotBody.Model != "mistral" || gotBody.Stream {
		t.Errorf("request = %+v", gotBody)
	}
	if temp, ok := gotBody.Options["temperature"].(float64); !ok || temp != 0.3 {
		t.Errorf("temperature = %v", gotBody.Options["temperature"])
	}
}

func TestGenerate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewOllama(srv.URL, "mistral")
	if _, err := c.Generate(context.Background(), "x"); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestIsRunning_Up(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(tagsJSON("mistral:latest"))
	}))
	defer srv.Close()

	c := NewOllama(srv.URL, "mistral")
	if !c.IsRunning(context.Background()) {
		t.Error("IsRunning() = false, want true")
	}
}

func TestIsRunning_Down(t *testing.T) {
	// Point at a closed server to simulate connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewOllama(srv.URL, "mistral")
	if c.IsRunning(context.Background()) {
		t.Error("IsRunning() = true, want false")
	}
}

func TestHasModel_TagSuffix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(tagsJSON("mistral:latest", "phi3.5:latest"))
	}))
	defer srv.Close()

	c := NewOllama(srv.URL, "mistral")
	if !c.HasModel(context.Background(), "mistral") {
		t.Error("HasModel(mistral) = false, want true")
	}
	if c.HasModel(context.Background(), "llama3") {
		t.Error("HasModel(llama3) = true, want false")
	}
}

func TestEnsureReady_NotRunning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewOllama(srv.URL, "mistral")
	err := c.EnsureReady(context.Background(), io.Discard)
	if err == nil {
		t.Fatal("expected error when server is down")
	}
	if !strings.Contains(err.Error(), "ollama serve") {
		t.Errorf("error should suggest starting the server: %v", err)
	}
}

func TestEnsureReady_ModelPresent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(tagsJSON("mistral:latest"))
	}))
	defer srv.Close()

	c := NewOllama(srv.URL, "mistral")
	var buf strings.Builder
	if err := c.EnsureReady(context.Background(), &buf); err != nil {
		t.Fatalf("EnsureReady: %v", err)
	}
	if !strings.Contains(buf.String(), "ready") {
		t.Errorf("output = %q", buf.String())
	}
}
