package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func geminiStub(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"parts": [{"text": "` + text + `"}]}}],
			"usageMetadata": {"promptTokenCount": 3, "candidatesTokenCount": 2, "totalTokenCount": 5}
		}`))
	}))
}

func TestNewGeminiEngineInitializesClient(t *testing.T) {
	e := NewGeminiEngine("key", "", "")
	if e.Client == nil {
		t.Fatalf("expected HTTP client to be set at construction")
	}
	if e.BaseURL == "" || e.Model == "" {
		t.Fatalf("expected defaults applied, got %+v", e)
	}
}

func TestGeminiGenerate(t *testing.T) {
	srv := geminiStub(t, "hello")
	defer srv.Close()

	e := NewGeminiEngine("key", srv.URL, "gemini-2.0-flash")
	res, err := e.Generate(context.Background(), "prompt", Params{Temperature: 0.1, MaxTokens: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Content != "hello" || res.Provider != "gemini" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Usage.TotalTokens != 5 {
		t.Fatalf("expected usage mapped, got %+v", res.Usage)
	}
}

func TestGeminiConcurrentAvailability(t *testing.T) {
	srv := geminiStub(t, "ok")
	defer srv.Close()

	e := NewGeminiEngine("key", srv.URL, "gemini-2.0-flash")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !e.Available(context.Background()) {
				t.Error("expected engine to be available")
			}
		}()
	}
	wg.Wait()
}
