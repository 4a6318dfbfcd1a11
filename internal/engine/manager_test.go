package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type fakeEngine struct {
	name      string
	available bool
	content   string
	err       error
	calls     int
}

func (f *fakeEngine) Name() string                     { return f.name }
func (f *fakeEngine) Available(_ context.Context) bool { return f.available }

func (f *fakeEngine) Generate(_ context.Context, _ string, _ Params) (Result, error) {
	f.calls++
	if f.err != nil {
		return Result{}, f.err
	}
	return Result{Content: f.content, Provider: f.name}, nil
}

func TestGenerateResponseUsesPreferredProvider(t *testing.T) {
	a := &fakeEngine{name: "openai", available: true, content: "from-openai"}
	b := &fakeEngine{name: "groq", available: true, content: "from-groq"}
	m := NewManager("openai", zerolog.Nop(), a, b)

	res, err := m.GenerateResponse(context.Background(), "prompt", "groq", Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Provider != "groq" {
		t.Fatalf("expected groq, got %s", res.Provider)
	}
	if a.calls != 0 {
		t.Fatalf("default provider should not be called when another is requested")
	}
}

func TestGenerateResponseFallsBackInRegistrationOrder(t *testing.T) {
	a := &fakeEngine{name: "openai", available: false}
	b := &fakeEngine{name: "groq", available: true, content: "from-groq"}
	c := &fakeEngine{name: "gemini", available: true, content: "from-gemini"}
	m := NewManager("openai", zerolog.Nop(), a, b, c)

	res, err := m.GenerateResponse(context.Background(), "prompt", "", Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Provider != "groq" {
		t.Fatalf("expected first fallback in registration order, got %s", res.Provider)
	}
	if c.calls != 0 {
		t.Fatalf("later fallback should not be tried after a success")
	}
}

func TestGenerateResponseFallsBackOnGenerateError(t *testing.T) {
	a := &fakeEngine{name: "openai", available: true, err: errors.New("rate limited")}
	b := &fakeEngine{name: "groq", available: true, content: "from-groq"}
	m := NewManager("openai", zerolog.Nop(), a, b)

	res, err := m.GenerateResponse(context.Background(), "prompt", "", Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Provider != "groq" {
		t.Fatalf("expected fallback after primary failure, got %s", res.Provider)
	}
}

func TestGenerateResponseAllUnavailable(t *testing.T) {
	a := &fakeEngine{name: "openai", available: false}
	b := &fakeEngine{name: "groq", available: false}
	m := NewManager("openai", zerolog.Nop(), a, b)

	_, err := m.GenerateResponse(context.Background(), "prompt", "", Params{})
	if !errors.Is(err, ErrAllProvidersUnavailable) {
		t.Fatalf("expected ErrAllProvidersUnavailable, got %v", err)
	}
}

func TestGenerateResponseNoEngines(t *testing.T) {
	m := NewManager("openai", zerolog.Nop())
	_, err := m.GenerateResponse(context.Background(), "prompt", "", Params{})
	if !errors.Is(err, ErrAllProvidersUnavailable) {
		t.Fatalf("expected ErrAllProvidersUnavailable, got %v", err)
	}
}

func TestProvidersKeepsRegistrationOrder(t *testing.T) {
	m := NewManager("openai", zerolog.Nop(),
		&fakeEngine{name: "openai"},
		&fakeEngine{name: "groq"},
		&fakeEngine{name: "gemini"},
	)
	got := m.Providers()
	want := []string{"openai", "groq", "gemini"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestMockEngineDeterministic(t *testing.T) {
	m := MockEngine{ModelVersion: "mock-v1"}
	first, err := m.Generate(context.Background(), `prompt with "caseType" contract`, Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := m.Generate(context.Background(), `prompt with "caseType" contract`, Params{})
	if first.Content != second.Content {
		t.Fatalf("mock output should be deterministic for the same prompt")
	}
}
