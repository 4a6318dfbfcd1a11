package engine

import (
	"context"
	"errors"
)

// SystemPrompt frames every generation request; the services append the
// task-specific contract to the user prompt.
const SystemPrompt = "You are a legal intake assistant for an Online Dispute Resolution platform in India. Return ONLY valid JSON responses."

var ErrAllProvidersUnavailable = errors.New("all AI providers are unavailable")

type Params struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type Result struct {
	Content  string `json:"content"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Usage    Usage  `json:"usage"`
}

// Engine is the capability wrapper around one external text-generation
// provider. Generate propagates transport and provider errors unchanged;
// retries and fallback belong exclusively to the Manager. Available performs
// a minimal live probe and reports failure as false, never as an error.
type Engine interface {
	Name() string
	Generate(ctx context.Context, prompt string, p Params) (Result, error)
	Available(ctx context.Context) bool
}
