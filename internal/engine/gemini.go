package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const geminiDefaultBaseURL = "https://generativelanguage.googleapis.com"

// GeminiEngine calls the generativelanguage REST API directly; Gemini has no
// system role on this endpoint, so the system prompt is prepended to the user
// prompt the way the upstream API docs suggest.
type GeminiEngine struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewGeminiEngine(apiKey, baseURL, model string) *GeminiEngine {
	if baseURL == "" {
		baseURL = geminiDefaultBaseURL
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiEngine{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Client:  &http.Client{Timeout: 45 * time.Second},
	}
}

func (e *GeminiEngine) Name() string { return "gemini" }

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

func (e *GeminiEngine) Generate(ctx context.Context, prompt string, p Params) (Result, error) {
	full := SystemPrompt + "\n\nUser: " + prompt
	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: full}}}},
		GenerationConfig: geminiGenConfig{
			Temperature:     p.Temperature,
			MaxOutputTokens: p.MaxTokens,
		},
	}
	resp, err := e.call(ctx, body)
	if err != nil {
		return Result{}, err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return Result{}, fmt.Errorf("gemini: empty response")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return Result{
		Content:  sb.String(),
		Provider: "gemini",
		Model:    e.Model,
		Usage: Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		},
	}, nil
}

func (e *GeminiEngine) Available(ctx context.Context) bool {
	body := geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: "test"}}}},
		GenerationConfig: geminiGenConfig{MaxOutputTokens: 1},
	}
	_, err := e.call(ctx, body)
	return err == nil
}

func (e *GeminiEngine) call(ctx context.Context, body geminiRequest) (geminiResponse, error) {
	b, _ := json.Marshal(body)
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(e.BaseURL, "/"), e.Model, e.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return geminiResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		return geminiResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return geminiResponse{}, fmt.Errorf("gemini http error: %s: %v", resp.Status, errBody)
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return geminiResponse{}, err
	}
	return out, nil
}
