package engine

import openai "github.com/sashabaranov/go-openai"

const groqDefaultBaseURL = "https://api.groq.com/openai/v1"

// NewGroqEngine talks to Groq's OpenAI-compatible endpoint.
func NewGroqEngine(apiKey, baseURL, model string) Engine {
	if baseURL == "" {
		baseURL = groqDefaultBaseURL
	}
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &openAICompat{name: "groq", client: openai.NewClientWithConfig(cfg), model: model}
}
