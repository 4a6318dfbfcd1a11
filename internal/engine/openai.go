package engine

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// openAICompat serves any provider speaking the OpenAI chat-completion
// protocol. OpenAI itself and Groq differ only in base URL, default model and
// the provider label stamped on results.
type openAICompat struct {
	name   string
	client *openai.Client
	model  string
}

func NewOpenAIEngine(apiKey, baseURL, model string) Engine {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &openAICompat{name: "openai", client: openai.NewClientWithConfig(cfg), model: model}
}

func (e *openAICompat) Name() string { return e.name }

func (e *openAICompat) Generate(ctx context.Context, prompt string, p Params) (Result, error) {
	model := p.Model
	if model == "" {
		model = e.model
	}
	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Content:  resp.Choices[0].Message.Content,
		Provider: e.name,
		Model:    model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func (e *openAICompat) Available(ctx context.Context) bool {
	req := openai.ChatCompletionRequest{
		Model:     e.model,
		MaxTokens: 1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "test"},
		},
	}
	_, err := e.client.CreateChatCompletion(ctx, req)
	return err == nil
}
