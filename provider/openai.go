package provider

import (
	"context"

	"github.com/ZaguanLabs/salin"
	"github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is the chat model used when none is configured.
const DefaultOpenAIModel = "gpt-4.1"

// OpenAIProvider implements RemoteTranslator using OpenAI's chat API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // Model to use (default: "gpt-4.1")
	Temperature float32 // Temperature for generation (default: model default)
	BaseURL     string  // Custom base URL (optional)
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: cfg.Temperature,
	}
}

// Model returns the configured model name.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Translate sends the phrase as the user message with the memory-grounded
// system prompt and returns the trimmed reply.
func (p *OpenAIProvider) Translate(ctx context.Context, req RemoteRequest) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: BuildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: req.Phrase},
		},
		Temperature: p.temperature,
	})
	if err != nil {
		return "", &salin.ServiceError{
			Op:      "openai",
			Message: "chat completion failed",
			Cause:   err,
		}
	}

	if len(resp.Choices) == 0 {
		return "", &salin.ServiceError{Op: "openai", Message: "no choices in response"}
	}

	return cleanReply("openai", resp.Choices[0].Message.Content)
}

// Verify OpenAIProvider implements RemoteTranslator
var _ RemoteTranslator = (*OpenAIProvider)(nil)
