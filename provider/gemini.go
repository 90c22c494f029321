package provider

import (
	"context"

	"github.com/ZaguanLabs/salin"
	"google.golang.org/genai"
)

// DefaultGeminiModel is the Gemini model used when none is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// generator is the slice of the genai client the provider uses.
type generator interface {
	generate(ctx context.Context, model, system, message string) (string, error)
}

type genaiGenerator struct {
	client *genai.Client
}

func (g *genaiGenerator) generate(ctx context.Context, model, system, message string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(message), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// GeminiProvider implements RemoteTranslator using the Gemini API.
type GeminiProvider struct {
	gen   generator
	model string
}

// GeminiConfig holds configuration for the Gemini provider.
type GeminiConfig struct {
	APIKey  string // Gemini API key
	Model   string // Model to use (default: "gemini-2.0-flash")
	BaseURL string // Custom base URL (optional)
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, &salin.ServiceError{Op: "gemini", Message: "creating client", Cause: err}
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	return &GeminiProvider{gen: &genaiGenerator{client: client}, model: model}, nil
}

// Model returns the configured model name.
func (p *GeminiProvider) Model() string {
	return p.model
}

// Translate implements RemoteTranslator.
func (p *GeminiProvider) Translate(ctx context.Context, req RemoteRequest) (string, error) {
	text, err := p.gen.generate(ctx, p.model, BuildSystemPrompt(req), req.Phrase)
	if err != nil {
		return "", &salin.ServiceError{
			Op:      "gemini",
			Message: "generate content failed",
			Cause:   err,
		}
	}

	return cleanReply("gemini", text)
}

// Verify GeminiProvider implements RemoteTranslator
var _ RemoteTranslator = (*GeminiProvider)(nil)
