package llm

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/profile-consolidator/internal/errs"
)

// defaultGeminiModel is used when no model is configured.
const defaultGeminiModel = "gemini-2.5-flash"

// defaultGeminiMaxTokens bounds completions when no budget is configured.
const defaultGeminiMaxTokens = 4096

// GeminiProvider implements Provider for Google Gemini.
type GeminiProvider struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

// NewGeminiProvider creates a Gemini-backed provider.
func NewGeminiProvider(ctx context.Context, cfg FactoryConfig) (*GeminiProvider, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, errs.InvalidArgument("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, errs.ExternalService(err, "failed to create Gemini client")
	}

	model := cfg.GeminiModel
	if model == "" {
		model = defaultGeminiModel
	}
	maxTokens := int32(cfg.MaxOutputTokens)
	if maxTokens <= 0 {
		maxTokens = defaultGeminiMaxTokens
	}

	return &GeminiProvider{client: client, model: model, maxTokens: maxTokens}, nil
}

// Name identifies the backend.
func (p *GeminiProvider) Name() string {
	return ProviderGemini
}

// Call sends the prompt as a single user message and returns the joined text
// parts of the first candidate. A caller-supplied deadline on ctx turns a hung
// call into an external-service error instead of leaving it pending.
func (p *GeminiProvider) Call(ctx context.Context, prompt string) (string, error) {
	model := p.client.GenerativeModel(p.model)
	model.SetTemperature(0.1) // Low temperature for consistent structured output
	model.SetMaxOutputTokens(p.maxTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", errs.ExternalService(err, "gemini generation failed")
	}

	return geminiResponseText(resp)
}

// Close releases the underlying client.
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// geminiResponseText extracts text from a Gemini API response.
func geminiResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", errs.ExternalService(nil, "no candidates in gemini response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errs.ExternalService(nil, "no content in gemini response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", errs.ExternalService(nil, "no text parts in gemini response")
	}

	return strings.Join(parts, ""), nil
}
