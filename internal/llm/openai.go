package llm

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/jonathan/profile-consolidator/internal/errs"
)

// defaultOpenAIModel is used when no model is configured.
const defaultOpenAIModel = "gpt-4o-mini"

// defaultOpenAIMaxTokens bounds completions when no budget is configured.
const defaultOpenAIMaxTokens = 4096

// OpenAIProvider implements Provider for OpenAI chat completions.
type OpenAIProvider struct {
	client    *openai.Client
	model     string
	maxTokens int64
}

// NewOpenAIProvider creates an OpenAI-backed provider.
func NewOpenAIProvider(cfg FactoryConfig) (*OpenAIProvider, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, errs.InvalidArgument("openai API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))

	model := cfg.OpenAIModel
	if model == "" {
		model = defaultOpenAIModel
	}
	maxTokens := int64(cfg.MaxOutputTokens)
	if maxTokens <= 0 {
		maxTokens = defaultOpenAIMaxTokens
	}

	return &OpenAIProvider{client: &client, model: model, maxTokens: maxTokens}, nil
}

// Name identifies the backend.
func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

// Call sends the prompt as a single user message and returns the first
// choice's content.
func (p *OpenAIProvider) Call(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(p.maxTokens),
		Temperature:         openai.Float(0.1),
	})
	if err != nil {
		return "", errs.ExternalService(err, "openai generation failed")
	}

	if len(resp.Choices) == 0 {
		return "", errs.ExternalService(nil, "no choices in openai response")
	}
	return resp.Choices[0].Message.Content, nil
}
