// Package llm provides the text-generation provider abstraction used by the
// consolidation strategy, with adapters for Gemini and OpenAI selected through
// a closed, name-based factory.
package llm

import (
	"context"
	"strings"

	"github.com/jonathan/profile-consolidator/internal/errs"
)

// Provider is an interchangeable backend that turns a text prompt into a text
// completion. Implementations wrap exactly one external service; network
// failures surface as errs.KindExternalService and are never retried here;
// retry policy belongs to the caller.
type Provider interface {
	// Call sends the prompt and returns the raw completion text.
	Call(ctx context.Context, prompt string) (string, error)
	// Name identifies the backend, e.g. "gemini" or "openai".
	Name() string
}

// Provider names accepted by the factory.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// FactoryConfig carries the credentials and budgets the factory needs to
// construct a provider. Zero-value model fields fall back to per-provider
// defaults.
type FactoryConfig struct {
	GeminiAPIKey string
	GeminiModel  string

	OpenAIAPIKey string
	OpenAIModel  string

	// MaxOutputTokens bounds each completion; 0 uses the provider default.
	MaxOutputTokens int
}

// New returns the provider matching name (case-insensitive). Any name outside
// the two-entry allow-list fails with errs.KindUnknownProvider.
func New(ctx context.Context, name string, cfg FactoryConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProviderGemini:
		return NewGeminiProvider(ctx, cfg)
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg)
	default:
		return nil, errs.UnknownProvider(name)
	}
}
