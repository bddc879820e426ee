package llm

import (
	"context"
	"testing"

	"github.com/jonathan/profile-consolidator/internal/errs"
)

func TestNew_UnknownProvider(t *testing.T) {
	names := []string{"claude", "mistral", "gemini2", "open-ai"}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			p, err := New(context.Background(), name, FactoryConfig{})
			if p != nil {
				t.Errorf("expected nil provider for %q", name)
			}
			if !errs.IsKind(err, errs.KindUnknownProvider) {
				t.Errorf("expected unknown provider error, got %v", err)
			}
		})
	}
}

func TestNew_CaseInsensitive(t *testing.T) {
	cfg := FactoryConfig{GeminiAPIKey: "test-key", OpenAIAPIKey: "test-key"}

	tests := []struct {
		name string
		want string
	}{
		{"gemini", ProviderGemini},
		{"GEMINI", ProviderGemini},
		{" Gemini ", ProviderGemini},
		{"openai", ProviderOpenAI},
		{"OpenAI", ProviderOpenAI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(context.Background(), tt.name, cfg)
			if err != nil {
				t.Fatalf("New(%q) returned error: %v", tt.name, err)
			}
			if p.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.want)
			}
		})
	}
}

func TestNew_MissingAPIKey(t *testing.T) {
	_, err := New(context.Background(), "gemini", FactoryConfig{})
	if !errs.IsKind(err, errs.KindInvalidArgument) {
		t.Errorf("expected invalid argument for missing gemini key, got %v", err)
	}

	_, err = New(context.Background(), "openai", FactoryConfig{})
	if !errs.IsKind(err, errs.KindInvalidArgument) {
		t.Errorf("expected invalid argument for missing openai key, got %v", err)
	}
}
