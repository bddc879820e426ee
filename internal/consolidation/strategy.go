// Package consolidation turns a per-user RawAggregate into a validated Profile
// through a pluggable, LLM-backed strategy.
package consolidation

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/profile-consolidator/internal/errs"
	"github.com/jonathan/profile-consolidator/internal/llm"
	"github.com/jonathan/profile-consolidator/internal/result"
	"github.com/jonathan/profile-consolidator/internal/sanitization"
	"github.com/jonathan/profile-consolidator/internal/schemas"
	"github.com/jonathan/profile-consolidator/internal/types"
)

// Strategy is the pluggable algorithm that synthesizes a Profile from a
// RawAggregate via an LLM provider.
type Strategy interface {
	Consolidate(ctx context.Context, userID int64, agg *types.RawAggregate, provider llm.Provider) result.Result[*types.Profile]
}

// StrategyLLM is the name of the default strategy in the registry.
const StrategyLLM = "llm"

// NewStrategy returns the strategy registered under name (case-insensitive),
// or errs.KindUnknownStrategy for any other name. The registry is closed so
// misconfigured names fail deterministically at construction time.
func NewStrategy(name string, logger *zap.Logger) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyLLM, "default", "":
		return NewLLMStrategy(logger), nil
	default:
		return nil, errs.UnknownStrategy(name)
	}
}

// LLMStrategy is the default Strategy: build a deterministic prompt, call the
// provider, parse and sanitize the JSON it returns, then schema-validate.
type LLMStrategy struct {
	logger *zap.Logger
}

// NewLLMStrategy creates the default strategy.
func NewLLMStrategy(logger *zap.Logger) *LLMStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMStrategy{logger: logger}
}

// Consolidate implements Strategy. The caller's userID always overwrites any
// identity field in the model output; untrusted output never sets identity.
func (s *LLMStrategy) Consolidate(ctx context.Context, userID int64, agg *types.RawAggregate, provider llm.Provider) result.Result[*types.Profile] {
	if !agg.HasData() {
		return result.Err[*types.Profile](errs.NoDataAvailable(userID))
	}

	prompt, err := BuildPrompt(agg)
	if err != nil {
		return result.Err[*types.Profile](
			errs.Wrap(errs.KindInvalidArgument, err, "failed to build consolidation prompt"))
	}

	raw, err := provider.Call(ctx, prompt)
	if err != nil {
		if errs.KindOf(err) != errs.KindUnknown {
			return result.Err[*types.Profile](err)
		}
		return result.Err[*types.Profile](errs.ExternalService(err, "provider %s call failed", provider.Name()))
	}

	parsed, err := s.parseModelJSON(raw)
	if err != nil {
		// The raw response is logged for diagnosis but never returned to callers.
		s.logger.Error("model returned unparseable output",
			zap.Int64("user_id", userID),
			zap.String("provider", provider.Name()),
			zap.String("raw_response", raw),
		)
		return result.Err[*types.Profile](err)
	}

	cleaned, ok := sanitization.Clean(parsed).(map[string]any)
	if !ok {
		return result.Err[*types.Profile](
			errs.MalformedModelOutput(nil, "model output is not a JSON object"))
	}

	// Identity is ours, never the model's.
	cleaned["user_id"] = userID

	doc, err := json.Marshal(cleaned)
	if err != nil {
		return result.Err[*types.Profile](errs.MalformedModelOutput(err, "failed to re-encode sanitized output"))
	}

	if err := schemas.ValidateProfileJSON(doc); err != nil {
		s.logger.Error("model output failed profile schema validation",
			zap.Int64("user_id", userID),
			zap.String("provider", provider.Name()),
			zap.String("raw_response", raw),
			zap.Error(err),
		)
		return result.Err[*types.Profile](errs.SchemaValidation(err, "model output does not match profile schema"))
	}

	var profile types.Profile
	if err := json.Unmarshal(doc, &profile); err != nil {
		return result.Err[*types.Profile](errs.SchemaValidation(err, "failed to decode validated profile"))
	}
	profile.UserID = userID

	return result.Ok(&profile)
}

// parseModelJSON tries a whole-response parse first, then falls back to the
// first balanced {...} region.
func (s *LLMStrategy) parseModelJSON(raw string) (map[string]any, error) {
	text := llm.CleanJSONBlock(raw)

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return obj, nil
	}

	extracted := llm.ExtractJSONObject(text)
	if extracted == "" {
		return nil, errs.MalformedModelOutput(nil, "no JSON object found in model response")
	}
	if err := json.Unmarshal([]byte(extracted), &obj); err != nil {
		return nil, errs.MalformedModelOutput(err, "extracted JSON region does not parse")
	}
	return obj, nil
}
