package consolidation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/profile-consolidator/internal/prompts"
	"github.com/jonathan/profile-consolidator/internal/types"
)

// BuildPrompt constructs the deterministic consolidation prompt: a short
// counts-summary of which sources are present, the full aggregate serialized
// for context, and the fixed instruction block naming the 8 profile sections.
func BuildPrompt(agg *types.RawAggregate) (string, error) {
	aggJSON, err := json.MarshalIndent(agg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize aggregate: %w", err)
	}

	template := prompts.MustGet("consolidation.json", "consolidate-profile")
	return prompts.Format(template, map[string]string{
		"SourceSummary": sourceSummary(agg),
		"AggregateJSON": string(aggJSON),
	}), nil
}

// sourceSummary lists each source with its record count, present sources first.
func sourceSummary(agg *types.RawAggregate) string {
	var sb strings.Builder
	for _, sc := range agg.SourceCounts() {
		if sc.Count == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("- %s: %d record(s)\n", sc.Source, sc.Count))
	}
	if sb.Len() == 0 {
		return "- (none)\n"
	}
	return sb.String()
}
