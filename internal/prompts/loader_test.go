package prompts

import (
	"strings"
	"testing"
)

func TestGet_ConsolidationPrompt(t *testing.T) {
	prompt, err := Get("consolidation.json", "consolidate-profile")
	if err != nil {
		t.Fatalf("Get() returned error: %v", err)
	}
	if prompt == "" {
		t.Fatal("Get() returned empty prompt")
	}

	// The template must carry both placeholders and name every profile section.
	for _, want := range []string{
		"{{.SourceSummary}}",
		"{{.AggregateJSON}}",
		"personality_traits",
		"social_style",
		"motivations_goals",
		"skills_identity",
		"lifestyle_rhythm",
		"conversation_preferences",
		"behavioral_history",
		"agent_persona",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("consolidation.json", "nonexistent-key")
	if err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestGet_UnknownFile(t *testing.T) {
	_, err := Get("missing.json", "any")
	if err == nil {
		t.Error("expected error for unknown file")
	}
}

func TestMustGet_PanicsOnMissing(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected MustGet to panic")
		}
	}()
	MustGet("consolidation.json", "nonexistent-key")
}

func TestFormat(t *testing.T) {
	template := "Sources:\n{{.SourceSummary}}\nData: {{.AggregateJSON}}"
	result := Format(template, map[string]string{
		"SourceSummary": "- resume: 1 record(s)",
		"AggregateJSON": `{"resume":{}}`,
	})

	if strings.Contains(result, "{{.") {
		t.Errorf("unreplaced placeholder in %q", result)
	}
	if !strings.Contains(result, "- resume: 1 record(s)") {
		t.Errorf("summary not substituted: %q", result)
	}
}

func TestFormat_MissingKeyLeftVerbatim(t *testing.T) {
	result := Format("value: {{.Unknown}}", map[string]string{"Other": "x"})
	if result != "value: {{.Unknown}}" {
		t.Errorf("Format() = %q", result)
	}
}
