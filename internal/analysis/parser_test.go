package analysis

import (
	"strings"
	"testing"
)

func TestParseBulletList(t *testing.T) {
	raw := `- prefer bounded queues over unbounded channels
- measure before caching
* error wrapping should preserve the original cause
3. keep transactions short`

	insight, err := parseSection(SectionCoreKnowledge, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(insight.Bullets) != 4 {
		t.Fatalf("expected 4 bullets, got %d: %v", len(insight.Bullets), insight.Bullets)
	}
	if insight.Bullets[0] != "prefer bounded queues over unbounded channels" {
		t.Fatalf("unexpected first bullet %q", insight.Bullets[0])
	}
	if insight.LowConfidence {
		t.Fatalf("structured output must not be low confidence")
	}
}

func TestParseFallbackOnUnstructuredText(t *testing.T) {
	raw := "The reviewer mostly cared about connection pooling."

	insight, err := parseSection(SectionMentoring, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(insight.Bullets) != 1 || insight.Bullets[0] != raw {
		t.Fatalf("expected single raw-text bullet, got %v", insight.Bullets)
	}
	if !insight.LowConfidence {
		t.Fatalf("fallback parse must set the low-confidence flag")
	}
}

func TestParseNeverPanicsOnArbitraryInput(t *testing.T) {
	inputs := []string{"", "```", "{{{", "\x00\x01", strings.Repeat("}", 50), "```json\nnot json\n```"}
	for _, raw := range inputs {
		if _, err := parseSection(SectionActionItems, raw); err != nil {
			t.Fatalf("parse returned error for %q: %v", raw, err)
		}
	}
}

func TestParseReviewerResponseExtractsReply(t *testing.T) {
	raw := `- acknowledge the missing nil check
- agree that the API shape is awkward

Suggested reply:
Thanks for the careful pass. You are right about the nil check; fixed in the
latest commit, and I filed a follow-up for the API shape.`

	insight, err := parseSection(SectionReviewerResponse, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(insight.Bullets) != 2 {
		t.Fatalf("expected 2 bullets, got %v", insight.Bullets)
	}
	if !strings.Contains(insight.Response, "Thanks for the careful pass") {
		t.Fatalf("reply block not extracted: %q", insight.Response)
	}
	if strings.Contains(insight.Response, "\n") {
		t.Fatalf("reply lines should be joined, got %q", insight.Response)
	}
}

func TestParseStripsWrappingCodeFence(t *testing.T) {
	raw := "```markdown\n- single insight here\n```"

	insight, err := parseSection(SectionCodeStyle, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(insight.Bullets) != 1 || insight.Bullets[0] != "single insight here" {
		t.Fatalf("fence not stripped, got %v", insight.Bullets)
	}
}

func TestParseAcceptsJSONObjectForm(t *testing.T) {
	raw := `Here is the result:
{"bullets": ["thank them for the thorough review", "confirm the fix"], "response": "Appreciate the detailed feedback, all points addressed."}`

	insight, err := parseSection(SectionReviewerResponse, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(insight.Bullets) != 2 {
		t.Fatalf("expected bullets from JSON, got %v", insight.Bullets)
	}
	if insight.Response != "Appreciate the detailed feedback, all points addressed." {
		t.Fatalf("expected response from JSON, got %q", insight.Response)
	}
	if insight.LowConfidence {
		t.Fatalf("JSON form must not be low confidence")
	}
}

func TestParseRejectsUnknownKind(t *testing.T) {
	if _, err := parseSection(SectionKind("weather_forecast"), "- sunny"); err == nil {
		t.Fatalf("expected error for unknown section kind")
	}
}
