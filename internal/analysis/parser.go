package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	bulletRegexp     = regexp.MustCompile(`^\s*(?:[-*]|\d+[.)])\s+(.+)$`)
	replyMarkerRegex = regexp.MustCompile(`(?i)^\**\s*suggested reply\s*:?\**\s*(.*)$`)
)

// parseSection turns raw LLM output into a SectionInsight. It never fails
// on arbitrary text: output without recognizable structure degrades to a
// single raw-text bullet with the low-confidence flag set. The only error
// is an unknown section kind, which is a programming bug, not bad output.
func parseSection(kind SectionKind, raw string) (SectionInsight, error) {
	if !kind.Valid() {
		return SectionInsight{}, fmt.Errorf("unknown section kind %q", kind)
	}

	text := stripCodeFence(strings.TrimSpace(raw))

	// Some models answer in JSON despite being asked for bullets; accept
	// an object carrying a "bullets" array before falling back to text.
	if insight, ok := parseJSONInsight(kind, text); ok {
		return insight, nil
	}

	insight := SectionInsight{Kind: kind}
	var replyLines []string
	inReply := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t")

		if kind == SectionReviewerResponse {
			if m := replyMarkerRegex.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
				inReply = true
				if rest := strings.TrimSpace(m[1]); rest != "" {
					replyLines = append(replyLines, rest)
				}
				continue
			}
		}

		if m := bulletRegexp.FindStringSubmatch(line); m != nil {
			if inReply {
				// A new bullet ends the reply block.
				inReply = false
			}
			bullet := strings.TrimSpace(m[1])
			if bullet != "" {
				insight.Bullets = append(insight.Bullets, bullet)
			}
			continue
		}

		if inReply && strings.TrimSpace(line) != "" {
			replyLines = append(replyLines, strings.TrimSpace(line))
		}
	}

	insight.Response = strings.Join(replyLines, " ")

	if len(insight.Bullets) == 0 && insight.Response == "" {
		if text == "" {
			insight.LowConfidence = true
			return insight, nil
		}
		insight.Bullets = []string{text}
		insight.LowConfidence = true
	}

	return insight, nil
}

func parseJSONInsight(kind SectionKind, text string) (SectionInsight, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return SectionInsight{}, false
	}

	candidate := text[start : end+1]
	if !gjson.Valid(candidate) {
		return SectionInsight{}, false
	}

	bullets := gjson.Get(candidate, "bullets")
	if !bullets.IsArray() {
		return SectionInsight{}, false
	}

	insight := SectionInsight{Kind: kind}
	for _, item := range bullets.Array() {
		if s := strings.TrimSpace(item.String()); s != "" {
			insight.Bullets = append(insight.Bullets, s)
		}
	}
	if kind == SectionReviewerResponse {
		insight.Response = strings.TrimSpace(gjson.Get(candidate, "response").String())
	}

	if len(insight.Bullets) == 0 && insight.Response == "" {
		return SectionInsight{}, false
	}
	return insight, true
}

// stripCodeFence removes a wrapping ``` fence that some models add around
// their whole answer.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	idx := strings.Index(trimmed, "\n")
	if idx < 0 {
		return s
	}
	inner := trimmed[idx+1:]
	if lastFence := strings.LastIndex(inner, "```"); lastFence >= 0 {
		inner = inner[:lastFence]
	}
	return strings.TrimSpace(inner)
}
