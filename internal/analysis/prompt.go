package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/reviewlens/reviewlens/internal/logging"
	"github.com/reviewlens/reviewlens/internal/review"
)

const truncationMarker = "[NOTE: older comments were omitted to fit the input token budget]"

type promptBuilder struct {
	templates templateSet
	budget    int
	log       logging.Logger
}

func newPromptBuilder(templates templateSet, budget int, log logging.Logger) *promptBuilder {
	return &promptBuilder{templates: templates, budget: budget, log: log}
}

// build renders the prompt for one (reviewer, section) pair. When the
// rendered prompt exceeds the input token budget, the oldest comments are
// dropped first and a truncation marker is appended so both the model and
// the parser know content was elided.
func (b *promptBuilder) build(pr string, group review.Group, kind SectionKind) (Prompt, error) {
	tmpl, err := b.templates.lookup(kind)
	if err != nil {
		return Prompt{}, err
	}

	comments := group.Comments
	truncated := false

	text := b.render(tmpl, pr, group.Reviewer, comments, false)
	for b.budget > 0 && estimateTokens(text) > b.budget && len(comments) > 1 {
		comments = comments[1:]
		truncated = true
		text = b.render(tmpl, pr, group.Reviewer, comments, truncated)
	}

	// A single oversized comment still has to fit: trim its tail by the
	// chars-per-token approximation rather than dropping it entirely.
	if b.budget > 0 && estimateTokens(text) > b.budget && len(comments) == 1 {
		trimmed := comments[0]
		maxChars := b.budget * approxCharsPerToken / 2
		if len(trimmed.Content) > maxChars {
			cut := maxChars
			for cut > 0 && !utf8.RuneStart(trimmed.Content[cut]) {
				cut--
			}
			trimmed.Content = trimmed.Content[:cut]
			truncated = true
			text = b.render(tmpl, pr, group.Reviewer, []review.Comment{trimmed}, truncated)
		}
	}

	if truncated {
		b.log.Debug("prompt truncated to fit budget",
			"reviewer", group.Reviewer,
			"section", string(kind),
			"comments_kept", len(comments),
			"comments_total", len(group.Comments),
		)
	}

	return Prompt{Reviewer: group.Reviewer, Kind: kind, Text: text, Truncated: truncated}, nil
}

func (b *promptBuilder) render(tmpl, pr, reviewer string, comments []review.Comment, truncated bool) string {
	prompt := strings.ReplaceAll(tmpl, "{{.PR}}", pr)
	prompt = strings.ReplaceAll(prompt, "{{.Reviewer}}", reviewer)
	prompt = strings.ReplaceAll(prompt, "{{.Comments}}", formatComments(comments))
	if truncated {
		prompt += "\n\n" + truncationMarker
	}
	return prompt
}

func formatComments(comments []review.Comment) string {
	var sb strings.Builder
	for i, comment := range comments {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		if comment.FilePath != "" {
			fmt.Fprintf(&sb, "[%s] (%s)\n", comment.Timestamp, comment.FilePath)
		} else {
			fmt.Fprintf(&sb, "[%s]\n", comment.Timestamp)
		}
		sb.WriteString(strings.TrimSpace(comment.Content))
	}
	return sb.String()
}
