package review

import (
	"regexp"
	"strings"
)

// Config controls which comments survive preparation.
type Config struct {
	// BotSuffix drops any comment whose author ends with this marker.
	BotSuffix string
	// MinCommentLength drops comments shorter than this many characters
	// after trimming. Zero keeps everything.
	MinCommentLength int
	// KeepAcknowledgements keeps bare "LGTM"-style comments when true.
	KeepAcknowledgements bool
	// ExcludeAuthor drops comments by this account, normally the PR
	// creator responding to their own reviewers.
	ExcludeAuthor string
}

// Bare approvals carry no reviewable insight and only dilute the prompts.
var acknowledgementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^lgtm\.?$`),
	regexp.MustCompile(`(?i)^looks good to me\.?$`),
	regexp.MustCompile(`(?i)^approved\.?$`),
	regexp.MustCompile(`(?i)^good\.?$`),
	regexp.MustCompile(`(?i)^nice\.?$`),
	regexp.MustCompile(`^\+1\.?$`),
	regexp.MustCompile(`^:\+1:+$`),
	regexp.MustCompile(`^👍+$`),
	regexp.MustCompile(`^✅+$`),
}

// Prepare filters and groups raw comments by reviewer. Grouping is
// case-sensitive on the exact author string, relative comment order within
// a group matches the input, and reviewer order records first appearance.
// Empty input yields an empty Prepared, not an error.
func Prepare(comments []Comment, cfg Config) Prepared {
	prepared := Prepared{Groups: make(map[string]Group)}

	for _, comment := range comments {
		if dropComment(comment, cfg) {
			prepared.Dropped++
			continue
		}

		group, seen := prepared.Groups[comment.Author]
		if !seen {
			group = Group{Reviewer: comment.Author}
			prepared.Order = append(prepared.Order, comment.Author)
		}
		group.Comments = append(group.Comments, comment)
		prepared.Groups[comment.Author] = group
	}

	return prepared
}

func dropComment(comment Comment, cfg Config) bool {
	if cfg.BotSuffix != "" && strings.HasSuffix(comment.Author, cfg.BotSuffix) {
		return true
	}
	if cfg.ExcludeAuthor != "" && comment.Author == cfg.ExcludeAuthor {
		return true
	}

	content := strings.TrimSpace(comment.Content)
	if len(content) < cfg.MinCommentLength {
		return true
	}
	if !cfg.KeepAcknowledgements && isAcknowledgement(content) {
		return true
	}
	return false
}

func isAcknowledgement(content string) bool {
	for _, pattern := range acknowledgementPatterns {
		if pattern.MatchString(content) {
			return true
		}
	}
	return false
}
