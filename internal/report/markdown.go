package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/reviewlens/reviewlens/internal/analysis"
)

// Meta is the pull request context printed in the report header.
type Meta struct {
	Slug   string
	URL    string
	Title  string
	Author string
}

// Render assembles the final Markdown document. Reviewers appear in the
// order the report carries them and every reviewer gets all five section
// headings, placeholders included, so two runs over the same input produce
// structurally identical documents.
func Render(meta Meta, rep analysis.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Review Insights: %s\n\n", meta.Slug)
	if meta.Title != "" {
		fmt.Fprintf(&b, "**Pull request:** %s", meta.Title)
		if meta.Author != "" {
			fmt.Fprintf(&b, " (by @%s)", meta.Author)
		}
		b.WriteString("\n")
	}
	if meta.URL != "" {
		fmt.Fprintf(&b, "**URL:** %s\n", meta.URL)
	}
	fmt.Fprintf(&b, "**Generated:** %s\n", rep.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "**Reviewers analyzed:** %d\n", len(rep.Profiles))
	if rep.FailedPairs > 0 {
		fmt.Fprintf(&b, "**Sections that could not be analyzed:** %d\n", rep.FailedPairs)
	}
	b.WriteString("\n")

	if len(rep.Profiles) == 0 {
		b.WriteString("No human review comments were found on this pull request.\n")
		return b.String()
	}

	for _, profile := range rep.Profiles {
		fmt.Fprintf(&b, "## Reviewer: %s\n\n", profile.Reviewer)
		for _, section := range profile.Sections {
			renderSection(&b, section)
		}
	}
	return b.String()
}

func renderSection(b *strings.Builder, s analysis.SectionInsight) {
	fmt.Fprintf(b, "### %s\n\n", s.Kind.Title())

	if s.Failed {
		fmt.Fprintf(b, "_Analysis unavailable for this section: %s._\n\n", s.FailureReason)
		return
	}

	if s.LowConfidence {
		b.WriteString("_The model response had no recognizable structure; shown as-is._\n\n")
	}

	if len(s.Bullets) == 0 && s.Response == "" {
		b.WriteString("_No insights extracted._\n\n")
		return
	}

	for _, bullet := range s.Bullets {
		fmt.Fprintf(b, "- %s\n", bullet)
	}
	if len(s.Bullets) > 0 {
		b.WriteString("\n")
	}

	if s.Kind == analysis.SectionReviewerResponse && s.Response != "" {
		b.WriteString("**Suggested reply:**\n\n")
		fmt.Fprintf(b, "> %s\n\n", s.Response)
	}
}

// Filename builds the deterministic report file name for one run:
// <repo>_pr<number>_<yyyymmdd>_review_insights.md.
func Filename(repo string, number int, generatedAt time.Time) string {
	return fmt.Sprintf("%s_pr%d_%s_review_insights.md",
		sanitize(repo), number, generatedAt.UTC().Format("20060102"))
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}

// WriteFile writes the rendered document under dir, creating the directory
// if needed, and returns the full path.
func WriteFile(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}
	return path, nil
}
