package report

import (
	"strings"
	"testing"
	"time"

	"github.com/reviewlens/reviewlens/internal/analysis"
)

func sampleReport() analysis.Report {
	var bob analysis.ReviewerProfile
	bob.Reviewer = "bob"
	for i, kind := range analysis.SectionOrder {
		bob.Sections[i] = analysis.SectionInsight{
			Kind:    kind,
			Bullets: []string{"first insight", "second insight"},
		}
	}
	bob.Sections[analysis.NumSections-1].Response = "Thanks, all addressed."

	var carol analysis.ReviewerProfile
	carol.Reviewer = "carol"
	for i, kind := range analysis.SectionOrder {
		carol.Sections[i] = analysis.SectionInsight{
			Kind:          kind,
			Failed:        true,
			FailureReason: "llm call failed after 4 attempts",
		}
	}

	return analysis.Report{
		PR:          "acme/widgets#42",
		GeneratedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Profiles:    []analysis.ReviewerProfile{bob, carol},
		FailedPairs: analysis.NumSections,
	}
}

func TestRenderEmitsAllSectionsInCanonicalOrder(t *testing.T) {
	doc := Render(Meta{Slug: "acme/widgets#42", Title: "Add retry budget", Author: "dana"}, sampleReport())

	if !strings.Contains(doc, "# Review Insights: acme/widgets#42") {
		t.Fatalf("missing header:\n%s", doc)
	}

	bobIdx := strings.Index(doc, "## Reviewer: bob")
	carolIdx := strings.Index(doc, "## Reviewer: carol")
	if bobIdx < 0 || carolIdx < 0 || bobIdx > carolIdx {
		t.Fatalf("reviewer order wrong: bob=%d carol=%d", bobIdx, carolIdx)
	}

	last := -1
	for _, kind := range analysis.SectionOrder {
		heading := "### " + kind.Title()
		idx := strings.Index(doc[bobIdx:carolIdx], heading)
		if idx < 0 {
			t.Fatalf("missing heading %q for bob", heading)
		}
		if idx < last {
			t.Fatalf("heading %q out of order", heading)
		}
		last = idx
	}
}

func TestRenderFailedSectionsGetPlaceholderText(t *testing.T) {
	doc := Render(Meta{Slug: "acme/widgets#42"}, sampleReport())

	if !strings.Contains(doc, "_Analysis unavailable for this section: llm call failed after 4 attempts._") {
		t.Fatalf("failed section placeholder missing:\n%s", doc)
	}
	if !strings.Contains(doc, "**Sections that could not be analyzed:** 5") {
		t.Fatalf("failed pair count missing from header")
	}
}

func TestRenderReplyBlockOnlyInResponseSection(t *testing.T) {
	doc := Render(Meta{Slug: "acme/widgets#42"}, sampleReport())

	if strings.Count(doc, "**Suggested reply:**") != 1 {
		t.Fatalf("expected exactly one reply block:\n%s", doc)
	}
	if !strings.Contains(doc, "> Thanks, all addressed.") {
		t.Fatalf("reply text missing")
	}
}

func TestRenderEmptyReport(t *testing.T) {
	rep := analysis.Report{PR: "acme/widgets#42", GeneratedAt: time.Now()}
	doc := Render(Meta{Slug: "acme/widgets#42"}, rep)

	if !strings.Contains(doc, "No human review comments were found") {
		t.Fatalf("empty report note missing:\n%s", doc)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	meta := Meta{Slug: "acme/widgets#42", Title: "Add retry budget"}
	rep := sampleReport()
	if Render(meta, rep) != Render(meta, rep) {
		t.Fatalf("render output differs between identical runs")
	}
}

func TestFilename(t *testing.T) {
	at := time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC)
	got := Filename("widgets", 42, at)
	if got != "widgets_pr42_20250314_review_insights.md" {
		t.Fatalf("unexpected filename %q", got)
	}

	got = Filename("weird repo/name", 7, at)
	if strings.ContainsAny(got, " /") {
		t.Fatalf("filename not sanitized: %q", got)
	}
}

func TestWriteFileCreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/output"
	path, err := WriteFile(dir, "report.md", "# hello\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(path, "nested/output/report.md") {
		t.Fatalf("unexpected path %q", path)
	}
}
