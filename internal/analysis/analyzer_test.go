package analysis

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-logr/logr"

	"github.com/reviewlens/reviewlens/internal/logging"
	"github.com/reviewlens/reviewlens/internal/review"
)

func testAnalyzer(generate func(ctx context.Context, prompt string) (string, error)) *Analyzer {
	log := logging.New(logr.Discard())
	return &Analyzer{
		cfg:      Config{Concurrency: 4},
		log:      log,
		prompts:  newPromptBuilder(defaultTemplates(), 0, log),
		retry:    testPolicy(1),
		generate: generate,
	}
}

func preparedFor(reviewers ...string) review.Prepared {
	p := review.Prepared{Groups: map[string]review.Group{}}
	for _, r := range reviewers {
		p.Order = append(p.Order, r)
		p.Groups[r] = review.Group{
			Reviewer: r,
			Comments: []review.Comment{
				{Author: r, Content: "please add a nil check here", Timestamp: "2024-05-01T10:00:00Z"},
			},
		}
	}
	return p
}

func TestAnalyzeKeepsFirstSeenReviewerOrder(t *testing.T) {
	// bob's calls are slower than carol's, so carol's tasks finish first.
	// The assembled report must still list bob before carol.
	a := testAnalyzer(func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "bob") {
			time.Sleep(10 * time.Millisecond)
		}
		return "- one concrete insight", nil
	})

	report, err := a.Analyze(context.Background(), "acme/widgets#7", preparedFor("bob", "carol"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(report.Profiles))
	}
	if report.Profiles[0].Reviewer != "bob" || report.Profiles[1].Reviewer != "carol" {
		t.Fatalf("reviewer order broken: %s, %s", report.Profiles[0].Reviewer, report.Profiles[1].Reviewer)
	}
	if report.FailedPairs != 0 {
		t.Fatalf("expected no failed pairs, got %d", report.FailedPairs)
	}
}

func TestAnalyzeEveryProfileCarriesCanonicalSections(t *testing.T) {
	a := testAnalyzer(func(context.Context, string) (string, error) {
		return "- an insight", nil
	})

	report, err := a.Analyze(context.Background(), "acme/widgets#7", preparedFor("alice"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sections := report.Profiles[0].Sections
	for i, kind := range SectionOrder {
		if sections[i].Kind != kind {
			t.Fatalf("section %d is %q, want %q", i, sections[i].Kind, kind)
		}
	}
}

func TestAnalyzeExhaustedRetriesYieldPlaceholder(t *testing.T) {
	var calls atomic.Int64
	a := testAnalyzer(func(context.Context, string) (string, error) {
		calls.Add(1)
		return "", errors.New("503 service unavailable")
	})

	report, err := a.Analyze(context.Background(), "acme/widgets#7", preparedFor("alice"))
	if err != nil {
		t.Fatalf("a failed pair must not fail the report: %v", err)
	}
	if report.FailedPairs != NumSections {
		t.Fatalf("expected %d failed pairs, got %d", NumSections, report.FailedPairs)
	}
	for _, s := range report.Profiles[0].Sections {
		if !s.Failed {
			t.Fatalf("section %q not marked failed", s.Kind)
		}
		if len(s.Bullets) != 0 {
			t.Fatalf("placeholder must carry no bullets, got %v", s.Bullets)
		}
		if s.FailureReason == "" {
			t.Fatalf("placeholder must carry a failure reason")
		}
	}
	// testPolicy(1) allows 2 attempts per pair.
	if got := calls.Load(); got != int64(2*NumSections) {
		t.Fatalf("expected %d calls, got %d", 2*NumSections, got)
	}
}

func TestAnalyzeOneFailingPairDoesNotPoisonOthers(t *testing.T) {
	a := testAnalyzer(func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "concrete follow-ups") {
			return "", errors.New("401 unauthorized")
		}
		return "- still useful", nil
	})

	report, err := a.Analyze(context.Background(), "acme/widgets#7", preparedFor("alice"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.FailedPairs == 0 || report.FailedPairs == NumSections {
		t.Fatalf("expected a partial failure, got %d failed pairs", report.FailedPairs)
	}
	if report.Profiles[0].Sections[0].Failed {
		t.Fatalf("unrelated section must survive a sibling failure")
	}
}

func TestAnalyzeEmptyInputYieldsEmptyReport(t *testing.T) {
	a := testAnalyzer(func(context.Context, string) (string, error) {
		t.Fatal("no LLM calls expected for empty input")
		return "", nil
	})

	report, err := a.Analyze(context.Background(), "acme/widgets#7", review.Prepared{Groups: map[string]review.Group{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Profiles) != 0 || report.FailedPairs != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}

func TestAnalyzeCancelledContextProducesPlaceholders(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := testAnalyzer(func(context.Context, string) (string, error) {
		return "- should never be reached", nil
	})

	report, err := a.Analyze(ctx, "acme/widgets#7", preparedFor("alice"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.FailedPairs != NumSections {
		t.Fatalf("expected all pairs failed after cancellation, got %d", report.FailedPairs)
	}
}
