package analysis

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reviewlens/reviewlens/internal/logging"
	"github.com/reviewlens/reviewlens/internal/review"
)

// Analyzer runs the per-reviewer, per-section analysis pipeline: prompt
// rendering, the retried LLM call, and tolerant response parsing. Each
// (reviewer, section) pair is an independent task; a failed pair degrades
// to a placeholder section and never aborts the rest of the report.
type Analyzer struct {
	cfg     Config
	log     logging.Logger
	prompts *promptBuilder
	retry   RetryPolicy

	// generate issues one LLM call. Swapped out in tests.
	generate func(ctx context.Context, prompt string) (string, error)
}

func New(cfg Config) (*Analyzer, error) {
	log := logging.New(cfg.Logger)

	overrides, err := LoadTemplateOverrides(cfg.TemplateOverridesPath)
	if err != nil {
		return nil, err
	}
	templates := defaultTemplates().withOverrides(overrides)
	for _, kind := range SectionOrder {
		if _, err := templates.lookup(kind); err != nil {
			return nil, err
		}
	}

	client, err := newLLMClient(cfg)
	if err != nil {
		return nil, err
	}

	a := &Analyzer{
		cfg:     cfg,
		log:     log,
		prompts: newPromptBuilder(templates, cfg.MaxInputTokens, log),
		retry:   defaultRetryPolicy(cfg.RetryCount),
	}
	a.generate = func(ctx context.Context, prompt string) (string, error) {
		if cfg.CallTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.CallTimeout)
			defer cancel()
		}
		return client.generate(ctx, prompt)
	}
	return a, nil
}

// Analyze produces the full report for one PR. Dispatch is concurrent up
// to the configured limit, but reviewer order in the report always matches
// first appearance in the input and sections always follow canonical order.
func (a *Analyzer) Analyze(ctx context.Context, pr string, prepared review.Prepared) (Report, error) {
	groups := prepared.GroupsInOrder()
	a.log.Info("starting analysis",
		"pr", pr,
		"reviewers", len(groups),
		"sections", NumSections,
		"concurrency", a.cfg.Concurrency,
	)

	results := make([][NumSections]SectionInsight, len(groups))

	g := new(errgroup.Group)
	g.SetLimit(max(1, a.cfg.Concurrency))
	for ri, group := range groups {
		for si, kind := range SectionOrder {
			g.Go(func() error {
				results[ri][si] = a.analyzePair(ctx, pr, group, kind)
				return nil
			})
		}
	}
	_ = g.Wait()

	report := Report{PR: pr, GeneratedAt: time.Now().UTC()}
	for ri, group := range groups {
		profile := ReviewerProfile{Reviewer: group.Reviewer, Sections: results[ri]}
		report.FailedPairs += profile.FailedSections()
		report.Profiles = append(report.Profiles, profile)
	}

	a.log.Info("analysis complete",
		"pr", pr,
		"reviewers", len(report.Profiles),
		"failed_pairs", report.FailedPairs,
	)
	return report, nil
}

func (a *Analyzer) analyzePair(ctx context.Context, pr string, group review.Group, kind SectionKind) SectionInsight {
	if ctx.Err() != nil {
		return placeholderInsight(kind, "cancelled before dispatch")
	}

	prompt, err := a.prompts.build(pr, group, kind)
	if err != nil {
		a.log.Error(err, "prompt build failed", "reviewer", group.Reviewer, "section", string(kind))
		return placeholderInsight(kind, err.Error())
	}

	op := fmt.Sprintf("analyze %s/%s", group.Reviewer, kind)
	text, attempts, err := a.retry.Do(ctx, a.log, op, func() (string, error) {
		return a.generate(ctx, prompt.Text)
	})
	if err != nil {
		a.log.Error(err, "section analysis failed",
			"reviewer", group.Reviewer,
			"section", string(kind),
			"attempts", attempts,
		)
		return placeholderInsight(kind, err.Error())
	}

	raw := RawResponse{Reviewer: group.Reviewer, Kind: kind, Text: text, Attempts: attempts}
	insight, err := parseSection(raw.Kind, raw.Text)
	if err != nil {
		a.log.Error(err, "response parse rejected", "reviewer", group.Reviewer, "section", string(kind))
		return placeholderInsight(kind, err.Error())
	}

	a.log.Debug("section analyzed",
		"reviewer", group.Reviewer,
		"section", string(kind),
		"attempts", raw.Attempts,
		"bullets", len(insight.Bullets),
		"low_confidence", insight.LowConfidence,
	)
	return insight
}
