package pipeline

import (
	"context"
	"time"

	"github.com/reviewlens/reviewlens/internal/analysis"
	"github.com/reviewlens/reviewlens/internal/config"
	"github.com/reviewlens/reviewlens/internal/github"
	"github.com/reviewlens/reviewlens/internal/logging"
	"github.com/reviewlens/reviewlens/internal/report"
	"github.com/reviewlens/reviewlens/internal/review"
	"github.com/reviewlens/reviewlens/internal/store"
)

// Service wires the full run: fetch review activity, prepare reviewer
// groups, analyze each (reviewer, section) pair, render Markdown, and
// optionally persist the result. Reports is nil when no database is
// configured.
type Service struct {
	Settings config.Settings
	Log      logging.Logger
	Reports  *store.ReportRepository
}

// Result is what one completed run produced.
type Result struct {
	Markdown    string
	Filename    string
	Path        string // empty when writeToDisk is false
	Reviewers   int
	Dropped     int
	FailedPairs int
}

// Run executes the whole pipeline for one pull request URL.
func (s *Service) Run(ctx context.Context, prURL string, writeToDisk bool) (Result, error) {
	ref, err := github.ParsePRURL(prURL)
	if err != nil {
		return Result{}, err
	}

	client, err := github.NewClient(s.Settings.GitHubToken, s.apiBaseURL(ref), s.Log)
	if err != nil {
		return Result{}, err
	}

	pr, err := client.FetchPR(ctx, ref)
	if err != nil {
		return Result{}, err
	}

	comments, err := client.FetchComments(ctx, ref)
	if err != nil {
		return Result{}, err
	}

	prepared := review.Prepare(comments, review.Config{
		BotSuffix:            s.Settings.BotSuffix,
		MinCommentLength:     s.Settings.MinCommentLength,
		KeepAcknowledgements: s.Settings.KeepAcknowledgements,
		ExcludeAuthor:        pr.Author,
	})
	s.Log.Info("prepared reviewer groups",
		"pr", ref.Slug(),
		"reviewers", len(prepared.Order),
		"dropped_comments", prepared.Dropped,
	)

	analyzer, err := analysis.New(analysis.Config{
		ModelName:             s.Settings.LLMModel,
		OllamaURL:             s.Settings.OllamaURL,
		Temperature:           s.Settings.Temperature,
		MaxOutputTokens:       s.Settings.MaxOutputTokens,
		RetryCount:            s.Settings.RetryCount,
		CallTimeout:           s.Settings.CallTimeout,
		MaxInputTokens:        s.Settings.MaxInputTokens,
		Concurrency:           s.Settings.Concurrency,
		TemplateOverridesPath: s.Settings.TemplateOverridesPath,
		Logger:                s.Log.Logr(),
	})
	if err != nil {
		return Result{}, err
	}

	rep, err := analyzer.Analyze(ctx, ref.Slug(), prepared)
	if err != nil {
		return Result{}, err
	}

	markdown := report.Render(report.Meta{
		Slug:   ref.Slug(),
		URL:    prURL,
		Title:  pr.Title,
		Author: pr.Author,
	}, rep)

	result := Result{
		Markdown:    markdown,
		Filename:    report.Filename(ref.Repo, ref.Number, rep.GeneratedAt),
		Reviewers:   len(rep.Profiles),
		Dropped:     prepared.Dropped,
		FailedPairs: rep.FailedPairs,
	}

	if writeToDisk {
		path, err := report.WriteFile(s.Settings.OutputDir, result.Filename, markdown)
		if err != nil {
			return Result{}, err
		}
		result.Path = path
		s.Log.Info("report written", "path", path)
	}

	if s.Reports != nil {
		rec := store.ReportRecord{
			Repository:  ref.Owner + "/" + ref.Repo,
			PRNumber:    ref.Number,
			PRTitle:     pr.Title,
			PRAuthor:    pr.Author,
			Reviewers:   result.Reviewers,
			FailedPairs: result.FailedPairs,
			Markdown:    markdown,
			GeneratedAt: rep.GeneratedAt,
		}
		if err := s.Reports.Save(ctx, &rec); err != nil {
			// Persistence is best effort: the report itself already exists.
			s.Log.Error(err, "failed to persist report", "pr", ref.Slug())
		}
	}

	return result, nil
}

// apiBaseURL prefers an explicitly configured endpoint over the one
// derived from the PR URL host.
func (s *Service) apiBaseURL(ref github.PRRef) string {
	if s.Settings.GitHubAPIBaseURL != "" {
		return s.Settings.GitHubAPIBaseURL
	}
	return ref.APIBaseURL
}

// History returns recent stored reports, newest first.
func (s *Service) History(ctx context.Context, repository string, limit int) ([]store.ReportRecord, error) {
	if s.Reports == nil {
		return nil, config.Errorf("no database configured: set %s", config.KeyPostgresURL)
	}
	if repository != "" {
		return s.Reports.ForRepository(ctx, repository, limit)
	}
	return s.Reports.Recent(ctx, limit)
}

// Timestamp formats a stored report time for display.
func Timestamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }
