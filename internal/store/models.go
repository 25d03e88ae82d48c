package store

import (
	"time"

	"github.com/uptrace/bun"
)

// ReportRecord is one generated review-insights report.
type ReportRecord struct {
	bun.BaseModel `bun:"table:review_reports"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Repository  string    `bun:"repository"` // owner/name
	PRNumber    int       `bun:"pr_number"`
	PRTitle     string    `bun:"pr_title"`
	PRAuthor    string    `bun:"pr_author"`
	Reviewers   int       `bun:"reviewers"`
	FailedPairs int       `bun:"failed_pairs"`
	Markdown    string    `bun:"markdown"`
	GeneratedAt time.Time `bun:"generated_at"`
}
