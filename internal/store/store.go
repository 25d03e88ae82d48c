package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// ReportRepository persists generated reports and serves the history views.
type ReportRepository struct {
	db *bun.DB
}

func NewReportRepository(db *Database) *ReportRepository {
	return &ReportRepository{db: db.Bun()}
}

// EnsureSchema creates the review_reports table on first use.
func (r *ReportRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*ReportRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create review_reports table: %w", err)
	}
	return nil
}

func (r *ReportRepository) Save(ctx context.Context, rec *ReportRecord) error {
	if _, err := r.db.NewInsert().Model(rec).Exec(ctx); err != nil {
		return fmt.Errorf("insert report for %s#%d: %w", rec.Repository, rec.PRNumber, err)
	}
	return nil
}

// Recent returns the newest reports first, at most limit of them.
func (r *ReportRepository) Recent(ctx context.Context, limit int) ([]ReportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var recs []ReportRecord
	err := r.db.NewSelect().
		Model(&recs).
		Order("generated_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recent reports: %w", err)
	}
	return recs, nil
}

// ForRepository returns the stored reports for one owner/name repository,
// newest first.
func (r *ReportRepository) ForRepository(ctx context.Context, repository string, limit int) ([]ReportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var recs []ReportRecord
	err := r.db.NewSelect().
		Model(&recs).
		Where("repository = ?", repository).
		Order("generated_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports for %s: %w", repository, err)
	}
	return recs, nil
}
