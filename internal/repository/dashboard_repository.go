package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/integrity-rating-api/internal/models"
)

// DashboardTotals aggregates headline counters for the back-office dashboard.
type DashboardTotals struct {
	Nominees                   int `db:"nominees"`
	Institutions               int `db:"institutions"`
	VerifiedNomineeRatings     int `db:"verified_nominee_ratings"`
	VerifiedInstitutionRatings int `db:"verified_institution_ratings"`
	Users                      int `db:"users"`
}

// DashboardRepository runs read-only dashboard and leaderboard queries.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs the repository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Totals returns entity and verified rating counts.
func (r *DashboardRepository) Totals(ctx context.Context) (*DashboardTotals, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM nominees) AS nominees,
	(SELECT COUNT(*) FROM institutions) AS institutions,
	(SELECT COUNT(*) FROM nominee_ratings WHERE status = 'VERIFIED') AS verified_nominee_ratings,
	(SELECT COUNT(*) FROM institution_ratings WHERE status = 'VERIFIED') AS verified_institution_ratings,
	(SELECT COUNT(*) FROM users) AS users`
	var totals DashboardTotals
	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("load dashboard totals: %w", err)
	}
	return &totals, nil
}

// Leaderboard ranks rated nominees or institutions by average rating.
func (r *DashboardRepository) Leaderboard(ctx context.Context, kind models.RatingKind, limit int) ([]models.LeaderboardEntry, error) {
	tables, err := ratingTablesFor(kind)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT id, name, total_ratings, average_rating FROM %s
	WHERE total_ratings > 0
	ORDER BY average_rating DESC NULLS LAST, total_ratings DESC, id ASC
	LIMIT $1`, tables.target)
	var entries []models.LeaderboardEntry
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	return entries, nil
}
