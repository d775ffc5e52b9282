package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/integrity-rating-api/internal/models"
)

// ModerationTx exposes the statements a moderation transition runs inside one transaction.
type ModerationTx interface {
	LockStatuses(ctx context.Context, entity models.EntityType, ids []int64) (map[int64]string, error)
	UpdateStatuses(ctx context.Context, entity models.EntityType, ids []int64, status string, reviewerID int64, at time.Time) error
	RatingTargets(ctx context.Context, kind models.RatingKind, ids []int64) ([]int64, error)
	LockTarget(ctx context.Context, kind models.RatingKind, targetID int64) error
	VerifiedScores(ctx context.Context, kind models.RatingKind, targetID int64) ([]models.WeightedScore, error)
	SaveAggregate(ctx context.Context, kind models.RatingKind, targetID int64, aggregate models.Aggregate) error
	DeleteRating(ctx context.Context, kind models.RatingKind, id int64) (*models.Rating, error)
}

// PendingQuery selects queue rows. Statuses maps every included kind to the status it is listed under.
type PendingQuery struct {
	Statuses map[models.EntityType]string
	Search   string
	Page     int
	PageSize int
}

// ModerationRepository persists moderation state changes and reads the queue.
type ModerationRepository struct {
	db *sqlx.DB
}

// NewModerationRepository constructs the repository.
func NewModerationRepository(db *sqlx.DB) *ModerationRepository {
	return &ModerationRepository{db: db}
}

// WithinTx runs fn in a single transaction, committing only when fn succeeds.
func (r *ModerationRepository) WithinTx(ctx context.Context, fn func(ModerationTx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin moderation tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(&moderationTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit moderation tx: %w", err)
	}
	return nil
}

// ListPending returns one page of the cross-kind moderation queue plus the total row count.
func (r *ModerationRepository) ListPending(ctx context.Context, query PendingQuery) ([]models.Submission, int, error) {
	union, args, err := buildPendingUnion(query)
	if err != nil {
		return nil, 0, err
	}
	if union == "" {
		return []models.Submission{}, 0, nil
	}

	page, pageSize := models.NormalizePage(query.Page, query.PageSize, 20, 100)
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT * FROM (%s) q ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d", union, pageSize, offset)
	var items []models.Submission
	if err := r.db.SelectContext(ctx, &items, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list pending submissions: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM (%s) q", union), args...); err != nil {
		return nil, 0, fmt.Errorf("count pending submissions: %w", err)
	}
	if items == nil {
		items = []models.Submission{}
	}
	return items, total, nil
}

// CountByStatus counts rows of a kind currently in status.
func (r *ModerationRepository) CountByStatus(ctx context.Context, entity models.EntityType, status string) (int, error) {
	meta, err := tableFor(entity)
	if err != nil {
		return 0, err
	}
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE status = $1", meta.table)
	if err := r.db.GetContext(ctx, &count, query, status); err != nil {
		return 0, fmt.Errorf("count %s by status: %w", meta.table, err)
	}
	return count, nil
}

// NotificationTargets resolves submitter addresses of ratings or comments.
func (r *ModerationRepository) NotificationTargets(ctx context.Context, entity models.EntityType, ids []int64) ([]models.NotificationTarget, error) {
	meta, err := tableFor(entity)
	if err != nil {
		return nil, err
	}
	if meta.targetTable == "" {
		return nil, fmt.Errorf("entity %s has no submitter to notify", entity)
	}
	query := fmt.Sprintf(`SELECT %[1]s.id, u.email, t.name AS target_name
	FROM %[2]s %[1]s
	JOIN users u ON u.id = %[1]s.user_id
	JOIN %[3]s t ON t.id = %[1]s.%[4]s
	WHERE %[1]s.id = ANY($1)`, meta.alias, meta.table, meta.targetTable, meta.targetColumn)

	var targets []models.NotificationTarget
	if err := r.db.SelectContext(ctx, &targets, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("load notification targets: %w", err)
	}
	return targets, nil
}

// likeEscaper makes a search term match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func buildPendingUnion(query PendingQuery) (string, []interface{}, error) {
	parts := make([]string, 0, len(query.Statuses))
	args := make([]interface{}, 0, len(query.Statuses)*2)
	search := strings.ToLower(strings.TrimSpace(query.Search))

	for _, entity := range models.EntityTypes {
		status, ok := query.Statuses[entity]
		if !ok {
			continue
		}
		meta, err := tableFor(entity)
		if err != nil {
			return "", nil, err
		}

		a := meta.alias
		var b strings.Builder
		fmt.Fprintf(&b, "SELECT %s.id, '%s' AS type, %s AS display_name, %s AS content, %s.status::text AS status, %s AS submitted_by, u.name AS submitter_name, u.email AS submitter_email, %s.created_at",
			a, entity, meta.displayExpr, meta.contentExpr, a, meta.submitter, a)
		fmt.Fprintf(&b, " FROM %s %s", meta.table, a)
		if meta.targetTable != "" {
			fmt.Fprintf(&b, " JOIN %s t ON t.id = %s.%s", meta.targetTable, a, meta.targetColumn)
		}
		fmt.Fprintf(&b, " LEFT JOIN users u ON u.id = %s", meta.submitter)

		args = append(args, status)
		fmt.Fprintf(&b, " WHERE %s.status = $%d", a, len(args))

		if search != "" {
			args = append(args, "%"+likeEscaper.Replace(search)+"%")
			clauses := make([]string, len(meta.searchExprs))
			for i, expr := range meta.searchExprs {
				clauses[i] = fmt.Sprintf("LOWER(%s) LIKE $%d ESCAPE '\\'", expr, len(args))
			}
			fmt.Fprintf(&b, " AND (%s)", strings.Join(clauses, " OR "))
		}
		parts = append(parts, b.String())
	}

	return strings.Join(parts, " UNION ALL "), args, nil
}

type moderationTx struct {
	tx *sqlx.Tx
}

func (m *moderationTx) LockStatuses(ctx context.Context, entity models.EntityType, ids []int64) (map[int64]string, error) {
	meta, err := tableFor(entity)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT id, status FROM %s WHERE id = ANY($1) FOR UPDATE", meta.table)
	var rows []struct {
		ID     int64  `db:"id"`
		Status string `db:"status"`
	}
	if err := m.tx.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("lock %s rows: %w", meta.table, err)
	}
	statuses := make(map[int64]string, len(rows))
	for _, row := range rows {
		statuses[row.ID] = row.Status
	}
	return statuses, nil
}

func (m *moderationTx) UpdateStatuses(ctx context.Context, entity models.EntityType, ids []int64, status string, reviewerID int64, at time.Time) error {
	meta, err := tableFor(entity)
	if err != nil {
		return err
	}
	var (
		query string
		args  []interface{}
	)
	if meta.stampsReview {
		query = fmt.Sprintf("UPDATE %s SET status = $1, verified_at = $2, verified_by = $3, updated_at = $2 WHERE id = ANY($4)", meta.table)
		args = []interface{}{status, at, reviewerID, pq.Array(ids)}
	} else {
		query = fmt.Sprintf("UPDATE %s SET status = $1, updated_at = $2 WHERE id = ANY($3)", meta.table)
		args = []interface{}{status, at, pq.Array(ids)}
	}

	res, err := m.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s status: %w", meta.table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check %s update rows: %w", meta.table, err)
	}
	if int(affected) != len(ids) {
		return fmt.Errorf("update %s status: expected %d rows, updated %d", meta.table, len(ids), affected)
	}
	return nil
}

func (m *moderationTx) RatingTargets(ctx context.Context, kind models.RatingKind, ids []int64) ([]int64, error) {
	tables, err := ratingTablesFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT DISTINCT %s FROM %s WHERE id = ANY($1) ORDER BY 1", tables.targetColumn, tables.ratings)
	var targets []int64
	if err := m.tx.SelectContext(ctx, &targets, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("load rating targets: %w", err)
	}
	return targets, nil
}

// LockTarget holds the nominee or institution row so concurrent recomputes of the same
// target serialize and each one reads every committed verified rating.
func (m *moderationTx) LockTarget(ctx context.Context, kind models.RatingKind, targetID int64) error {
	tables, err := ratingTablesFor(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("SELECT id FROM %s WHERE id = $1 FOR UPDATE", tables.target)
	var id int64
	if err := m.tx.GetContext(ctx, &id, query, targetID); err != nil {
		return fmt.Errorf("lock %s %d: %w", tables.target, targetID, err)
	}
	return nil
}

func (m *moderationTx) VerifiedScores(ctx context.Context, kind models.RatingKind, targetID int64) ([]models.WeightedScore, error) {
	tables, err := ratingTablesFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT r.score, c.weight FROM %s r
	JOIN %s c ON c.id = r.rating_category_id
	WHERE r.%s = $1 AND r.status = $2`, tables.ratings, tables.categories, tables.targetColumn)
	var scores []models.WeightedScore
	if err := m.tx.SelectContext(ctx, &scores, query, targetID, models.RatingStatusVerified); err != nil {
		return nil, fmt.Errorf("load verified scores: %w", err)
	}
	return scores, nil
}

func (m *moderationTx) SaveAggregate(ctx context.Context, kind models.RatingKind, targetID int64, aggregate models.Aggregate) error {
	tables, err := ratingTablesFor(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("UPDATE %s SET total_ratings = $2, average_rating = $3, updated_at = $4 WHERE id = $1", tables.target)
	if _, err := m.tx.ExecContext(ctx, query, targetID, aggregate.TotalRatings, aggregate.AverageRating, time.Now().UTC()); err != nil {
		return fmt.Errorf("save %s aggregate: %w", tables.target, err)
	}
	return nil
}

func (m *moderationTx) DeleteRating(ctx context.Context, kind models.RatingKind, id int64) (*models.Rating, error) {
	tables, err := ratingTablesFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1
	RETURNING id, user_id, %s AS target_id, rating_category_id, score, severity, evidence, status, verified_at, verified_by, created_at`,
		tables.ratings, tables.targetColumn)
	var rating models.Rating
	if err := m.tx.GetContext(ctx, &rating, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("delete rating: %w", err)
	}
	rating.Kind = kind
	return &rating, nil
}
