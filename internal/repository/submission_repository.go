package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/integrity-rating-api/internal/models"
)

// SubmissionRepository inserts citizen submissions in their initial state.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository constructs the repository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// CreateNominee inserts a nominee and sets its id.
func (r *SubmissionRepository) CreateNominee(ctx context.Context, nominee *models.Nominee) error {
	now := time.Now().UTC()
	nominee.CreatedAt, nominee.UpdatedAt = now, now
	const query = `INSERT INTO nominees (name, title, evidence, status, position_id, institution_id, district_id, submitted_by, total_ratings, average_rating, created_at, updated_at)
	VALUES (:name, :title, :evidence, :status, :position_id, :institution_id, :district_id, :submitted_by, :total_ratings, :average_rating, :created_at, :updated_at) RETURNING id`
	return r.insertReturningID(ctx, "create nominee", query, nominee, &nominee.ID)
}

// CreateInstitution inserts an institution and sets its id.
func (r *SubmissionRepository) CreateInstitution(ctx context.Context, institution *models.Institution) error {
	now := time.Now().UTC()
	institution.CreatedAt, institution.UpdatedAt = now, now
	const query = `INSERT INTO institutions (name, type, status, submitted_by, total_ratings, average_rating, created_at, updated_at)
	VALUES (:name, :type, :status, :submitted_by, :total_ratings, :average_rating, :created_at, :updated_at) RETURNING id`
	return r.insertReturningID(ctx, "create institution", query, institution, &institution.ID)
}

// FindInstitutionIDByName returns the id of an institution matched case-insensitively, or 0.
func (r *SubmissionRepository) FindInstitutionIDByName(ctx context.Context, name string) (int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM institutions WHERE LOWER(name) = LOWER($1) ORDER BY id LIMIT 1`, name); err != nil {
		return 0, fmt.Errorf("find institution by name: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return ids[0], nil
}

// TargetExists reports whether the nominee or institution exists.
func (r *SubmissionRepository) TargetExists(ctx context.Context, kind models.RatingKind, id int64) (bool, error) {
	tables, err := ratingTablesFor(kind)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := r.db.GetContext(ctx, &exists, fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)", tables.target), id); err != nil {
		return false, fmt.Errorf("check %s exists: %w", tables.target, err)
	}
	return exists, nil
}

// CreateRating inserts a rating against the target of its kind.
func (r *SubmissionRepository) CreateRating(ctx context.Context, rating *models.Rating) error {
	tables, err := ratingTablesFor(rating.Kind)
	if err != nil {
		return err
	}
	rating.CreatedAt = time.Now().UTC()
	query := fmt.Sprintf(`INSERT INTO %s (user_id, %s, rating_category_id, score, severity, evidence, status, created_at, updated_at)
	VALUES (:user_id, :target_id, :rating_category_id, :score, :severity, :evidence, :status, :created_at, :created_at) RETURNING id`,
		tables.ratings, tables.targetColumn)
	return r.insertReturningID(ctx, "create rating", query, rating, &rating.ID)
}

// CreateComment inserts a comment against the target of its kind.
func (r *SubmissionRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	table := "comments"
	column := "nominee_id"
	if comment.Kind == models.RatingKindInstitution {
		table, column = "institution_comments", "institution_id"
	}
	comment.CreatedAt = time.Now().UTC()
	query := fmt.Sprintf(`INSERT INTO %s (content, user_id, %s, status, created_at, updated_at)
	VALUES (:content, :user_id, :target_id, :status, :created_at, :created_at) RETURNING id`, table, column)
	return r.insertReturningID(ctx, "create comment", query, comment, &comment.ID)
}

func (r *SubmissionRepository) insertReturningID(ctx context.Context, op, query string, arg interface{}, id *int64) error {
	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare %s: %w", op, err)
	}
	defer stmt.Close()
	if err := stmt.GetContext(ctx, id, arg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
