package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/integrity-rating-api/internal/models"
)

const categoryColumns = `id, keyword, name, icon, description, weight, examples, is_active, departments, impact_areas, created_at, updated_at`

// CategoryRepository manages nominee and institution rating categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository constructs the repository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns the categories of a kind, optionally only active ones.
func (r *CategoryRepository) List(ctx context.Context, kind models.RatingKind, activeOnly bool) ([]models.RatingCategory, error) {
	tables, err := ratingTablesFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s", categoryColumns, tables.categories)
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY weight DESC, name ASC"

	var categories []models.RatingCategory
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list rating categories: %w", err)
	}
	for i := range categories {
		categories[i].Kind = kind
	}
	return categories, nil
}

// FindByID fetches one category.
func (r *CategoryRepository) FindByID(ctx context.Context, kind models.RatingKind, id int64) (*models.RatingCategory, error) {
	tables, err := ratingTablesFor(kind)
	if err != nil {
		return nil, err
	}
	var category models.RatingCategory
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", categoryColumns, tables.categories)
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find rating category: %w", err)
	}
	category.Kind = kind
	return &category, nil
}

// ExistsByKeyword reports whether another category of the kind already uses keyword.
func (r *CategoryRepository) ExistsByKeyword(ctx context.Context, kind models.RatingKind, keyword string, excludeID int64) (bool, error) {
	tables, err := ratingTablesFor(kind)
	if err != nil {
		return false, err
	}
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE LOWER(keyword) = LOWER($1) AND id <> $2)", tables.categories)
	if err := r.db.GetContext(ctx, &exists, query, keyword, excludeID); err != nil {
		return false, fmt.Errorf("check category keyword: %w", err)
	}
	return exists, nil
}

// Create inserts a category and sets its id.
func (r *CategoryRepository) Create(ctx context.Context, category *models.RatingCategory) error {
	tables, err := ratingTablesFor(category.Kind)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO %s (keyword, name, icon, description, weight, examples, is_active, departments, impact_areas, created_at, updated_at)
	VALUES (:keyword, :name, :icon, :description, :weight, :examples, :is_active, :departments, :impact_areas, :created_at, :updated_at) RETURNING id`, tables.categories)
	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare create category: %w", err)
	}
	defer stmt.Close()
	if err := stmt.GetContext(ctx, &category.ID, category); err != nil {
		return fmt.Errorf("create rating category: %w", err)
	}
	return nil
}

// Update overwrites the mutable columns of a category.
func (r *CategoryRepository) Update(ctx context.Context, category *models.RatingCategory) error {
	tables, err := ratingTablesFor(category.Kind)
	if err != nil {
		return err
	}
	category.UpdatedAt = time.Now().UTC()
	query := fmt.Sprintf(`UPDATE %s SET keyword = :keyword, name = :name, icon = :icon, description = :description, weight = :weight,
	examples = :examples, is_active = :is_active, departments = :departments, impact_areas = :impact_areas, updated_at = :updated_at
	WHERE id = :id`, tables.categories)
	res, err := r.db.NamedExecContext(ctx, query, category)
	if err != nil {
		return fmt.Errorf("update rating category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update rating category: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
