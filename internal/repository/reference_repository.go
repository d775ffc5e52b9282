package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/integrity-rating-api/internal/models"
)

// ReferenceRepository resolves lookup rows (positions, districts, departments, impact areas).
type ReferenceRepository struct {
	db *sqlx.DB
}

// NewReferenceRepository constructs the repository.
func NewReferenceRepository(db *sqlx.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// FindOrCreate returns the id of the row named name, inserting it when missing.
func (r *ReferenceRepository) FindOrCreate(ctx context.Context, table models.ReferenceTable, name string) (int64, error) {
	if err := validReferenceTable(table); err != nil {
		return 0, err
	}
	name = strings.TrimSpace(name)
	query := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id`, table)
	var id int64
	if err := r.db.GetContext(ctx, &id, query, name); err != nil {
		return 0, fmt.Errorf("find or create %s: %w", table, err)
	}
	return id, nil
}

// List returns every row of a lookup table ordered by name.
func (r *ReferenceRepository) List(ctx context.Context, table models.ReferenceTable) ([]models.Reference, error) {
	if err := validReferenceTable(table); err != nil {
		return nil, err
	}
	var refs []models.Reference
	if err := r.db.SelectContext(ctx, &refs, fmt.Sprintf("SELECT id, name FROM %s ORDER BY name", table)); err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return refs, nil
}

func validReferenceTable(table models.ReferenceTable) error {
	switch table {
	case models.ReferencePositions, models.ReferenceDistricts, models.ReferenceDepartments, models.ReferenceImpactAreas:
		return nil
	}
	return fmt.Errorf("unknown reference table %q", table)
}
