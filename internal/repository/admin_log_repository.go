package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/integrity-rating-api/internal/models"
)

const adminLogColumns = `l.id, l.action, l.resource_type, l.resource_ids, l.admin_id, u.name AS admin_name, l.details, l.metadata, l.created_at`

// AdminLogRepository appends and reads the administrative audit trail.
type AdminLogRepository struct {
	db *sqlx.DB
}

// NewAdminLogRepository constructs the repository.
func NewAdminLogRepository(db *sqlx.DB) *AdminLogRepository {
	return &AdminLogRepository{db: db}
}

// Create appends a log entry.
func (r *AdminLogRepository) Create(ctx context.Context, entry *models.AdminLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if len(entry.Metadata) == 0 {
		entry.Metadata = []byte(`{}`)
	}
	const query = `INSERT INTO admin_logs (id, action, resource_type, resource_ids, admin_id, details, metadata, created_at)
	VALUES (:id, :action, :resource_type, :resource_ids, :admin_id, :details, :metadata, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create admin log: %w", err)
	}
	return nil
}

// List returns a page of entries, newest first, with the filtered total.
func (r *AdminLogRepository) List(ctx context.Context, filter models.AdminLogFilter) ([]models.AdminLog, int, error) {
	where, args := buildAdminLogWhere(filter)
	page, pageSize := models.NormalizePage(filter.Page, filter.PageSize, 20, 100)
	offset := (page - 1) * pageSize

	query := fmt.Sprintf("SELECT %s FROM admin_logs l LEFT JOIN users u ON u.id = l.admin_id%s ORDER BY l.created_at DESC LIMIT %d OFFSET %d",
		adminLogColumns, where, pageSize, offset)
	var logs []models.AdminLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list admin logs: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM admin_logs l"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count admin logs: %w", err)
	}
	return logs, total, nil
}

// ListAll returns every entry matching the filter, newest first, ignoring pagination.
func (r *AdminLogRepository) ListAll(ctx context.Context, filter models.AdminLogFilter) ([]models.AdminLog, error) {
	where, args := buildAdminLogWhere(filter)
	query := fmt.Sprintf("SELECT %s FROM admin_logs l LEFT JOIN users u ON u.id = l.admin_id%s ORDER BY l.created_at DESC", adminLogColumns, where)
	var logs []models.AdminLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("export admin logs: %w", err)
	}
	return logs, nil
}

func buildAdminLogWhere(filter models.AdminLogFilter) (string, []interface{}) {
	conditions := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)

	if filter.Action != "" {
		args = append(args, filter.Action)
		conditions = append(conditions, fmt.Sprintf("l.action = $%d", len(args)))
	}
	if filter.ResourceType != "" {
		args = append(args, filter.ResourceType)
		conditions = append(conditions, fmt.Sprintf("l.resource_type = $%d", len(args)))
	}
	if filter.AdminID != nil {
		args = append(args, *filter.AdminID)
		conditions = append(conditions, fmt.Sprintf("l.admin_id = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("l.created_at >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("l.created_at <= $%d", len(args)))
	}
	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
