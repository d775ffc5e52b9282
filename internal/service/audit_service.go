package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/integrity-rating-api/internal/models"
	appErrors "github.com/noah-isme/integrity-rating-api/pkg/errors"
	"github.com/noah-isme/integrity-rating-api/pkg/export"
	applog "github.com/noah-isme/integrity-rating-api/pkg/logger"
)

type adminLogStore interface {
	Create(ctx context.Context, entry *models.AdminLog) error
	List(ctx context.Context, filter models.AdminLogFilter) ([]models.AdminLog, int, error)
	ListAll(ctx context.Context, filter models.AdminLogFilter) ([]models.AdminLog, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// AuditEntry is what callers hand to the audit trail.
type AuditEntry struct {
	Action       string
	ResourceType string
	ResourceIDs  []int64
	AdminID      int64
	Details      string
	Metadata     map[string]interface{}
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

var auditExportHeaders = []string{"ID", "Created At", "Action", "Resource Type", "Resource IDs", "Admin ID", "Admin", "Details", "Metadata"}

// AuditService appends to and reads the administrative audit trail.
type AuditService struct {
	repo   adminLogStore
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
	now    func() time.Time
}

// NewAuditService constructs an AuditService.
func NewAuditService(repo adminLogStore, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &AuditService{repo: repo, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Record appends one entry. Failures are logged and never returned to the caller.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) {
	log := &models.AdminLog{
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceIDs:  append([]int64(nil), entry.ResourceIDs...),
		AdminID:      entry.AdminID,
		Details:      entry.Details,
		CreatedAt:    s.now().UTC(),
	}
	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			s.logger.Warn("failed to encode audit metadata", zap.String("action", entry.Action), zap.Error(err))
		} else {
			log.Metadata = raw
		}
	}
	if err := s.repo.Create(ctx, log); err != nil {
		applog.WithContext(ctx, s.logger).Warn("failed to persist audit log",
			zap.String("action", entry.Action),
			zap.String("resource_type", entry.ResourceType),
			zap.Int64s("resource_ids", entry.ResourceIDs),
			zap.Error(err),
		)
	}
}

// List returns a page of entries, newest first.
func (s *AuditService) List(ctx context.Context, filter models.AdminLogFilter) ([]models.AdminLog, *models.Pagination, error) {
	if err := validateAuditFilter(filter); err != nil {
		return nil, nil, err
	}
	page, pageSize := models.NormalizePage(filter.Page, filter.PageSize, 20, 100)
	filter.Page, filter.PageSize = page, pageSize

	logs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit logs")
	}
	if logs == nil {
		logs = []models.AdminLog{}
	}
	return logs, models.NewPagination(page, pageSize, total), nil
}

// Export renders every filtered entry, one row each, as CSV or PDF.
func (s *AuditService) Export(ctx context.Context, filter models.AdminLogFilter, format string) (*ExportFile, error) {
	if err := validateAuditFilter(filter); err != nil {
		return nil, err
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	logs, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load audit logs")
	}

	dataset := export.Dataset{Headers: auditExportHeaders, Rows: make([]map[string]string, 0, len(logs))}
	for _, log := range logs {
		dataset.Rows = append(dataset.Rows, auditRow(log))
	}

	stamp := s.now().UTC().Format("2006-01-02")
	switch format {
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, "Audit Logs")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render audit pdf")
		}
		return &ExportFile{Filename: fmt.Sprintf("audit-logs-%s.pdf", stamp), ContentType: "application/pdf", Payload: payload}, nil
	default:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render audit csv")
		}
		return &ExportFile{Filename: fmt.Sprintf("audit-logs-%s.csv", stamp), ContentType: "text/csv", Payload: payload}, nil
	}
}

func auditRow(log models.AdminLog) map[string]string {
	ids := make([]string, len(log.ResourceIDs))
	for i, id := range log.ResourceIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	admin := ""
	if log.AdminName != nil {
		admin = *log.AdminName
	}
	metadata := ""
	if len(log.Metadata) > 0 && string(log.Metadata) != "null" {
		metadata = string(log.Metadata)
	}
	return map[string]string{
		"ID":            log.ID,
		"Created At":    log.CreatedAt.UTC().Format(time.RFC3339),
		"Action":        log.Action,
		"Resource Type": log.ResourceType,
		"Resource IDs":  strings.Join(ids, ";"),
		"Admin ID":      strconv.FormatInt(log.AdminID, 10),
		"Admin":         admin,
		"Details":       log.Details,
		"Metadata":      metadata,
	}
}

func validateAuditFilter(filter models.AdminLogFilter) error {
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return appErrors.Clone(appErrors.ErrValidation, "endDate must not be before startDate")
	}
	return nil
}
