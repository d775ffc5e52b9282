package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/integrity-rating-api/internal/models"
	"github.com/noah-isme/integrity-rating-api/internal/service"
	appErrors "github.com/noah-isme/integrity-rating-api/pkg/errors"
	"github.com/noah-isme/integrity-rating-api/pkg/response"
)

type auditService interface {
	List(ctx context.Context, filter models.AdminLogFilter) ([]models.AdminLog, *models.Pagination, error)
	Export(ctx context.Context, filter models.AdminLogFilter, format string) (*service.ExportFile, error)
}

// AuditHandler exposes the administrative audit trail.
type AuditHandler struct {
	service auditService
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(svc auditService) *AuditHandler {
	return &AuditHandler{service: svc}
}

// List godoc
// @Summary List audit log entries
// @Tags Audit
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param action query string false "Action"
// @Param resourceType query string false "Resource type"
// @Param adminId query int false "Admin user id"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /admin/audit/logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	filter, err := auditFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter.Page = queryInt(c, "page", 1)
	filter.PageSize = queryInt(c, "limit", 20)

	logs, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, pagination)
}

// Export godoc
// @Summary Download audit log entries
// @Tags Audit
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /admin/audit/logs/export [get]
func (h *AuditHandler) Export(c *gin.Context) {
	filter, err := auditFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.Export(c.Request.Context(), filter, c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

func auditFilter(c *gin.Context) (models.AdminLogFilter, error) {
	filter := models.AdminLogFilter{
		Action:       strings.ToUpper(strings.TrimSpace(c.Query("action"))),
		ResourceType: strings.ToUpper(strings.TrimSpace(c.Query("resourceType"))),
	}
	if raw := c.Query("adminId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid adminId")
		}
		filter.AdminID = &id
	}
	start, err := queryDate(c, "startDate", false)
	if err != nil {
		return filter, err
	}
	end, err := queryDate(c, "endDate", true)
	if err != nil {
		return filter, err
	}
	filter.StartDate, filter.EndDate = start, end
	return filter, nil
}
