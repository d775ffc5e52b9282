package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/integrity-rating-api/internal/dto"
	"github.com/noah-isme/integrity-rating-api/internal/models"
	"github.com/noah-isme/integrity-rating-api/internal/service"
	appErrors "github.com/noah-isme/integrity-rating-api/pkg/errors"
	"github.com/noah-isme/integrity-rating-api/pkg/response"
)

type moderationService interface {
	ListPending(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, *models.Pagination, error)
	Approve(ctx context.Context, entity models.EntityType, id, actorID int64) (*service.TransitionResult, error)
	Reject(ctx context.Context, entity models.EntityType, id, actorID int64) (*service.TransitionResult, error)
	Flag(ctx context.Context, entity models.EntityType, id, actorID int64) (*service.TransitionResult, error)
	BatchModerate(ctx context.Context, req dto.BatchModerationRequest, actorID int64) (*service.TransitionResult, error)
	ChangeStatus(ctx context.Context, entity models.EntityType, id int64, status string, actorID int64) (*service.TransitionResult, error)
	DeleteRating(ctx context.Context, kind models.RatingKind, id, actorID int64) error
}

type transitionFunc func(ctx context.Context, entity models.EntityType, id, actorID int64) (*service.TransitionResult, error)

// ModerationHandler serves the review queue and moderation actions.
type ModerationHandler struct {
	service moderationService
}

// NewModerationHandler constructs the handler.
func NewModerationHandler(svc moderationService) *ModerationHandler {
	return &ModerationHandler{service: svc}
}

// Submissions godoc
// @Summary List the moderation queue
// @Tags Moderation
// @Produce json
// @Param tab query string false "pending, flagged or a type"
// @Param type query string false "NOMINEE, INSTITUTION, RATING, INSTITUTION_RATING, COMMENT, INSTITUTION_COMMENT or ALL"
// @Param status query string false "PENDING or FLAGGED"
// @Param search query string false "Search term"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.PagedEnvelope
// @Failure 400 {object} response.Envelope
// @Router /admin/moderation/submissions [get]
func (h *ModerationHandler) Submissions(c *gin.Context) {
	filter, err := submissionFilter(dto.SubmissionQuery{
		Tab:    c.Query("tab"),
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 20),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items, pagination, err := h.service.ListPending(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, items, pagination)
}

// Approve godoc
// @Summary Approve a submission
// @Tags Moderation
// @Produce json
// @Param type path string true "nominees, institutions, ratings, institution-ratings, comments or institution-comments"
// @Param id path int true "Row id"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/moderation/{type}/{id}/approve [post]
func (h *ModerationHandler) Approve(c *gin.Context) {
	h.single(c, h.service.Approve)
}

// Reject godoc
// @Summary Reject a submission
// @Tags Moderation
// @Produce json
// @Param type path string true "Moderated type"
// @Param id path int true "Row id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/moderation/{type}/{id}/reject [post]
func (h *ModerationHandler) Reject(c *gin.Context) {
	h.single(c, h.service.Reject)
}

// Flag godoc
// @Summary Flag a submission for review or investigation
// @Tags Moderation
// @Produce json
// @Param type path string true "Moderated type"
// @Param id path int true "Row id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/moderation/{type}/{id}/flag [post]
func (h *ModerationHandler) Flag(c *gin.Context) {
	h.single(c, h.service.Flag)
}

func (h *ModerationHandler) single(c *gin.Context, apply transitionFunc) {
	entity, err := entityParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	actor, err := actorID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := apply(c.Request.Context(), entity, id, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, moderationResponse(result), nil)
}

// Batch godoc
// @Summary Apply one action to many submissions
// @Description All ids must exist; otherwise nothing is changed.
// @Tags Moderation
// @Accept json
// @Produce json
// @Param payload body dto.BatchModerationRequest true "Batch payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/moderation/batch [post]
func (h *ModerationHandler) Batch(c *gin.Context) {
	var req dto.BatchModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	actor, err := moderatorFor(c, req.ModeratorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.BatchModerate(c.Request.Context(), req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, moderationResponse(result), nil)
}

// ChangeStatus godoc
// @Summary Set an explicit status
// @Tags Moderation
// @Accept json
// @Produce json
// @Param type path string true "Moderated type"
// @Param id path int true "Row id"
// @Param payload body dto.StatusChangeRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/moderation/{type}/{id}/status [patch]
func (h *ModerationHandler) ChangeStatus(c *gin.Context) {
	entity, err := entityParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	actor, err := moderatorFor(c, req.ModeratorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.ChangeStatus(c.Request.Context(), entity, id, req.Status, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, moderationResponse(result), nil)
}

// DeleteRating godoc
// @Summary Delete a rating
// @Tags Moderation
// @Param kind path string true "nominee or institution"
// @Param id path int true "Rating id"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/ratings/{kind}/{id} [delete]
func (h *ModerationHandler) DeleteRating(c *gin.Context) {
	kind, err := ratingKind(c.Param("kind"))
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	actor, err := actorID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.DeleteRating(c.Request.Context(), kind, id, actor); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// submissionFilter folds tab, type and status into one queue filter. An explicit
// type or status wins over whatever the tab implied.
func submissionFilter(q dto.SubmissionQuery) (models.SubmissionFilter, error) {
	filter := models.SubmissionFilter{
		Search:   strings.TrimSpace(q.Search),
		Page:     q.Page,
		PageSize: q.Limit,
	}

	if tab := strings.TrimSpace(q.Tab); tab != "" {
		switch strings.ToUpper(tab) {
		case string(models.QueueStatusPending), string(models.QueueStatusFlagged):
			filter.Status = models.QueueStatus(strings.ToUpper(tab))
		default:
			entity, ok := models.ParseEntityType(tab)
			if !ok {
				return filter, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported tab %q", tab))
			}
			if entity != models.EntityAll {
				filter.Types = []models.EntityType{entity}
			}
		}
	}

	if raw := strings.TrimSpace(q.Type); raw != "" {
		entity, ok := models.ParseEntityType(raw)
		if !ok {
			return filter, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported type %q", raw))
		}
		filter.Types = nil
		if entity != models.EntityAll {
			filter.Types = []models.EntityType{entity}
		}
	}

	if raw := strings.TrimSpace(q.Status); raw != "" {
		filter.Status = models.QueueStatus(strings.ToUpper(raw))
	}
	return filter, nil
}

func moderationResponse(result *service.TransitionResult) dto.ModerationResponse {
	noun := "record"
	if len(result.IDs) != 1 {
		noun = "records"
	}
	return dto.ModerationResponse{
		Message: fmt.Sprintf("%d %s %s set to %s", len(result.IDs), strings.ToLower(string(result.Entity)), noun, result.Status),
		Type:    result.Entity,
		Action:  result.Action,
		Status:  result.Status,
		IDs:     result.IDs,
		Count:   len(result.IDs),
	}
}
