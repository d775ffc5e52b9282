package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/integrity-rating-api/internal/dto"
	"github.com/noah-isme/integrity-rating-api/internal/models"
	"github.com/noah-isme/integrity-rating-api/pkg/response"
)

type submissionService interface {
	SubmitNominee(ctx context.Context, req dto.SubmitNomineeRequest, userID int64) (*models.Nominee, error)
	SubmitInstitution(ctx context.Context, req dto.SubmitInstitutionRequest, userID int64) (*models.Institution, error)
	SubmitRating(ctx context.Context, kind models.RatingKind, targetID int64, req dto.SubmitRatingRequest, userID int64) (*models.Rating, error)
	AddComment(ctx context.Context, kind models.RatingKind, targetID int64, req dto.SubmitCommentRequest, userID int64) (*models.Comment, error)
}

// SubmissionHandler accepts citizen submissions. Everything it creates waits for moderation.
type SubmissionHandler struct {
	service submissionService
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(svc submissionService) *SubmissionHandler {
	return &SubmissionHandler{service: svc}
}

// SubmitNominee godoc
// @Summary Nominate a public official
// @Tags Submissions
// @Accept json
// @Produce json
// @Param payload body dto.SubmitNomineeRequest true "Nominee"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /nominees [post]
func (h *SubmissionHandler) SubmitNominee(c *gin.Context) {
	user, err := actorID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.SubmitNomineeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	nominee, err := h.service.SubmitNominee(c.Request.Context(), req, user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, nominee)
}

// SubmitInstitution godoc
// @Summary Register an institution
// @Tags Submissions
// @Accept json
// @Produce json
// @Param payload body dto.SubmitInstitutionRequest true "Institution"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /institutions [post]
func (h *SubmissionHandler) SubmitInstitution(c *gin.Context) {
	user, err := actorID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.SubmitInstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	institution, err := h.service.SubmitInstitution(c.Request.Context(), req, user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, institution)
}

// Rate returns the rating endpoint for one target kind.
// @Summary Rate a nominee or institution
// @Tags Submissions
// @Accept json
// @Produce json
// @Param id path int true "Target id"
// @Param payload body dto.SubmitRatingRequest true "Rating"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /nominees/{id}/ratings [post]
// @Router /institutions/{id}/ratings [post]
func (h *SubmissionHandler) Rate(kind models.RatingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := actorID(c)
		if err != nil {
			response.Error(c, err)
			return
		}
		target, err := pathID(c, "id")
		if err != nil {
			response.Error(c, err)
			return
		}
		var req dto.SubmitRatingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, bindError(err))
			return
		}
		rating, err := h.service.SubmitRating(c.Request.Context(), kind, target, req, user)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, rating)
	}
}

// Comment returns the comment endpoint for one target kind.
// @Summary Comment on a nominee or institution
// @Tags Submissions
// @Accept json
// @Produce json
// @Param id path int true "Target id"
// @Param payload body dto.SubmitCommentRequest true "Comment"
// @Success 201 {object} response.Envelope
// @Router /nominees/{id}/comments [post]
// @Router /institutions/{id}/comments [post]
func (h *SubmissionHandler) Comment(kind models.RatingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := actorID(c)
		if err != nil {
			response.Error(c, err)
			return
		}
		target, err := pathID(c, "id")
		if err != nil {
			response.Error(c, err)
			return
		}
		var req dto.SubmitCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, bindError(err))
			return
		}
		comment, err := h.service.AddComment(c.Request.Context(), kind, target, req, user)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, comment)
	}
}
