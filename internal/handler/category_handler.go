package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/integrity-rating-api/internal/dto"
	"github.com/noah-isme/integrity-rating-api/internal/models"
	"github.com/noah-isme/integrity-rating-api/pkg/response"
)

type categoryService interface {
	List(ctx context.Context, kind models.RatingKind, activeOnly bool) ([]models.RatingCategory, error)
	Create(ctx context.Context, kind models.RatingKind, req dto.CategoryRequest, actorID int64) (*models.RatingCategory, error)
	Update(ctx context.Context, kind models.RatingKind, id int64, req dto.CategoryRequest, actorID int64) (*models.RatingCategory, error)
}

// CategoryHandler serves rating categories.
type CategoryHandler struct {
	service categoryService
}

// NewCategoryHandler constructs the handler.
func NewCategoryHandler(svc categoryService) *CategoryHandler {
	return &CategoryHandler{service: svc}
}

// List godoc
// @Summary List rating categories
// @Tags Categories
// @Produce json
// @Param kind path string true "nominee or institution"
// @Param active query bool false "Only active categories (default true)"
// @Success 200 {object} response.Envelope
// @Router /categories/{kind} [get]
func (h *CategoryHandler) List(c *gin.Context) {
	kind, err := ratingKind(c.Param("kind"))
	if err != nil {
		response.Error(c, err)
		return
	}
	activeOnly := true
	if raw := c.Query("active"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			activeOnly = v
		}
	}
	categories, err := h.service.List(c.Request.Context(), kind, activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	if categories == nil {
		categories = []models.RatingCategory{}
	}
	response.JSON(c, http.StatusOK, categories, nil)
}

// Create godoc
// @Summary Create a rating category
// @Tags Categories
// @Accept json
// @Produce json
// @Param kind path string true "nominee or institution"
// @Param payload body dto.CategoryRequest true "Category"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/categories/{kind} [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	kind, err := ratingKind(c.Param("kind"))
	if err != nil {
		response.Error(c, err)
		return
	}
	actor, err := actorID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	category, err := h.service.Create(c.Request.Context(), kind, req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, category)
}

// Update godoc
// @Summary Replace a rating category
// @Tags Categories
// @Accept json
// @Produce json
// @Param kind path string true "nominee or institution"
// @Param id path int true "Category id"
// @Param payload body dto.CategoryRequest true "Category"
// @Success 200 {object} response.Envelope
// @Router /admin/categories/{kind}/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
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
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	category, err := h.service.Update(c.Request.Context(), kind, id, req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, category, nil)
}
