package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/integrity-rating-api/internal/dto"
	"github.com/noah-isme/integrity-rating-api/internal/models"
	"github.com/noah-isme/integrity-rating-api/pkg/response"
)

type dashboardService interface {
	Stats(ctx context.Context) (*dto.DashboardStats, error)
	Leaderboard(ctx context.Context, kind models.RatingKind, limit int) ([]models.LeaderboardEntry, error)
}

// DashboardHandler exposes back-office statistics and the public leaderboard.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(svc dashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Stats godoc
// @Summary Moderation dashboard
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Leaderboard godoc
// @Summary Highest rated nominees or institutions
// @Tags Dashboard
// @Produce json
// @Param kind path string true "nominees or institutions"
// @Param limit query int false "At most 10"
// @Success 200 {object} response.Envelope
// @Router /leaderboard/{kind} [get]
func (h *DashboardHandler) Leaderboard(c *gin.Context) {
	kind, err := ratingKind(c.Param("kind"))
	if err != nil {
		response.Error(c, err)
		return
	}
	entries, err := h.service.Leaderboard(c.Request.Context(), kind, queryInt(c, "limit", 10))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
