package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/integrity-rating-api/internal/models"
	appErrors "github.com/noah-isme/integrity-rating-api/pkg/errors"
	"github.com/noah-isme/integrity-rating-api/pkg/response"
)

type referenceLister interface {
	List(ctx context.Context, table models.ReferenceTable) ([]models.Reference, error)
}

// ReferenceHandler serves the lookup lists used by submission forms.
type ReferenceHandler struct {
	lister referenceLister
}

// NewReferenceHandler constructs the handler.
func NewReferenceHandler(lister referenceLister) *ReferenceHandler {
	return &ReferenceHandler{lister: lister}
}

var referencePaths = map[string]models.ReferenceTable{
	"positions":    models.ReferencePositions,
	"districts":    models.ReferenceDistricts,
	"departments":  models.ReferenceDepartments,
	"impact-areas": models.ReferenceImpactAreas,
}

// List godoc
// @Summary Lookup values for submission forms
// @Tags Submissions
// @Produce json
// @Param table path string true "positions, districts, departments or impact-areas"
// @Success 200 {object} response.Envelope
// @Router /references/{table} [get]
func (h *ReferenceHandler) List(c *gin.Context) {
	table, ok := referencePaths[strings.ToLower(c.Param("table"))]
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown reference list %q", c.Param("table"))))
		return
	}
	refs, err := h.lister.List(c.Request.Context(), table)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reference list"))
		return
	}
	if refs == nil {
		refs = []models.Reference{}
	}
	response.JSON(c, http.StatusOK, refs, nil)
}
