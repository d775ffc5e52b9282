package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/integrity-rating-api/internal/middleware"
	"github.com/noah-isme/integrity-rating-api/internal/models"
	appErrors "github.com/noah-isme/integrity-rating-api/pkg/errors"
)

// actorID returns the authenticated caller's user id.
func actorID(c *gin.Context) (int64, error) {
	claims := middleware.CurrentClaims(c)
	if claims == nil || claims.UserID <= 0 {
		return 0, appErrors.ErrUnauthorized
	}
	return claims.UserID, nil
}

// moderatorFor checks that a body-supplied moderator id, when present, is the caller.
func moderatorFor(c *gin.Context, claimed int64) (int64, error) {
	actor, err := actorID(c)
	if err != nil {
		return 0, err
	}
	if claimed != 0 && claimed != actor {
		return 0, appErrors.Clone(appErrors.ErrForbidden, "moderatorId does not match the authenticated user")
	}
	return actor, nil
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

// ratingKind accepts nominee(s) or institution(s) in any case.
func ratingKind(raw string) (models.RatingKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "nominee", "nominees":
		return models.RatingKindNominee, nil
	case "institution", "institutions":
		return models.RatingKindInstitution, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported kind %q", raw))
}

func entityParam(c *gin.Context) (models.EntityType, error) {
	entity, ok := models.ParseEntityType(c.Param("type"))
	if !ok || entity == models.EntityAll {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported type %q", c.Param("type")))
	}
	return entity, nil
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// queryDate accepts RFC3339 or a bare YYYY-MM-DD. endOfDay widens a bare date to its last instant.
func queryDate(c *gin.Context, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid %s, expected YYYY-MM-DD", key))
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func bindError(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body")
}
