package middleware

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/integrity-rating-api/internal/models"
	appErrors "github.com/noah-isme/integrity-rating-api/pkg/errors"
	"github.com/noah-isme/integrity-rating-api/pkg/response"
)

// AccountLookup loads the stored account behind a token.
type AccountLookup interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// ActiveAccount reloads the caller from storage so a role change or deactivation takes
// effect before the token expires. Claims are replaced with a copy carrying the stored role.
// It must run after JWT and before the role checks.
func ActiveAccount(accounts AccountLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		user, err := accounts.FindByID(c.Request.Context(), claims.UserID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "account no longer exists"))
			c.Abort()
			return
		case err != nil:
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account"))
			c.Abort()
			return
		case !user.IsActive:
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "account is deactivated"))
			c.Abort()
			return
		}

		current := *claims
		current.Role = user.Role
		c.Set(ContextUserKey, &current)
		c.Next()
	}
}
