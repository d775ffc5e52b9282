package middleware

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/integrity-rating-api/internal/models"
)

type stubAccounts struct {
	users map[int64]*models.User
	err   error
}

func (s stubAccounts) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func accountRouter(accounts AccountLookup, claims *models.JWTClaims) *gin.Engine {
	r := gin.New()
	r.GET("/admin/audit", JWT(stubValidator{claims: claims}), ActiveAccount(accounts), RequireModerator(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": CurrentClaims(c).Role})
	})
	return r
}

func TestActiveAccountUsesStoredRole(t *testing.T) {
	claims := &models.JWTClaims{UserID: 4, Role: models.RoleModerator}

	demoted := stubAccounts{users: map[int64]*models.User{4: {ID: 4, Role: models.RoleUser, IsActive: true}}}
	assert.Equal(t, http.StatusForbidden, perform(accountRouter(demoted, claims), http.MethodGet, "/admin/audit", "Bearer good").Code)
	assert.Equal(t, models.RoleModerator, claims.Role)

	promoted := stubAccounts{users: map[int64]*models.User{4: {ID: 4, Role: models.RoleAdmin, IsActive: true}}}
	w := perform(accountRouter(promoted, claims), http.MethodGet, "/admin/audit", "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"ADMIN"}`, w.Body.String())
}

func TestActiveAccountRejectsDeactivatedOrMissing(t *testing.T) {
	claims := &models.JWTClaims{UserID: 4, Role: models.RoleModerator}

	deactivated := stubAccounts{users: map[int64]*models.User{4: {ID: 4, Role: models.RoleModerator, IsActive: false}}}
	assert.Equal(t, http.StatusUnauthorized, perform(accountRouter(deactivated, claims), http.MethodGet, "/admin/audit", "Bearer good").Code)

	missing := stubAccounts{users: map[int64]*models.User{}}
	assert.Equal(t, http.StatusUnauthorized, perform(accountRouter(missing, claims), http.MethodGet, "/admin/audit", "Bearer good").Code)

	broken := stubAccounts{err: errors.New("connection reset")}
	assert.Equal(t, http.StatusInternalServerError, perform(accountRouter(broken, claims), http.MethodGet, "/admin/audit", "Bearer good").Code)
}
