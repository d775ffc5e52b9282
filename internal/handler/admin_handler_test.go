package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/integrity-rating-api/internal/dto"
	"github.com/noah-isme/integrity-rating-api/internal/models"
	appErrors "github.com/noah-isme/integrity-rating-api/pkg/errors"
)

type fakeCategoryService struct {
	activeOnly bool
	actor      int64
	id         int64
	req        dto.CategoryRequest
}

func (f *fakeCategoryService) List(ctx context.Context, kind models.RatingKind, activeOnly bool) ([]models.RatingCategory, error) {
	f.activeOnly = activeOnly
	return nil, nil
}

func (f *fakeCategoryService) Create(ctx context.Context, kind models.RatingKind, req dto.CategoryRequest, actorID int64) (*models.RatingCategory, error) {
	f.req, f.actor = req, actorID
	return &models.RatingCategory{ID: 9, Kind: kind, Keyword: req.Keyword}, nil
}

func (f *fakeCategoryService) Update(ctx context.Context, kind models.RatingKind, id int64, req dto.CategoryRequest, actorID int64) (*models.RatingCategory, error) {
	f.id, f.req, f.actor = id, req, actorID
	if req.Weight > 100 {
		return nil, appErrors.ErrInvalidWeight
	}
	return &models.RatingCategory{ID: id, Kind: kind}, nil
}

type fakeUserService struct {
	filter models.UserFilter
	role   string
	active *bool
}

func (f *fakeUserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	f.filter = filter
	return []models.User{}, models.NewPagination(filter.Page, filter.PageSize, 0), nil
}

func (f *fakeUserService) ChangeRole(ctx context.Context, id int64, req dto.UpdateRoleRequest, actorID int64) (*models.User, error) {
	f.role = req.Role
	return &models.User{ID: id, Role: models.UserRole(req.Role)}, nil
}

func (f *fakeUserService) ChangeStatus(ctx context.Context, id int64, req dto.UpdateStatusRequest, actorID int64) (*models.User, error) {
	f.active = req.IsActive
	return &models.User{ID: id}, nil
}

type fakeAuthService struct{}

func (fakeAuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.UserInfo, error) {
	return &models.UserInfo{ID: 1, Name: req.Name, Email: req.Email, Role: models.RoleUser}, nil
}

func (fakeAuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if req.Password != "correct horse" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid credentials")
	}
	return &models.LoginResponse{AccessToken: "token", User: models.UserInfo{ID: 1}}, nil
}

func TestCategoryListDefaultsToActive(t *testing.T) {
	svc := &fakeCategoryService{}
	r := newRouter(0, "")
	r.GET("/categories/:kind", NewCategoryHandler(svc).List)

	rec, envelope := doJSON(t, r, http.MethodGet, "/categories/nominees", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.activeOnly)
	assert.JSONEq(t, `[]`, string(envelope.Data))

	_, _ = doJSON(t, r, http.MethodGet, "/categories/institutions?active=false", nil)
	assert.False(t, svc.activeOnly)
}

func TestCategoryCreateAndUpdate(t *testing.T) {
	svc := &fakeCategoryService{}
	h := NewCategoryHandler(svc)
	r := newRouter(1, models.RoleAdmin)
	r.POST("/categories/:kind", h.Create)
	r.PUT("/categories/:kind/:id", h.Update)

	body := map[string]interface{}{"keyword": "bribery", "name": "Bribery", "weight": 30}
	rec, _ := doJSON(t, r, http.MethodPost, "/categories/nominees", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "bribery", svc.req.Keyword)
	assert.Equal(t, int64(1), svc.actor)

	body["weight"] = 150
	rec, envelope := doJSON(t, r, http.MethodPut, "/categories/institutions/4", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, int64(4), svc.id)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrInvalidWeight.Code, envelope.Error.Code)
}

func TestUserAdminRoutes(t *testing.T) {
	svc := &fakeUserService{}
	h := NewUserHandler(svc)
	r := newRouter(1, models.RoleAdmin)
	r.GET("/users", h.List)
	r.PATCH("/users/:id/role", h.ChangeRole)
	r.PATCH("/users/:id/status", h.ChangeStatus)

	rec, _ := doJSON(t, r, http.MethodGet, "/users?role=moderator&active=true&search=%20jane%20", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.filter.Role)
	assert.Equal(t, models.RoleModerator, *svc.filter.Role)
	require.NotNil(t, svc.filter.Active)
	assert.True(t, *svc.filter.Active)
	assert.Equal(t, "jane", svc.filter.Search)

	rec, _ = doJSON(t, r, http.MethodPatch, "/users/5/role", map[string]string{"role": " admin "})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ADMIN", svc.role)

	rec, _ = doJSON(t, r, http.MethodPatch, "/users/5/status", map[string]bool{"isActive": false})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.active)
	assert.False(t, *svc.active)
}

func TestAuthRoutes(t *testing.T) {
	h := NewAuthHandler(fakeAuthService{})
	r := newRouter(0, "")
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)

	rec, _ := doJSON(t, r, http.MethodPost, "/auth/register", map[string]string{"name": "Jane", "email": "jane@example.com", "password": "correct horse"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, envelope := doJSON(t, r, http.MethodPost, "/auth/login", map[string]string{"email": "jane@example.com", "password": "correct horse"})
	require.Equal(t, http.StatusOK, rec.Code)
	var login models.LoginResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &login))
	assert.Equal(t, "token", login.AccessToken)

	rec, _ = doJSON(t, r, http.MethodPost, "/auth/login", map[string]string{"email": "jane@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
