package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/integrity-rating-api/internal/models"
	appErrors "github.com/noah-isme/integrity-rating-api/pkg/errors"
)

type memoryAuthRepo struct {
	users  map[string]*models.User
	nextID int64
}

func newMemoryAuthRepo() *memoryAuthRepo {
	return &memoryAuthRepo{users: make(map[string]*models.User), nextID: 1}
}

func (m *memoryAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := m.users[strings.ToLower(email)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *memoryAuthRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = m.nextID
	m.nextID++
	m.users[user.Email] = user
	return nil
}

func newTestAuthService(repo *memoryAuthRepo) *AuthService {
	return NewAuthService(repo, nil, nil, AuthConfig{AccessTokenSecret: "secret", AccessTokenExpiry: time.Hour, Issuer: "test"})
}

func TestAuthRegisterAndLogin(t *testing.T) {
	repo := newMemoryAuthRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	info, err := svc.Register(ctx, models.RegisterRequest{Name: " Amina ", Email: "Amina@Example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, info.Role)
	assert.Equal(t, "amina@example.com", info.Email)
	assert.NotEqual(t, "supersecret", repo.users["amina@example.com"].PasswordHash)

	resp, err := svc.Login(ctx, models.LoginRequest{Email: "amina@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, info.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	repo := newMemoryAuthRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, models.RegisterRequest{Name: "A", Email: "a@example.com", Password: "supersecret"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, models.RegisterRequest{Name: "B", Email: "A@example.com", Password: "supersecret"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}

func TestAuthRegisterValidation(t *testing.T) {
	svc := newTestAuthService(newMemoryAuthRepo())
	_, err := svc.Register(context.Background(), models.RegisterRequest{Name: "A", Email: "a@example.com", Password: "short"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Contains(t, err.Error(), "Password must be at least 8")
}

func TestAuthLoginFailures(t *testing.T) {
	repo := newMemoryAuthRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.users["off@example.com"] = &models.User{ID: 5, Email: "off@example.com", PasswordHash: string(hash), Role: models.RoleUser, IsActive: false}
	svc := newTestAuthService(repo)
	ctx := context.Background()

	_, err = svc.Login(ctx, models.LoginRequest{Email: "off@example.com", Password: "wrongpass"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "off@example.com", Password: "supersecret"})
	assert.True(t, errors.Is(err, appErrors.ErrInactiveAccount))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "ghost@example.com", Password: "supersecret"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestAuthValidateTokenRejectsForeignSecret(t *testing.T) {
	repo := newMemoryAuthRepo()
	issuer := newTestAuthService(repo)
	ctx := context.Background()
	_, err := issuer.Register(ctx, models.RegisterRequest{Name: "A", Email: "a@example.com", Password: "supersecret"})
	require.NoError(t, err)
	resp, err := issuer.Login(ctx, models.LoginRequest{Email: "a@example.com", Password: "supersecret"})
	require.NoError(t, err)

	other := NewAuthService(repo, nil, nil, AuthConfig{AccessTokenSecret: "other"})
	_, err = other.ValidateToken(resp.AccessToken)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
