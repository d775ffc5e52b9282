package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/integrity-rating-api/internal/dto"
	"github.com/noah-isme/integrity-rating-api/internal/models"
	appErrors "github.com/noah-isme/integrity-rating-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	UpdateRole(ctx context.Context, id int64, role models.UserRole) error
	UpdateStatus(ctx context.Context, id int64, active bool) error
}

// UserService handles admin user management.
type UserService struct {
	repo      userRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns paginated users and pagination metadata.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	if filter.Role != nil && !filter.Role.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid role filter")
	}
	page, pageSize := models.NormalizePage(filter.Page, filter.PageSize, 20, 100)
	filter.Page, filter.PageSize = page, pageSize

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	if users == nil {
		users = []models.User{}
	}
	return users, models.NewPagination(page, pageSize, total), nil
}

// ChangeRole assigns a new role. Admins cannot change their own role.
func (s *UserService) ChangeRole(ctx context.Context, id int64, req dto.UpdateRoleRequest, actorID int64) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid role payload")
	}
	if id == actorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot change your own role")
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := user.Role
	role := models.UserRole(req.Role)
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, s.mapWriteError(err, "failed to update role")
	}
	user.Role = role

	s.audit.Record(ctx, AuditEntry{
		Action:       models.AdminActionUserRoleChange,
		ResourceType: "USER",
		ResourceIDs:  []int64{id},
		AdminID:      actorID,
		Details:      "role changed from " + string(previous) + " to " + string(role),
		Metadata:     map[string]interface{}{"from": previous, "to": role},
	})
	return user, nil
}

// ChangeStatus activates or deactivates a user. Admins cannot deactivate themselves.
func (s *UserService) ChangeStatus(ctx context.Context, id int64, req dto.UpdateStatusRequest, actorID int64) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid status payload")
	}
	active := *req.IsActive
	if id == actorID && !active {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot deactivate your own account")
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, active); err != nil {
		return nil, s.mapWriteError(err, "failed to update status")
	}
	user.IsActive = active

	details := "user deactivated"
	if active {
		details = "user activated"
	}
	s.audit.Record(ctx, AuditEntry{
		Action:       models.AdminActionUserStatusChange,
		ResourceType: "USER",
		ResourceIDs:  []int64{id},
		AdminID:      actorID,
		Details:      details,
		Metadata:     map[string]interface{}{"isActive": active},
	})
	return user, nil
}

func (s *UserService) load(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

func (s *UserService) mapWriteError(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
