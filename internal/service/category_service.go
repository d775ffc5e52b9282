package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/integrity-rating-api/internal/dto"
	"github.com/noah-isme/integrity-rating-api/internal/models"
	appErrors "github.com/noah-isme/integrity-rating-api/pkg/errors"
)

type categoryRepository interface {
	List(ctx context.Context, kind models.RatingKind, activeOnly bool) ([]models.RatingCategory, error)
	FindByID(ctx context.Context, kind models.RatingKind, id int64) (*models.RatingCategory, error)
	ExistsByKeyword(ctx context.Context, kind models.RatingKind, keyword string, excludeID int64) (bool, error)
	Create(ctx context.Context, category *models.RatingCategory) error
	Update(ctx context.Context, category *models.RatingCategory) error
}

// CategoryService manages the weighted rating categories used by aggregation.
type CategoryService struct {
	repo       categoryRepository
	references referenceResolver
	audit      auditRecorder
	cache      dashboardInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(repo categoryRepository, references referenceResolver, audit auditRecorder, cache dashboardInvalidator, validate *validator.Validate, logger *zap.Logger) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CategoryService{repo: repo, references: references, audit: audit, cache: cache, validator: validate, logger: logger}
}

// List returns the categories of kind.
func (s *CategoryService) List(ctx context.Context, kind models.RatingKind, activeOnly bool) ([]models.RatingCategory, error) {
	if !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported rating kind %q", kind))
	}
	categories, err := s.repo.List(ctx, kind, activeOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rating categories")
	}
	return categories, nil
}

// Create adds a category.
func (s *CategoryService) Create(ctx context.Context, kind models.RatingKind, req dto.CategoryRequest, actorID int64) (*models.RatingCategory, error) {
	if err := s.validate(kind, &req); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueKeyword(ctx, kind, req.Keyword, 0); err != nil {
		return nil, err
	}

	category := &models.RatingCategory{Kind: kind, IsActive: true}
	if err := s.apply(ctx, category, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create rating category")
	}

	s.afterWrite(ctx, models.AdminActionCategoryCreate, category, actorID)
	return category, nil
}

// Update replaces a category's mutable fields.
func (s *CategoryService) Update(ctx context.Context, kind models.RatingKind, id int64, req dto.CategoryRequest, actorID int64) (*models.RatingCategory, error) {
	if err := s.validate(kind, &req); err != nil {
		return nil, err
	}
	category, err := s.repo.FindByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "rating category not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rating category")
	}
	if err := s.ensureUniqueKeyword(ctx, kind, req.Keyword, id); err != nil {
		return nil, err
	}

	if err := s.apply(ctx, category, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "rating category not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update rating category")
	}

	s.afterWrite(ctx, models.AdminActionCategoryUpdate, category, actorID)
	return category, nil
}

func (s *CategoryService) validate(kind models.RatingKind, req *dto.CategoryRequest) error {
	if !kind.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported rating kind %q", kind))
	}
	req.Keyword = strings.ToLower(strings.TrimSpace(req.Keyword))
	req.Name = strings.TrimSpace(req.Name)
	if req.Weight < 1 || req.Weight > 100 {
		return appErrors.Clone(appErrors.ErrInvalidWeight, fmt.Sprintf("weight must be between 1 and 100, got %d", req.Weight))
	}
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid category payload")
	}
	return nil
}

func (s *CategoryService) ensureUniqueKeyword(ctx context.Context, kind models.RatingKind, keyword string, excludeID int64) error {
	exists, err := s.repo.ExistsByKeyword(ctx, kind, keyword, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check category keyword")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("category keyword %q already exists", keyword))
	}
	return nil
}

// apply copies the request onto category and registers department and impact area names.
func (s *CategoryService) apply(ctx context.Context, category *models.RatingCategory, req dto.CategoryRequest) error {
	departments, err := s.registerNames(ctx, models.ReferenceDepartments, req.Departments)
	if err != nil {
		return err
	}
	impactAreas, err := s.registerNames(ctx, models.ReferenceImpactAreas, req.ImpactAreas)
	if err != nil {
		return err
	}

	category.Keyword = req.Keyword
	category.Name = req.Name
	category.Icon = strings.TrimSpace(req.Icon)
	category.Description = strings.TrimSpace(req.Description)
	category.Weight = req.Weight
	category.Examples = pq.StringArray(trimAll(req.Examples))
	category.Departments = pq.StringArray(departments)
	category.ImpactAreas = pq.StringArray(impactAreas)
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	return nil
}

func (s *CategoryService) registerNames(ctx context.Context, table models.ReferenceTable, names []string) ([]string, error) {
	cleaned := trimAll(names)
	if s.references == nil {
		return cleaned, nil
	}
	for _, name := range cleaned {
		if _, err := s.references.FindOrCreate(ctx, table, name); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to register %s", table))
		}
	}
	return cleaned, nil
}

func (s *CategoryService) afterWrite(ctx context.Context, action string, category *models.RatingCategory, actorID int64) {
	if s.audit != nil {
		s.audit.Record(ctx, AuditEntry{
			Action:       action,
			ResourceType: strings.ToLower(string(category.Kind)) + "_rating_category",
			ResourceIDs:  []int64{category.ID},
			AdminID:      actorID,
			Details:      fmt.Sprintf("category %s weight %d", category.Keyword, category.Weight),
			Metadata: map[string]interface{}{
				"keyword":  category.Keyword,
				"weight":   category.Weight,
				"isActive": category.IsActive,
			},
		})
	}
	if s.cache != nil {
		s.cache.InvalidateDashboard(ctx)
	}
	s.logger.Info("rating category saved", zap.String("action", action), zap.Int64("category_id", category.ID))
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
