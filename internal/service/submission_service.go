package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/integrity-rating-api/internal/dto"
	"github.com/noah-isme/integrity-rating-api/internal/models"
	appErrors "github.com/noah-isme/integrity-rating-api/pkg/errors"
)

type submissionStore interface {
	CreateNominee(ctx context.Context, nominee *models.Nominee) error
	CreateInstitution(ctx context.Context, institution *models.Institution) error
	FindInstitutionIDByName(ctx context.Context, name string) (int64, error)
	TargetExists(ctx context.Context, kind models.RatingKind, id int64) (bool, error)
	CreateRating(ctx context.Context, rating *models.Rating) error
	CreateComment(ctx context.Context, comment *models.Comment) error
}

type referenceResolver interface {
	FindOrCreate(ctx context.Context, table models.ReferenceTable, name string) (int64, error)
}

type categoryFinder interface {
	FindByID(ctx context.Context, kind models.RatingKind, id int64) (*models.RatingCategory, error)
}

// SubmissionService creates citizen submissions in their initial moderation state.
type SubmissionService struct {
	store      submissionStore
	references referenceResolver
	categories categoryFinder
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(store submissionStore, references referenceResolver, categories categoryFinder, validate *validator.Validate, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubmissionService{store: store, references: references, categories: categories, validator: validate, logger: logger}
}

// SubmitNominee records a nominee as PENDING, resolving position, district and institution by name.
func (s *SubmissionService) SubmitNominee(ctx context.Context, req dto.SubmitNomineeRequest, userID int64) (*models.Nominee, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Institution = strings.TrimSpace(req.Institution)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid nominee payload")
	}
	if req.InstitutionID == 0 && req.Institution == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid nominee payload: institutionId or institution is required")
	}

	institutionID, err := s.resolveInstitution(ctx, req, userID)
	if err != nil {
		return nil, err
	}
	positionID, err := s.references.FindOrCreate(ctx, models.ReferencePositions, req.Position)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve position")
	}
	districtID, err := s.references.FindOrCreate(ctx, models.ReferenceDistricts, req.District)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve district")
	}

	submitter := userID
	nominee := &models.Nominee{
		Name:          req.Name,
		Title:         strings.TrimSpace(req.Title),
		Evidence:      req.Evidence,
		Status:        models.NomineeStatusPending,
		PositionID:    positionID,
		InstitutionID: institutionID,
		DistrictID:    districtID,
		SubmittedBy:   &submitter,
	}
	if err := s.store.CreateNominee(ctx, nominee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create nominee")
	}
	s.logger.Info("nominee submitted", zap.Int64("nominee_id", nominee.ID), zap.Int64("user_id", userID))
	return nominee, nil
}

// SubmitInstitution registers an institution. Institutions start ACTIVE; they have no pending state.
func (s *SubmissionService) SubmitInstitution(ctx context.Context, req dto.SubmitInstitutionRequest, userID int64) (*models.Institution, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Type = strings.ToUpper(strings.TrimSpace(req.Type))
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid institution payload")
	}
	existing, err := s.store.FindInstitutionIDByName(ctx, req.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check institution")
	}
	if existing > 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "institution already exists")
	}

	institution, err := s.createInstitution(ctx, req.Name, models.InstitutionType(req.Type), userID)
	if err != nil {
		return nil, err
	}
	return institution, nil
}

// SubmitRating records a PENDING rating. Aggregates are untouched until it is verified.
func (s *SubmissionService) SubmitRating(ctx context.Context, kind models.RatingKind, targetID int64, req dto.SubmitRatingRequest, userID int64) (*models.Rating, error) {
	if !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported rating kind %q", kind))
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid rating payload")
	}
	if err := s.ensureTarget(ctx, kind, targetID); err != nil {
		return nil, err
	}

	category, err := s.categories.FindByID(ctx, kind, req.RatingCategoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "rating category not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rating category")
	}
	if !category.IsActive {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rating category is inactive")
	}

	rating := &models.Rating{
		Kind:             kind,
		UserID:           userID,
		TargetID:         targetID,
		RatingCategoryID: category.ID,
		Score:            req.Score,
		Severity:         req.Severity,
		Evidence:         strings.TrimSpace(req.Evidence),
		Status:           models.RatingStatusPending,
	}
	if err := s.store.CreateRating(ctx, rating); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create rating")
	}
	return rating, nil
}

// AddComment records a PENDING comment.
func (s *SubmissionService) AddComment(ctx context.Context, kind models.RatingKind, targetID int64, req dto.SubmitCommentRequest, userID int64) (*models.Comment, error) {
	if !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported comment kind %q", kind))
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid comment payload")
	}
	if err := s.ensureTarget(ctx, kind, targetID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Kind:     kind,
		Content:  req.Content,
		UserID:   userID,
		TargetID: targetID,
		Status:   models.CommentStatusPending,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create comment")
	}
	return comment, nil
}

func (s *SubmissionService) resolveInstitution(ctx context.Context, req dto.SubmitNomineeRequest, userID int64) (int64, error) {
	if req.InstitutionID > 0 {
		if err := s.ensureTarget(ctx, models.RatingKindInstitution, req.InstitutionID); err != nil {
			return 0, err
		}
		return req.InstitutionID, nil
	}
	id, err := s.store.FindInstitutionIDByName(ctx, req.Institution)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve institution")
	}
	if id > 0 {
		return id, nil
	}
	institution, err := s.createInstitution(ctx, req.Institution, models.InstitutionTypeGovernment, userID)
	if err != nil {
		return 0, err
	}
	return institution.ID, nil
}

func (s *SubmissionService) createInstitution(ctx context.Context, name string, kind models.InstitutionType, userID int64) (*models.Institution, error) {
	submitter := userID
	institution := &models.Institution{
		Name:        name,
		Type:        kind,
		Status:      models.InstitutionStatusActive,
		SubmittedBy: &submitter,
	}
	if err := s.store.CreateInstitution(ctx, institution); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create institution")
	}
	s.logger.Info("institution created", zap.Int64("institution_id", institution.ID), zap.Int64("user_id", userID))
	return institution, nil
}

func (s *SubmissionService) ensureTarget(ctx context.Context, kind models.RatingKind, id int64) error {
	if id <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "invalid target id")
	}
	exists, err := s.store.TargetExists(ctx, kind, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load target")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s %d not found", strings.ToLower(string(kind)), id))
	}
	return nil
}
