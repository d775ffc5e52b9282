package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/integrity-rating-api/internal/dto"
	"github.com/noah-isme/integrity-rating-api/internal/models"
	appErrors "github.com/noah-isme/integrity-rating-api/pkg/errors"
)

type fakeSubmissionService struct {
	kind   models.RatingKind
	target int64
	user   int64
	rating dto.SubmitRatingRequest
	err    error
}

func (f *fakeSubmissionService) SubmitNominee(ctx context.Context, req dto.SubmitNomineeRequest, userID int64) (*models.Nominee, error) {
	f.user = userID
	return &models.Nominee{ID: 1, Name: req.Name, Status: models.NomineeStatusPending}, f.err
}

func (f *fakeSubmissionService) SubmitInstitution(ctx context.Context, req dto.SubmitInstitutionRequest, userID int64) (*models.Institution, error) {
	f.user = userID
	return &models.Institution{ID: 2, Name: req.Name}, f.err
}

func (f *fakeSubmissionService) SubmitRating(ctx context.Context, kind models.RatingKind, targetID int64, req dto.SubmitRatingRequest, userID int64) (*models.Rating, error) {
	f.kind, f.target, f.user, f.rating = kind, targetID, userID, req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Rating{ID: 3, Kind: kind, TargetID: targetID, Status: models.RatingStatusPending}, nil
}

func (f *fakeSubmissionService) AddComment(ctx context.Context, kind models.RatingKind, targetID int64, req dto.SubmitCommentRequest, userID int64) (*models.Comment, error) {
	f.kind, f.target, f.user = kind, targetID, userID
	return &models.Comment{ID: 4, Kind: kind, TargetID: targetID}, f.err
}

func TestSubmitRatingRoute(t *testing.T) {
	svc := &fakeSubmissionService{}
	h := NewSubmissionHandler(svc)
	r := newRouter(21, models.RoleUser)
	r.POST("/institutions/:id/ratings", h.Rate(models.RatingKindInstitution))

	rec, _ := doJSON(t, r, http.MethodPost, "/institutions/5/ratings", map[string]interface{}{"ratingCategoryId": 2, "score": 4, "severity": 5})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, models.RatingKindInstitution, svc.kind)
	assert.Equal(t, int64(5), svc.target)
	assert.Equal(t, int64(21), svc.user)
	assert.Equal(t, 4, svc.rating.Score)
}

func TestSubmitRatingValidationSurfaces(t *testing.T) {
	svc := &fakeSubmissionService{err: appErrors.Clone(appErrors.ErrValidation, "invalid rating payload: Score must be at most 5")}
	r := newRouter(21, models.RoleUser)
	r.POST("/nominees/:id/ratings", NewSubmissionHandler(svc).Rate(models.RatingKindNominee))

	rec, envelope := doJSON(t, r, http.MethodPost, "/nominees/5/ratings", map[string]interface{}{"ratingCategoryId": 2, "score": 9, "severity": 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, envelope.Error.Message, "Score")
}

func TestSubmissionRequiresLogin(t *testing.T) {
	svc := &fakeSubmissionService{}
	r := newRouter(0, "")
	h := NewSubmissionHandler(svc)
	r.POST("/nominees", h.SubmitNominee)
	r.POST("/nominees/:id/comments", h.Comment(models.RatingKindNominee))

	rec, _ := doJSON(t, r, http.MethodPost, "/nominees", map[string]interface{}{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec, _ = doJSON(t, r, http.MethodPost, "/nominees/1/comments", map[string]interface{}{"content": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, svc.user)
}

func TestSubmissionRejectsMalformedBody(t *testing.T) {
	r := newRouter(21, models.RoleUser)
	r.POST("/institutions", NewSubmissionHandler(&fakeSubmissionService{}).SubmitInstitution)

	rec, _ := doJSON(t, r, http.MethodPost, "/institutions", "not an object")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
