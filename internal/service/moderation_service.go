package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/integrity-rating-api/internal/dto"
	"github.com/noah-isme/integrity-rating-api/internal/models"
	"github.com/noah-isme/integrity-rating-api/internal/repository"
	appErrors "github.com/noah-isme/integrity-rating-api/pkg/errors"
)

type moderationStore interface {
	WithinTx(ctx context.Context, fn func(repository.ModerationTx) error) error
	ListPending(ctx context.Context, query repository.PendingQuery) ([]models.Submission, int, error)
	NotificationTargets(ctx context.Context, entity models.EntityType, ids []int64) ([]models.NotificationTarget, error)
}

type auditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

type outcomeNotifier interface {
	Notify(ctx context.Context, n Notification) error
}

type dashboardInvalidator interface {
	InvalidateDashboard(ctx context.Context)
}

// TransitionResult describes a committed status change.
type TransitionResult struct {
	Entity  models.EntityType     `json:"type"`
	Action  models.Action         `json:"action"`
	Status  string                `json:"status"`
	IDs     []int64               `json:"ids"`
	Changes []models.StatusChange `json:"-"`
}

// ModerationServiceParams groups constructor dependencies.
type ModerationServiceParams struct {
	Store    moderationStore
	Audit    auditRecorder
	Notifier outcomeNotifier
	Cache    dashboardInvalidator
	Metrics  *MetricsService
	Logger   *zap.Logger
}

// ModerationService runs the status transition engine, aggregate recomputation and the review queue.
type ModerationService struct {
	store    moderationStore
	audit    auditRecorder
	notifier outcomeNotifier
	cache    dashboardInvalidator
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewModerationService constructs a ModerationService.
func NewModerationService(params ModerationServiceParams) *ModerationService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModerationService{
		store:    params.Store,
		audit:    params.Audit,
		notifier: params.Notifier,
		cache:    params.Cache,
		metrics:  params.Metrics,
		logger:   logger,
		now:      time.Now,
	}
}

type transitionCall struct {
	entity      models.EntityType
	ids         []int64
	action      models.Action
	actorID     int64
	auditAction string
	details     string
	metadata    map[string]interface{}
}

// Transition applies action to a single row.
func (s *ModerationService) Transition(ctx context.Context, entity models.EntityType, id int64, action models.Action, actorID int64) (*TransitionResult, error) {
	return s.run(ctx, transitionCall{
		entity:      entity,
		ids:         []int64{id},
		action:      action,
		actorID:     actorID,
		auditAction: string(action),
	})
}

// TransitionBatch applies action to every id in one transaction. Any missing id fails the
// whole batch and nothing is written. A committed batch produces exactly one audit entry.
func (s *ModerationService) TransitionBatch(ctx context.Context, entity models.EntityType, ids []int64, action models.Action, actorID int64) (*TransitionResult, error) {
	return s.run(ctx, transitionCall{
		entity:      entity,
		ids:         ids,
		action:      action,
		actorID:     actorID,
		auditAction: models.AdminActionBatchPrefix + string(action),
	})
}

// Approve runs the entity's approve action.
func (s *ModerationService) Approve(ctx context.Context, entity models.EntityType, id, actorID int64) (*TransitionResult, error) {
	return s.applyVerb(ctx, entity, id, actorID, VerbApprove)
}

// Reject runs the entity's reject action.
func (s *ModerationService) Reject(ctx context.Context, entity models.EntityType, id, actorID int64) (*TransitionResult, error) {
	return s.applyVerb(ctx, entity, id, actorID, VerbReject)
}

// Flag runs the entity's flag or investigate action.
func (s *ModerationService) Flag(ctx context.Context, entity models.EntityType, id, actorID int64) (*TransitionResult, error) {
	return s.applyVerb(ctx, entity, id, actorID, VerbFlag)
}

func (s *ModerationService) applyVerb(ctx context.Context, entity models.EntityType, id, actorID int64, verb QueueVerb) (*TransitionResult, error) {
	if err := validateEntity(entity); err != nil {
		return nil, err
	}
	action, err := ActionForVerb(entity, verb)
	if err != nil {
		return nil, err
	}
	return s.Transition(ctx, entity, id, action, actorID)
}

// BatchModerate resolves a batch request and applies it.
func (s *ModerationService) BatchModerate(ctx context.Context, req dto.BatchModerationRequest, actorID int64) (*TransitionResult, error) {
	entity, ok := models.ParseEntityType(req.Type)
	if !ok || entity == models.EntityAll {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported type %q", req.Type))
	}
	action, err := ParseAction(entity, req.Action)
	if err != nil {
		return nil, err
	}
	return s.TransitionBatch(ctx, entity, req.IDs, action, actorID)
}

// ChangeStatus moves a row to an explicit status, resolved back to its action.
func (s *ModerationService) ChangeStatus(ctx context.Context, entity models.EntityType, id int64, status string, actorID int64) (*TransitionResult, error) {
	if err := validateEntity(entity); err != nil {
		return nil, err
	}
	action, err := ActionForStatus(entity, status)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, transitionCall{
		entity:      entity,
		ids:         []int64{id},
		action:      action,
		actorID:     actorID,
		auditAction: models.AdminActionStatusChange,
		metadata:    map[string]interface{}{"requestedStatus": strings.ToUpper(strings.TrimSpace(status))},
	})
}

// DeleteRating removes a rating and, when it was verified, recomputes its target in the same transaction.
func (s *ModerationService) DeleteRating(ctx context.Context, kind models.RatingKind, id, actorID int64) error {
	if !kind.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported rating kind %q", kind))
	}
	if actorID <= 0 {
		return appErrors.Clone(appErrors.ErrUnauthorized, "moderator identity is required")
	}

	var deleted *models.Rating
	err := s.store.WithinTx(ctx, func(tx repository.ModerationTx) error {
		rating, err := tx.DeleteRating(ctx, kind, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("rating %d not found", id))
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete rating")
		}
		deleted = rating
		if rating.Status != models.RatingStatusVerified {
			return nil
		}
		return s.recompute(ctx, tx, kind, []int64{rating.TargetID})
	})
	if err != nil {
		return err
	}

	s.record(ctx, AuditEntry{
		Action:       models.AdminActionRatingDelete,
		ResourceType: string(ratingEntity(kind)),
		ResourceIDs:  []int64{id},
		AdminID:      actorID,
		Details:      fmt.Sprintf("deleted %s rating %d", strings.ToLower(string(kind)), id),
		Metadata: map[string]interface{}{
			"targetId": deleted.TargetID,
			"status":   deleted.Status,
		},
	})
	s.invalidate(ctx)
	return nil
}

func (s *ModerationService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateDashboard(ctx)
	}
}

// ListPending returns one page of the review queue.
func (s *ModerationService) ListPending(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, *models.Pagination, error) {
	types := filter.Types
	if len(types) == 0 {
		types = models.EntityTypes
	}
	status := filter.Status
	if status == "" {
		status = models.QueueStatusPending
	}
	if status != models.QueueStatusPending && status != models.QueueStatusFlagged {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported queue status %q", status))
	}

	page, pageSize := models.NormalizePage(filter.Page, filter.PageSize, 20, 100)
	items, total, err := s.store.ListPending(ctx, repository.PendingQuery{
		Statuses: queueStatuses(types, status),
		Search:   filter.Search,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	return items, models.NewPagination(page, pageSize, total), nil
}

func (s *ModerationService) run(ctx context.Context, call transitionCall) (*TransitionResult, error) {
	result, err := s.commit(ctx, call)
	outcome := "ok"
	if err != nil {
		outcome = appErrors.FromError(err).Code
	}
	s.metrics.RecordTransition(string(call.entity), string(call.action), outcome)
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, call, result)
	s.invalidate(ctx)
	s.notify(ctx, result)
	return result, nil
}

// commit validates everything before the first write and then applies the transition,
// its review stamps and any aggregate recomputation in one transaction.
func (s *ModerationService) commit(ctx context.Context, call transitionCall) (*TransitionResult, error) {
	if err := validateEntity(call.entity); err != nil {
		return nil, err
	}
	status, err := ResolveTransition(call.entity, call.action)
	if err != nil {
		return nil, err
	}
	ids, err := normalizeIDs(call.ids)
	if err != nil {
		return nil, err
	}
	if call.actorID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "moderator identity is required")
	}

	result := &TransitionResult{Entity: call.entity, Action: call.action, Status: status, IDs: ids}
	at := s.now().UTC()

	err = s.store.WithinTx(ctx, func(tx repository.ModerationTx) error {
		current, err := tx.LockStatuses(ctx, call.entity, ids)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load moderated rows")
		}
		if missing := missingIDs(ids, current); len(missing) > 0 {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found: %s", strings.ToLower(string(call.entity)), joinIDs(missing)))
		}

		if err := tx.UpdateStatuses(ctx, call.entity, ids, status, call.actorID, at); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update status")
		}

		affected := make([]int64, 0, len(ids))
		for _, id := range ids {
			result.Changes = append(result.Changes, models.StatusChange{ID: id, OldStatus: current[id], NewStatus: status})
			if current[id] == string(models.RatingStatusVerified) || status == string(models.RatingStatusVerified) {
				affected = append(affected, id)
			}
		}
		if !call.entity.IsRating() || len(affected) == 0 {
			return nil
		}

		kind := call.entity.RatingKind()
		targets, err := tx.RatingTargets(ctx, kind, affected)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve rating targets")
		}
		return s.recompute(ctx, tx, kind, targets)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// recompute locks each target in ascending id order before reading its verified ratings.
func (s *ModerationService) recompute(ctx context.Context, tx repository.ModerationTx, kind models.RatingKind, targets []int64) error {
	ordered := append([]int64(nil), targets...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })
	for _, target := range ordered {
		if err := tx.LockTarget(ctx, kind, target); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock rated entity")
		}
		scores, err := tx.VerifiedScores(ctx, kind, target)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load verified ratings")
		}
		if err := tx.SaveAggregate(ctx, kind, target, ComputeAggregate(scores)); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save aggregate rating")
		}
	}
	return nil
}

func (s *ModerationService) recordAudit(ctx context.Context, call transitionCall, result *TransitionResult) {
	details := call.details
	if details == "" {
		if len(result.IDs) == 1 {
			details = fmt.Sprintf("%s %d set to %s", strings.ToLower(string(call.entity)), result.IDs[0], result.Status)
		} else {
			details = fmt.Sprintf("%d %s records set to %s", len(result.IDs), strings.ToLower(string(call.entity)), result.Status)
		}
	}
	metadata := map[string]interface{}{
		"action": call.action,
		"status": result.Status,
	}
	previous := make(map[string]string, len(result.Changes))
	for _, change := range result.Changes {
		previous[strconv.FormatInt(change.ID, 10)] = change.OldStatus
	}
	metadata["previous"] = previous
	for k, v := range call.metadata {
		metadata[k] = v
	}

	s.record(ctx, AuditEntry{
		Action:       call.auditAction,
		ResourceType: string(call.entity),
		ResourceIDs:  result.IDs,
		AdminID:      call.actorID,
		Details:      details,
		Metadata:     metadata,
	})
}

func (s *ModerationService) record(ctx context.Context, entry AuditEntry) {
	if s.audit != nil {
		s.audit.Record(ctx, entry)
	}
}

// notify sends outcome notices for approved or rejected ratings and comments. Failures are logged only.
func (s *ModerationService) notify(ctx context.Context, result *TransitionResult) {
	if s.notifier == nil {
		return
	}
	if !result.Entity.IsRating() && !result.Entity.IsComment() {
		return
	}
	if result.Action != models.ActionApprove && result.Action != models.ActionReject {
		return
	}

	targets, err := s.store.NotificationTargets(ctx, result.Entity, result.IDs)
	if err != nil {
		s.logger.Warn("failed to resolve notification recipients", zap.String("type", string(result.Entity)), zap.Error(err))
		return
	}
	template := "rating_outcome"
	if result.Entity.IsComment() {
		template = "comment_outcome"
	}
	for _, target := range targets {
		err := s.notifier.Notify(ctx, Notification{
			Recipient:    target.Email,
			TemplateKind: template,
			Action:       string(result.Action),
			TargetName:   target.TargetName,
			ResourceType: string(result.Entity),
			ResourceID:   target.ResourceID,
		})
		if err != nil {
			s.metrics.RecordNotification("rejected")
			s.logger.Warn("failed to queue notification", zap.Int64("resource_id", target.ResourceID), zap.Error(err))
		}
	}
}

func validateEntity(entity models.EntityType) error {
	for _, known := range models.EntityTypes {
		if known == entity {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported type %q", entity))
}

func normalizeIDs(ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one id is required")
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid id %d", id))
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

func missingIDs(ids []int64, found map[int64]string) []int64 {
	var missing []int64
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}

func ratingEntity(kind models.RatingKind) models.EntityType {
	if kind == models.RatingKindInstitution {
		return models.EntityInstitutionRating
	}
	return models.EntityRating
}
