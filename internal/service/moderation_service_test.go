package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/integrity-rating-api/internal/dto"
	"github.com/noah-isme/integrity-rating-api/internal/models"
	"github.com/noah-isme/integrity-rating-api/internal/repository"
	appErrors "github.com/noah-isme/integrity-rating-api/pkg/errors"
)

type fakeRow struct {
	status string
	target int64
	score  int
	weight int
	email  string
}

// fakeModerationStore keeps rows in memory and restores them when a transaction fails.
type fakeModerationStore struct {
	rows       map[models.EntityType]map[int64]*fakeRow
	aggregates map[models.RatingKind]map[int64]models.Aggregate
	txCount    int
	updates    int
	updateErr  error
	pending    repository.PendingQuery
	queue      []models.Submission
	queueTotal int
	locked     []int64
}

func newFakeModerationStore() *fakeModerationStore {
	return &fakeModerationStore{
		rows:       make(map[models.EntityType]map[int64]*fakeRow),
		aggregates: map[models.RatingKind]map[int64]models.Aggregate{models.RatingKindNominee: {}, models.RatingKindInstitution: {}},
	}
}

func (s *fakeModerationStore) put(entity models.EntityType, id int64, row fakeRow) {
	if s.rows[entity] == nil {
		s.rows[entity] = make(map[int64]*fakeRow)
	}
	r := row
	s.rows[entity][id] = &r
}

func (s *fakeModerationStore) status(entity models.EntityType, id int64) string {
	return s.rows[entity][id].status
}

func (s *fakeModerationStore) WithinTx(ctx context.Context, fn func(repository.ModerationTx) error) error {
	s.txCount++
	rowsBackup := make(map[models.EntityType]map[int64]*fakeRow, len(s.rows))
	for entity, rows := range s.rows {
		rowsBackup[entity] = make(map[int64]*fakeRow, len(rows))
		for id, row := range rows {
			r := *row
			rowsBackup[entity][id] = &r
		}
	}
	aggBackup := make(map[models.RatingKind]map[int64]models.Aggregate, len(s.aggregates))
	for kind, aggs := range s.aggregates {
		aggBackup[kind] = make(map[int64]models.Aggregate, len(aggs))
		for id, agg := range aggs {
			aggBackup[kind][id] = agg
		}
	}
	if err := fn(&fakeModerationTx{store: s}); err != nil {
		s.rows = rowsBackup
		s.aggregates = aggBackup
		return err
	}
	return nil
}

func (s *fakeModerationStore) ListPending(ctx context.Context, query repository.PendingQuery) ([]models.Submission, int, error) {
	s.pending = query
	return s.queue, s.queueTotal, nil
}

func (s *fakeModerationStore) NotificationTargets(ctx context.Context, entity models.EntityType, ids []int64) ([]models.NotificationTarget, error) {
	var out []models.NotificationTarget
	for _, id := range ids {
		if row, ok := s.rows[entity][id]; ok && row.email != "" {
			out = append(out, models.NotificationTarget{ResourceID: id, Email: row.email, TargetName: "Target"})
		}
	}
	return out, nil
}

type fakeModerationTx struct {
	store *fakeModerationStore
}

func (t *fakeModerationTx) LockStatuses(ctx context.Context, entity models.EntityType, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string)
	for _, id := range ids {
		if row, ok := t.store.rows[entity][id]; ok {
			out[id] = row.status
		}
	}
	return out, nil
}

func (t *fakeModerationTx) UpdateStatuses(ctx context.Context, entity models.EntityType, ids []int64, status string, reviewerID int64, at time.Time) error {
	if t.store.updateErr != nil {
		return t.store.updateErr
	}
	t.store.updates++
	for _, id := range ids {
		t.store.rows[entity][id].status = status
	}
	return nil
}

func (t *fakeModerationTx) RatingTargets(ctx context.Context, kind models.RatingKind, ids []int64) ([]int64, error) {
	seen := make(map[int64]struct{})
	var targets []int64
	for _, id := range ids {
		row := t.store.rows[ratingEntity(kind)][id]
		if _, ok := seen[row.target]; ok {
			continue
		}
		seen[row.target] = struct{}{}
		targets = append(targets, row.target)
	}
	return targets, nil
}

func (t *fakeModerationTx) LockTarget(ctx context.Context, kind models.RatingKind, targetID int64) error {
	t.store.locked = append(t.store.locked, targetID)
	return nil
}

func (t *fakeModerationTx) VerifiedScores(ctx context.Context, kind models.RatingKind, targetID int64) ([]models.WeightedScore, error) {
	var scores []models.WeightedScore
	for _, row := range t.store.rows[ratingEntity(kind)] {
		if row.target == targetID && row.status == string(models.RatingStatusVerified) {
			scores = append(scores, models.WeightedScore{Score: row.score, Weight: row.weight})
		}
	}
	return scores, nil
}

func (t *fakeModerationTx) SaveAggregate(ctx context.Context, kind models.RatingKind, targetID int64, aggregate models.Aggregate) error {
	t.store.aggregates[kind][targetID] = aggregate
	return nil
}

func (t *fakeModerationTx) DeleteRating(ctx context.Context, kind models.RatingKind, id int64) (*models.Rating, error) {
	row, ok := t.store.rows[ratingEntity(kind)][id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	delete(t.store.rows[ratingEntity(kind)], id)
	return &models.Rating{ID: id, Kind: kind, TargetID: row.target, Score: row.score, Status: models.RatingStatus(row.status)}, nil
}

type auditSpy struct {
	entries []AuditEntry
}

func (a *auditSpy) Record(ctx context.Context, entry AuditEntry) {
	a.entries = append(a.entries, entry)
}

type notifierSpy struct {
	sent []Notification
	err  error
}

func (n *notifierSpy) Notify(ctx context.Context, notification Notification) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, notification)
	return nil
}

type invalidatorSpy struct {
	calls int
}

func (c *invalidatorSpy) InvalidateDashboard(ctx context.Context) {
	c.calls++
}

type moderationFixture struct {
	store    *fakeModerationStore
	audit    *auditSpy
	notifier *notifierSpy
	cache    *invalidatorSpy
	svc      *ModerationService
}

const moderatorID int64 = 99

func newModerationFixture() *moderationFixture {
	f := &moderationFixture{
		store:    newFakeModerationStore(),
		audit:    &auditSpy{},
		notifier: &notifierSpy{},
		cache:    &invalidatorSpy{},
	}
	f.svc = NewModerationService(ModerationServiceParams{
		Store:    f.store,
		Audit:    f.audit,
		Notifier: f.notifier,
		Cache:    f.cache,
		Metrics:  NewMetricsService(),
	})
	return f
}

// seedNomineeRatings creates two pending ratings for nominee 7: score 4 weight 30 and score 5 weight 20.
func (f *moderationFixture) seedNomineeRatings() {
	f.store.put(models.EntityRating, 1, fakeRow{status: "PENDING", target: 7, score: 4, weight: 30, email: "a@example.com"})
	f.store.put(models.EntityRating, 2, fakeRow{status: "PENDING", target: 7, score: 5, weight: 20, email: "b@example.com"})
}

func (f *moderationFixture) nomineeAggregate(t *testing.T) models.Aggregate {
	t.Helper()
	agg, ok := f.store.aggregates[models.RatingKindNominee][7]
	require.True(t, ok, "aggregate for nominee 7 was never written")
	return agg
}

func TestModerationApproveBatchComputesWeightedAverage(t *testing.T) {
	f := newModerationFixture()
	f.seedNomineeRatings()

	result, err := f.svc.TransitionBatch(context.Background(), models.EntityRating, []int64{1, 2}, models.ActionApprove, moderatorID)
	require.NoError(t, err)
	assert.Equal(t, "VERIFIED", result.Status)
	assert.ElementsMatch(t, []int64{1, 2}, result.IDs)

	agg := f.nomineeAggregate(t)
	assert.Equal(t, 2, agg.TotalRatings)
	require.NotNil(t, agg.AverageRating)
	assert.InDelta(t, 1.10, *agg.AverageRating, 1e-9)
}

func TestModerationRejectAfterVerifyExcludesRating(t *testing.T) {
	f := newModerationFixture()
	f.seedNomineeRatings()
	ctx := context.Background()

	_, err := f.svc.TransitionBatch(ctx, models.EntityRating, []int64{1, 2}, models.ActionApprove, moderatorID)
	require.NoError(t, err)

	_, err = f.svc.Reject(ctx, models.EntityRating, 2, moderatorID)
	require.NoError(t, err)
	agg := f.nomineeAggregate(t)
	assert.Equal(t, 1, agg.TotalRatings)
	require.NotNil(t, agg.AverageRating)
	assert.InDelta(t, 1.2, *agg.AverageRating, 1e-9)

	_, err = f.svc.Reject(ctx, models.EntityRating, 1, moderatorID)
	require.NoError(t, err)
	agg = f.nomineeAggregate(t)
	assert.Equal(t, 0, agg.TotalRatings)
	assert.Nil(t, agg.AverageRating)
}

func TestModerationReapplyingTransitionIsIdempotent(t *testing.T) {
	f := newModerationFixture()
	f.seedNomineeRatings()
	ctx := context.Background()

	_, err := f.svc.Approve(ctx, models.EntityRating, 1, moderatorID)
	require.NoError(t, err)
	first := f.nomineeAggregate(t)

	_, err = f.svc.Approve(ctx, models.EntityRating, 1, moderatorID)
	require.NoError(t, err)
	second := f.nomineeAggregate(t)

	assert.Equal(t, "VERIFIED", f.store.status(models.EntityRating, 1))
	assert.Equal(t, 1, second.TotalRatings)
	assert.Equal(t, first.TotalRatings, second.TotalRatings)
	assert.InDelta(t, *first.AverageRating, *second.AverageRating, 1e-9)
}

func TestModerationBatchWritesSingleAuditEntry(t *testing.T) {
	f := newModerationFixture()
	f.store.put(models.EntityComment, 10, fakeRow{status: "PENDING"})
	f.store.put(models.EntityComment, 11, fakeRow{status: "PENDING"})
	f.store.put(models.EntityComment, 12, fakeRow{status: "PENDING"})

	result, err := f.svc.BatchModerate(context.Background(), dto.BatchModerationRequest{
		IDs:    []int64{10, 11, 12, 11},
		Action: "flag",
		Type:   "COMMENT",
	}, moderatorID)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11, 12}, result.IDs)
	assert.Equal(t, "FLAGGED", result.Status)

	require.Len(t, f.audit.entries, 1)
	entry := f.audit.entries[0]
	assert.Equal(t, "BATCH_FLAG", entry.Action)
	assert.Equal(t, "COMMENT", entry.ResourceType)
	assert.Equal(t, []int64{10, 11, 12}, entry.ResourceIDs)
	assert.Equal(t, moderatorID, entry.AdminID)
	assert.Equal(t, 1, f.store.txCount)
	assert.Equal(t, 1, f.cache.calls)
}

func TestModerationInvalidActionRejectedBeforeWrite(t *testing.T) {
	f := newModerationFixture()
	f.store.put(models.EntityComment, 10, fakeRow{status: "PENDING"})

	_, err := f.svc.Transition(context.Background(), models.EntityComment, 10, models.ActionVerify, moderatorID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidAction))
	assert.Equal(t, 0, f.store.txCount)
	assert.Equal(t, "PENDING", f.store.status(models.EntityComment, 10))
	assert.Empty(t, f.audit.entries)
	assert.Empty(t, f.notifier.sent)
}

func TestModerationRejectRatingNotifiesAndAuditsOnce(t *testing.T) {
	f := newModerationFixture()
	f.seedNomineeRatings()

	_, err := f.svc.Reject(context.Background(), models.EntityRating, 1, moderatorID)
	require.NoError(t, err)

	require.Len(t, f.notifier.sent, 1)
	n := f.notifier.sent[0]
	assert.Equal(t, "a@example.com", n.Recipient)
	assert.Equal(t, "REJECT", n.Action)
	assert.Equal(t, "rating_outcome", n.TemplateKind)
	assert.Equal(t, int64(1), n.ResourceID)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, "REJECT", f.audit.entries[0].Action)
	assert.Equal(t, "REJECTED", f.store.status(models.EntityRating, 1))
}

func TestModerationMissingIDFailsWholeBatch(t *testing.T) {
	f := newModerationFixture()
	f.seedNomineeRatings()

	_, err := f.svc.TransitionBatch(context.Background(), models.EntityRating, []int64{1, 3, 2}, models.ActionApprove, moderatorID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Contains(t, err.Error(), "3")

	assert.Equal(t, "PENDING", f.store.status(models.EntityRating, 1))
	assert.Equal(t, "PENDING", f.store.status(models.EntityRating, 2))
	assert.Equal(t, 0, f.store.updates)
	assert.Empty(t, f.store.aggregates[models.RatingKindNominee])
	assert.Empty(t, f.audit.entries)
	assert.Empty(t, f.notifier.sent)
	assert.Equal(t, 0, f.cache.calls)
}

func TestModerationPersistenceFailureRollsBack(t *testing.T) {
	f := newModerationFixture()
	f.seedNomineeRatings()
	f.store.updateErr = errors.New("connection reset")

	_, err := f.svc.Approve(context.Background(), models.EntityRating, 1, moderatorID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
	assert.Equal(t, "PENDING", f.store.status(models.EntityRating, 1))
	assert.Empty(t, f.audit.entries)
}

func TestModerationNotificationFailureDoesNotFailTransition(t *testing.T) {
	f := newModerationFixture()
	f.seedNomineeRatings()
	f.notifier.err = errors.New("queue full")

	result, err := f.svc.Approve(context.Background(), models.EntityRating, 2, moderatorID)
	require.NoError(t, err)
	assert.Equal(t, "VERIFIED", result.Status)
	assert.Len(t, f.audit.entries, 1)
}

func TestModerationQueueVerbsResolvePerEntity(t *testing.T) {
	f := newModerationFixture()
	f.store.put(models.EntityNominee, 5, fakeRow{status: "PENDING"})
	f.store.put(models.EntityInstitution, 6, fakeRow{status: "ACTIVE"})
	ctx := context.Background()

	result, err := f.svc.Approve(ctx, models.EntityNominee, 5, moderatorID)
	require.NoError(t, err)
	assert.Equal(t, models.ActionVerify, result.Action)
	assert.Equal(t, "VERIFIED", f.store.status(models.EntityNominee, 5))

	result, err = f.svc.Flag(ctx, models.EntityInstitution, 6, moderatorID)
	require.NoError(t, err)
	assert.Equal(t, models.ActionInvestigate, result.Action)
	assert.Equal(t, "UNDER_INVESTIGATION", f.store.status(models.EntityInstitution, 6))

	assert.Empty(t, f.notifier.sent)
	assert.Empty(t, f.store.aggregates[models.RatingKindNominee])
}

func TestModerationChangeStatus(t *testing.T) {
	f := newModerationFixture()
	f.seedNomineeRatings()
	ctx := context.Background()

	result, err := f.svc.ChangeStatus(ctx, models.EntityRating, 1, "under_review", moderatorID)
	require.NoError(t, err)
	assert.Equal(t, models.ActionFlag, result.Action)
	assert.Equal(t, "UNDER_REVIEW", f.store.status(models.EntityRating, 1))
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, models.AdminActionStatusChange, f.audit.entries[0].Action)

	_, err = f.svc.ChangeStatus(ctx, models.EntityRating, 1, "ARCHIVED", moderatorID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestModerationRequiresActor(t *testing.T) {
	f := newModerationFixture()
	f.seedNomineeRatings()

	_, err := f.svc.Approve(context.Background(), models.EntityRating, 1, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
	assert.Equal(t, 0, f.store.txCount)
}

func TestModerationDeleteVerifiedRatingRecomputes(t *testing.T) {
	f := newModerationFixture()
	f.seedNomineeRatings()
	ctx := context.Background()

	_, err := f.svc.TransitionBatch(ctx, models.EntityRating, []int64{1, 2}, models.ActionApprove, moderatorID)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteRating(ctx, models.RatingKindNominee, 2, moderatorID))
	agg := f.nomineeAggregate(t)
	assert.Equal(t, 1, agg.TotalRatings)
	assert.InDelta(t, 1.2, *agg.AverageRating, 1e-9)

	last := f.audit.entries[len(f.audit.entries)-1]
	assert.Equal(t, models.AdminActionRatingDelete, last.Action)
	assert.Equal(t, []int64{2}, last.ResourceIDs)

	err = f.svc.DeleteRating(ctx, models.RatingKindNominee, 2, moderatorID)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestModerationListPendingMapsFlaggedStatuses(t *testing.T) {
	f := newModerationFixture()
	f.store.queue = []models.Submission{{ID: 1, Type: models.EntityRating}}
	f.store.queueTotal = 41

	items, pagination, err := f.svc.ListPending(context.Background(), models.SubmissionFilter{
		Types:    []models.EntityType{models.EntityNominee, models.EntityRating, models.EntityComment},
		Status:   models.QueueStatusFlagged,
		Page:     2,
		PageSize: 20,
	})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.Equal(t, map[models.EntityType]string{
		models.EntityNominee: "UNDER_INVESTIGATION",
		models.EntityRating:  "UNDER_REVIEW",
		models.EntityComment: "FLAGGED",
	}, f.store.pending.Statuses)

	_, _, err = f.svc.ListPending(context.Background(), models.SubmissionFilter{Status: "ARCHIVED"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestModerationRecomputeLocksTargetsInAscendingOrder(t *testing.T) {
	f := newModerationFixture()
	f.store.put(models.EntityRating, 1, fakeRow{status: "PENDING", target: 9, score: 3, weight: 50})
	f.store.put(models.EntityRating, 2, fakeRow{status: "PENDING", target: 7, score: 4, weight: 50})

	_, err := f.svc.TransitionBatch(context.Background(), models.EntityRating, []int64{1, 2}, models.ActionApprove, moderatorID)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 9}, f.store.locked)
}
