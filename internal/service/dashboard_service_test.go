package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/integrity-rating-api/internal/models"
	"github.com/noah-isme/integrity-rating-api/internal/repository"
	appErrors "github.com/noah-isme/integrity-rating-api/pkg/errors"
)

type stubDashboardRepo struct {
	totals           repository.DashboardTotals
	leaderboard      []models.LeaderboardEntry
	totalsCalls      int
	leaderboardCalls int
}

func (s *stubDashboardRepo) Totals(ctx context.Context) (*repository.DashboardTotals, error) {
	s.totalsCalls++
	t := s.totals
	return &t, nil
}

func (s *stubDashboardRepo) Leaderboard(ctx context.Context, kind models.RatingKind, limit int) ([]models.LeaderboardEntry, error) {
	s.leaderboardCalls++
	return s.leaderboard, nil
}

type stubQueueCounter struct {
	counts map[string]int
}

func (s stubQueueCounter) CountByStatus(ctx context.Context, entity models.EntityType, status string) (int, error) {
	return s.counts[string(entity)+":"+status], nil
}

// memoryDashboardCache round-trips through JSON like the redis-backed cache does.
type memoryDashboardCache struct {
	values map[string][]byte
}

func (m *memoryDashboardCache) Get(ctx context.Context, key string, dest interface{}) bool {
	raw, ok := m.values[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (m *memoryDashboardCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err == nil {
		m.values[key] = raw
	}
}

func TestDashboardStatsCountsQueueAndCaches(t *testing.T) {
	repo := &stubDashboardRepo{totals: repository.DashboardTotals{Nominees: 4, Institutions: 2, VerifiedNomineeRatings: 9, Users: 30}}
	queue := stubQueueCounter{counts: map[string]int{
		"NOMINEE:PENDING":                 2,
		"RATING:PENDING":                  5,
		"COMMENT:PENDING":                 1,
		"INSTITUTION:UNDER_INVESTIGATION": 1,
		"RATING:UNDER_REVIEW":             3,
	}}
	cache := &memoryDashboardCache{values: make(map[string][]byte)}
	svc := NewDashboardService(repo, queue, cache, NewMetricsService(), time.Minute, nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, stats.TotalPending)
	assert.Equal(t, 5, stats.Pending["RATING"])
	_, hasInstitution := stats.Pending["INSTITUTION"]
	assert.False(t, hasInstitution)
	assert.Equal(t, 1, stats.Flagged["INSTITUTION"])
	assert.Equal(t, 3, stats.Flagged["RATING"])
	assert.Equal(t, 9, stats.VerifiedNomineeRatings)
	require.NotNil(t, stats.System)

	again, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.totalsCalls)
	assert.Equal(t, 8, again.TotalPending)
	assert.NotNil(t, again.System)
}

func TestDashboardLeaderboard(t *testing.T) {
	avg := 3.4
	repo := &stubDashboardRepo{leaderboard: []models.LeaderboardEntry{{ID: 1, Name: "A", TotalRatings: 2, AverageRating: &avg}}}
	cache := &memoryDashboardCache{values: make(map[string][]byte)}
	svc := NewDashboardService(repo, stubQueueCounter{}, cache, nil, time.Minute, nil)
	ctx := context.Background()

	entries, err := svc.Leaderboard(ctx, models.RatingKindNominee, 50)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	_, cached := cache.values["dashboard:leaderboard:NOMINEE:10"]
	assert.True(t, cached)

	_, err = svc.Leaderboard(ctx, models.RatingKindNominee, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.leaderboardCalls)

	_, err = svc.Leaderboard(ctx, models.RatingKind("PARTY"), 5)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
