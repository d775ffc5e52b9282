package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/integrity-rating-api/internal/dto"
	"github.com/noah-isme/integrity-rating-api/internal/models"
	"github.com/noah-isme/integrity-rating-api/internal/repository"
	appErrors "github.com/noah-isme/integrity-rating-api/pkg/errors"
)

const defaultLeaderboardLimit = 10

type dashboardRepository interface {
	Totals(ctx context.Context) (*repository.DashboardTotals, error)
	Leaderboard(ctx context.Context, kind models.RatingKind, limit int) ([]models.LeaderboardEntry, error)
}

type queueCounter interface {
	CountByStatus(ctx context.Context, entity models.EntityType, status string) (int, error)
}

type dashboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
}

// DashboardService builds back-office summaries and the public leaderboard.
type DashboardService struct {
	repo    dashboardRepository
	queue   queueCounter
	cache   dashboardCache
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(repo dashboardRepository, queue queueCounter, cache dashboardCache, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, queue: queue, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// Stats returns queue depth per moderation type together with headline totals.
func (s *DashboardService) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	var cached dto.DashboardStats
	if s.cache != nil && s.cache.Get(ctx, dashboardStatsKey, &cached) {
		s.attachSystem(&cached)
		return &cached, nil
	}

	stats := &dto.DashboardStats{
		Pending: make(map[string]int),
		Flagged: make(map[string]int),
	}
	for _, status := range []models.QueueStatus{models.QueueStatusPending, models.QueueStatusFlagged} {
		for entity, dbStatus := range queueStatuses(models.EntityTypes, status) {
			count, err := s.queue.CountByStatus(ctx, entity, dbStatus)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count moderation queue")
			}
			if status == models.QueueStatusFlagged {
				stats.Flagged[string(entity)] = count
				continue
			}
			stats.Pending[string(entity)] = count
			stats.TotalPending += count
		}
	}

	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard totals")
	}
	stats.Nominees = totals.Nominees
	stats.Institutions = totals.Institutions
	stats.VerifiedNomineeRatings = totals.VerifiedNomineeRatings
	stats.VerifiedInstitutionRatings = totals.VerifiedInstitutionRatings
	stats.Users = totals.Users

	if s.cache != nil {
		s.cache.Set(ctx, dashboardStatsKey, stats, s.ttl)
	}
	s.attachSystem(stats)
	return stats, nil
}

// Leaderboard ranks nominees or institutions by average rating, unrated entries last.
func (s *DashboardService) Leaderboard(ctx context.Context, kind models.RatingKind, limit int) ([]models.LeaderboardEntry, error) {
	if !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported rating kind %q", kind))
	}
	if limit <= 0 || limit > defaultLeaderboardLimit {
		limit = defaultLeaderboardLimit
	}

	key := fmt.Sprintf(leaderboardKeyFormat, kind, limit)
	var cached []models.LeaderboardEntry
	if s.cache != nil && s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	entries, err := s.repo.Leaderboard(ctx, kind, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leaderboard")
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	if s.cache != nil {
		s.cache.Set(ctx, key, entries, s.ttl)
	}
	return entries, nil
}

// system metrics are never cached.
func (s *DashboardService) attachSystem(stats *dto.DashboardStats) {
	if s.metrics == nil {
		return
	}
	snapshot := s.metrics.Snapshot()
	stats.System = &snapshot
}
