package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshotAggregates(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/leaderboard/:kind", 200, 10*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/admin/moderation/batch", 200, 30*time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordTransition("RATING", "APPROVE", "ok")
	m.RecordTransition("RATING", "APPROVE", "NOT_FOUND")
	m.RecordNotification("sent")
	m.RecordNotification("retry")
	m.RecordNotification("dropped")

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.RequestsTotal)
	assert.InDelta(t, 20.0, snap.AverageRequestDurationMs, 0.001)
	assert.InDelta(t, 2.0/3.0, snap.CacheHitRatio, 0.0001)
	assert.Equal(t, uint64(1), snap.ModerationTransitions)
	assert.Equal(t, uint64(1), snap.NotificationsSent)
	assert.Equal(t, uint64(1), snap.NotificationsDropped)
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	m := NewMetricsService()
	m.RecordTransition("COMMENT", "REJECT", "ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `integrity_moderation_transitions_total{action="REJECT",entity="COMMENT",outcome="ok"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *MetricsService
	m.RecordTransition("RATING", "FLAG", "ok")
	m.RecordCacheOperation(true, 0)
	assert.Equal(t, uint64(0), m.Snapshot().RequestsTotal)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
