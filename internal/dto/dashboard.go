package dto

import "time"

// DashboardStats is the moderation back-office summary.
type DashboardStats struct {
	Pending                    map[string]int `json:"pending"`
	Flagged                    map[string]int `json:"flagged"`
	TotalPending               int            `json:"total_pending"`
	Nominees                   int            `json:"nominees"`
	Institutions               int            `json:"institutions"`
	VerifiedNomineeRatings     int            `json:"verified_nominee_ratings"`
	VerifiedInstitutionRatings int            `json:"verified_institution_ratings"`
	Users                      int            `json:"users"`
	System                     *SystemMetrics `json:"system,omitempty"`
}

// SystemMetrics is a lightweight runtime snapshot shown on the dashboard.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	ModerationTransitions    uint64    `json:"moderation_transitions"`
	NotificationsSent        uint64    `json:"notifications_sent"`
	NotificationsDropped     uint64    `json:"notifications_dropped"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
