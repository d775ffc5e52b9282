package models

import (
	"time"

	"github.com/lib/pq"
)

// RatingKind selects the nominee- or institution-targeted rating tables.
type RatingKind string

const (
	RatingKindNominee     RatingKind = "NOMINEE"
	RatingKindInstitution RatingKind = "INSTITUTION"
)

// Valid reports whether the kind is known.
func (k RatingKind) Valid() bool {
	return k == RatingKindNominee || k == RatingKindInstitution
}

// RatingStatus captures the moderation lifecycle of a rating.
type RatingStatus string

const (
	RatingStatusPending     RatingStatus = "PENDING"
	RatingStatusVerified    RatingStatus = "VERIFIED"
	RatingStatusRejected    RatingStatus = "REJECTED"
	RatingStatusUnderReview RatingStatus = "UNDER_REVIEW"
)

// RatingCategory is a weighted corruption dimension. Weight is in percentage points.
type RatingCategory struct {
	ID          int64          `db:"id" json:"id"`
	Kind        RatingKind     `db:"-" json:"kind"`
	Keyword     string         `db:"keyword" json:"keyword"`
	Name        string         `db:"name" json:"name"`
	Icon        string         `db:"icon" json:"icon"`
	Description string         `db:"description" json:"description"`
	Weight      int            `db:"weight" json:"weight"`
	Examples    pq.StringArray `db:"examples" json:"examples"`
	IsActive    bool           `db:"is_active" json:"is_active"`
	Departments pq.StringArray `db:"departments" json:"departments"`
	ImpactAreas pq.StringArray `db:"impact_areas" json:"impact_areas"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// Rating is a single user submission against a nominee or institution.
type Rating struct {
	ID               int64        `db:"id" json:"id"`
	Kind             RatingKind   `db:"-" json:"kind"`
	UserID           int64        `db:"user_id" json:"user_id"`
	TargetID         int64        `db:"target_id" json:"target_id"`
	RatingCategoryID int64        `db:"rating_category_id" json:"rating_category_id"`
	Score            int          `db:"score" json:"score"`
	Severity         int          `db:"severity" json:"severity"`
	Evidence         string       `db:"evidence" json:"evidence"`
	Status           RatingStatus `db:"status" json:"status"`
	VerifiedAt       *time.Time   `db:"verified_at" json:"verified_at,omitempty"`
	VerifiedBy       *int64       `db:"verified_by" json:"verified_by,omitempty"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`
}

// WeightedScore is the aggregation input for one verified rating.
type WeightedScore struct {
	Score  int `db:"score"`
	Weight int `db:"weight"`
}

// Aggregate is the displayed rating summary of a nominee or institution.
type Aggregate struct {
	TotalRatings  int      `json:"total_ratings"`
	AverageRating *float64 `json:"average_rating"`
}

// LeaderboardEntry ranks a rated entity.
type LeaderboardEntry struct {
	ID            int64    `db:"id" json:"id"`
	Name          string   `db:"name" json:"name"`
	TotalRatings  int      `db:"total_ratings" json:"total_ratings"`
	AverageRating *float64 `db:"average_rating" json:"average_rating"`
}
