package models

import "time"

// NomineeStatus captures the verification lifecycle of a nominee.
type NomineeStatus string

const (
	NomineeStatusPending            NomineeStatus = "PENDING"
	NomineeStatusVerified           NomineeStatus = "VERIFIED"
	NomineeStatusRejected           NomineeStatus = "REJECTED"
	NomineeStatusUnderInvestigation NomineeStatus = "UNDER_INVESTIGATION"
)

// Nominee is a public official submitted for rating.
type Nominee struct {
	ID            int64         `db:"id" json:"id"`
	Name          string        `db:"name" json:"name"`
	Title         string        `db:"title" json:"title"`
	Evidence      string        `db:"evidence" json:"evidence"`
	Status        NomineeStatus `db:"status" json:"status"`
	PositionID    int64         `db:"position_id" json:"position_id"`
	InstitutionID int64         `db:"institution_id" json:"institution_id"`
	DistrictID    int64         `db:"district_id" json:"district_id"`
	SubmittedBy   *int64        `db:"submitted_by" json:"submitted_by,omitempty"`
	TotalRatings  int           `db:"total_ratings" json:"total_ratings"`
	AverageRating *float64      `db:"average_rating" json:"average_rating"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}
