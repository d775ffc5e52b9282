package models

import "time"

// InstitutionType classifies public bodies.
type InstitutionType string

const (
	InstitutionTypeGovernment  InstitutionType = "GOVERNMENT"
	InstitutionTypeParastatal  InstitutionType = "PARASTATAL"
	InstitutionTypeAgency      InstitutionType = "AGENCY"
	InstitutionTypeCorporation InstitutionType = "CORPORATION"
)

// InstitutionStatus captures the moderation lifecycle of an institution.
type InstitutionStatus string

const (
	InstitutionStatusActive             InstitutionStatus = "ACTIVE"
	InstitutionStatusInactive           InstitutionStatus = "INACTIVE"
	InstitutionStatusUnderInvestigation InstitutionStatus = "UNDER_INVESTIGATION"
	InstitutionStatusSuspended          InstitutionStatus = "SUSPENDED"
)

// Institution is an organisation submitted for rating.
type Institution struct {
	ID            int64             `db:"id" json:"id"`
	Name          string            `db:"name" json:"name"`
	Type          InstitutionType   `db:"type" json:"type"`
	Status        InstitutionStatus `db:"status" json:"status"`
	SubmittedBy   *int64            `db:"submitted_by" json:"submitted_by,omitempty"`
	TotalRatings  int               `db:"total_ratings" json:"total_ratings"`
	AverageRating *float64          `db:"average_rating" json:"average_rating"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at" json:"updated_at"`
}
