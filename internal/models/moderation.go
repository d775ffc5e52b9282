package models

import (
	"strings"
	"time"
)

// EntityType identifies a moderated record kind.
type EntityType string

const (
	EntityNominee            EntityType = "NOMINEE"
	EntityInstitution        EntityType = "INSTITUTION"
	EntityRating             EntityType = "RATING"
	EntityInstitutionRating  EntityType = "INSTITUTION_RATING"
	EntityComment            EntityType = "COMMENT"
	EntityInstitutionComment EntityType = "INSTITUTION_COMMENT"
	// EntityAll is only meaningful as a queue filter.
	EntityAll EntityType = "ALL"
)

// EntityTypes lists every moderated kind in queue order.
var EntityTypes = []EntityType{
	EntityNominee,
	EntityInstitution,
	EntityRating,
	EntityInstitutionRating,
	EntityComment,
	EntityInstitutionComment,
}

var entityPathAliases = map[string]EntityType{
	"nominees":             EntityNominee,
	"institutions":         EntityInstitution,
	"ratings":              EntityRating,
	"nominee-ratings":      EntityRating,
	"institution-ratings":  EntityInstitutionRating,
	"comments":             EntityComment,
	"institution-comments": EntityInstitutionComment,
}

// ParseEntityType accepts canonical names or REST path segments.
func ParseEntityType(raw string) (EntityType, bool) {
	trimmed := strings.TrimSpace(raw)
	if alias, ok := entityPathAliases[strings.ToLower(trimmed)]; ok {
		return alias, true
	}
	candidate := EntityType(strings.ToUpper(strings.ReplaceAll(trimmed, "-", "_")))
	if candidate == EntityAll {
		return candidate, true
	}
	for _, t := range EntityTypes {
		if t == candidate {
			return t, true
		}
	}
	return "", false
}

// IsRating reports whether the type contributes to aggregation.
func (t EntityType) IsRating() bool {
	return t == EntityRating || t == EntityInstitutionRating
}

// IsComment reports whether the type is a comment kind.
func (t EntityType) IsComment() bool {
	return t == EntityComment || t == EntityInstitutionComment
}

// RatingKind maps rating entity types to their target kind.
func (t EntityType) RatingKind() RatingKind {
	if t == EntityInstitutionRating || t == EntityInstitutionComment || t == EntityInstitution {
		return RatingKindInstitution
	}
	return RatingKindNominee
}

// Action is a moderation command.
type Action string

const (
	ActionVerify      Action = "VERIFY"
	ActionActivate    Action = "ACTIVATE"
	ActionApprove     Action = "APPROVE"
	ActionReject      Action = "REJECT"
	ActionInvestigate Action = "INVESTIGATE"
	ActionSuspend     Action = "SUSPEND"
	ActionFlag        Action = "FLAG"
)

// QueueStatus is the cross-kind moderation queue state.
type QueueStatus string

const (
	QueueStatusPending QueueStatus = "PENDING"
	QueueStatusFlagged QueueStatus = "FLAGGED"
)

// Submission is a row of the moderation queue.
type Submission struct {
	ID             int64      `db:"id" json:"id"`
	Type           EntityType `db:"type" json:"type"`
	DisplayName    string     `db:"display_name" json:"display_name"`
	Content        *string    `db:"content" json:"content,omitempty"`
	Status         string     `db:"status" json:"status"`
	SubmittedBy    *int64     `db:"submitted_by" json:"submitted_by,omitempty"`
	SubmitterName  *string    `db:"submitter_name" json:"submitter_name,omitempty"`
	SubmitterEmail *string    `db:"submitter_email" json:"-"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// SubmissionFilter constrains the moderation queue.
type SubmissionFilter struct {
	Types    []EntityType
	Status   QueueStatus
	Search   string
	Page     int
	PageSize int
}

// StatusChange is the per-row before/after of a committed transition.
type StatusChange struct {
	ID        int64  `db:"id"`
	OldStatus string `db:"old_status"`
	NewStatus string `db:"new_status"`
}

// NotificationTarget identifies the submitter to inform about an outcome.
type NotificationTarget struct {
	ResourceID int64  `db:"id"`
	Email      string `db:"email"`
	TargetName string `db:"target_name"`
}
