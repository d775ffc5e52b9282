package dto

import "github.com/noah-isme/integrity-rating-api/internal/models"

// BatchModerationRequest applies one action to many rows of a type.
type BatchModerationRequest struct {
	IDs         []int64 `json:"ids"`
	Action      string  `json:"action"`
	Type        string  `json:"type"`
	ModeratorID int64   `json:"moderatorId"`
}

// StatusChangeRequest sets an explicit status on one row.
type StatusChangeRequest struct {
	Status      string `json:"status"`
	ModeratorID int64  `json:"moderatorId"`
}

// ModerationResponse reports the outcome of a single or batch call.
type ModerationResponse struct {
	Message string            `json:"message"`
	Type    models.EntityType `json:"type"`
	Action  models.Action     `json:"action"`
	Status  string            `json:"status"`
	IDs     []int64           `json:"ids"`
	Count   int               `json:"count"`
}

// SubmissionQuery mirrors the moderation queue query string.
type SubmissionQuery struct {
	Tab    string
	Type   string
	Status string
	Search string
	Page   int
	Limit  int
}
