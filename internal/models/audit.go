package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Admin log actions.
const (
	AdminActionApprove          = "APPROVE"
	AdminActionReject           = "REJECT"
	AdminActionFlag             = "FLAG"
	AdminActionStatusChange     = "STATUS_CHANGE"
	AdminActionBatchPrefix      = "BATCH_"
	AdminActionRatingDelete     = "RATING_DELETE"
	AdminActionUserRoleChange   = "USER_ROLE_CHANGE"
	AdminActionUserStatusChange = "USER_STATUS_CHANGE"
	AdminActionCategoryCreate   = "CATEGORY_CREATE"
	AdminActionCategoryUpdate   = "CATEGORY_UPDATE"
)

// AdminLog is an append-only record of an administrative action.
type AdminLog struct {
	ID           string          `db:"id" json:"id"`
	Action       string          `db:"action" json:"action"`
	ResourceType string          `db:"resource_type" json:"resource_type"`
	ResourceIDs  pq.Int64Array   `db:"resource_ids" json:"resource_ids"`
	AdminID      int64           `db:"admin_id" json:"admin_id"`
	AdminName    *string         `db:"admin_name" json:"admin_name,omitempty"`
	Details      string          `db:"details" json:"details"`
	Metadata     json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// AdminLogFilter constrains audit listing and export.
type AdminLogFilter struct {
	Action       string
	ResourceType string
	AdminID      *int64
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	PageSize     int
}
