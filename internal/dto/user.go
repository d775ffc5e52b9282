package dto

// UpdateRoleRequest changes a user's role.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER ADMIN MODERATOR"`
}

// UpdateStatusRequest activates or deactivates a user.
type UpdateStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}
