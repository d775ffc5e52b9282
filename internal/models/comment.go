package models

import "time"

// CommentStatus captures the moderation lifecycle of a comment.
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "PENDING"
	CommentStatusApproved CommentStatus = "APPROVED"
	CommentStatusRejected CommentStatus = "REJECTED"
	CommentStatusFlagged  CommentStatus = "FLAGGED"
)

// Comment is free text attached to a nominee or institution.
type Comment struct {
	ID        int64         `db:"id" json:"id"`
	Kind      RatingKind    `db:"-" json:"kind"`
	Content   string        `db:"content" json:"content"`
	UserID    int64         `db:"user_id" json:"user_id"`
	TargetID  int64         `db:"target_id" json:"target_id"`
	Status    CommentStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}
