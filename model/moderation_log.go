package model

import (
	"time"

	"gorm.io/datatypes"
)

// Moderation action types
const (
	ModerationReviewApproved = "review_approved"
	ModerationReviewRejected = "review_rejected"
	ModerationReviewFlagged  = "review_flagged"
)

// ModerationLog is the audit trail of moderation actions on reviews/users.
type ModerationLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	ModeratorID uint  `gorm:"not null;index" json:"moderator_id"`
	UserID      *uint `gorm:"index" json:"user_id,omitempty"`
	ReviewID    *uint `gorm:"index" json:"review_id,omitempty"`

	ActionType string         `gorm:"type:varchar(50);not null;index" json:"action_type"`
	Reason     string         `gorm:"type:varchar(500)" json:"reason,omitempty"`
	Details    datatypes.JSON `json:"details,omitempty"`

	Status string `gorm:"type:varchar(20);default:'completed';not null" json:"status"`

	// Relationships
	Moderator User    `gorm:"foreignKey:ModeratorID" json:"-"`
	Review    *Review `gorm:"foreignKey:ReviewID" json:"-"`
}

// TableName specifies the table name for ModerationLog
func (ModerationLog) TableName() string {
	return "moderation_logs"
}
