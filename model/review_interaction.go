package model

import (
	"time"
)

// Interaction types
const (
	InteractionLike    = "like"
	InteractionDislike = "dislike"
)

// ReviewInteraction records a user's reaction to a review. At most one row
// exists per (review, user); reacting again toggles or flips it.
type ReviewInteraction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ReviewID uint `gorm:"not null;index;uniqueIndex:idx_review_user" json:"review_id"`
	UserID   uint `gorm:"not null;index;uniqueIndex:idx_review_user" json:"user_id"`

	InteractionType string `gorm:"type:varchar(20);not null" json:"interaction_type"` // like, dislike

	// Relationships
	Review Review `gorm:"foreignKey:ReviewID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for ReviewInteraction
func (ReviewInteraction) TableName() string {
	return "review_interactions"
}
