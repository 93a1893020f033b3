package model

import (
	"time"
)

// Review moderation statuses
const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusFlagged  = "flagged"
	ReviewStatusRejected = "rejected"
)

// Review stores an anonymous course/professor review. Reviews start out
// pending and become publicly visible only once approved.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID      uint  `gorm:"not null;index" json:"-"`
	CourseID    uint  `gorm:"not null;index" json:"course_id"`
	ProfessorID uint  `gorm:"not null;index" json:"professor_id"`
	SectionID   *uint `gorm:"index" json:"section_id,omitempty"`

	Title   string  `gorm:"type:varchar(200);not null" json:"title"`
	Content string  `gorm:"type:text;not null" json:"content"`
	Rating  float64 `gorm:"not null" json:"rating"` // 1.0 to 5.0

	// Comma-separated tags like "difficulty,workload,teaching_style"
	Attributes string `gorm:"type:varchar(500)" json:"attributes,omitempty"`

	Status           string     `gorm:"type:varchar(20);default:'pending';not null;index" json:"status"`
	ModeratorID      *uint      `json:"-"`
	ModerationReason string     `gorm:"type:varchar(500)" json:"-"`
	ModeratedAt      *time.Time `json:"-"`

	// Denormalized interaction counters, reconciled by the interaction ledger
	LikesCount    int `gorm:"default:0;not null" json:"likes_count"`
	DislikesCount int `gorm:"default:0;not null" json:"dislikes_count"`

	// Soft delete timestamp (moderation history is preserved)
	DeletedAt *time.Time `json:"-"`

	// Relationships
	User         User                `gorm:"foreignKey:UserID" json:"-"`
	Course       Course              `gorm:"foreignKey:CourseID" json:"-"`
	Professor    Professor           `gorm:"foreignKey:ProfessorID" json:"-"`
	Section      *CourseSection      `gorm:"foreignKey:SectionID" json:"-"`
	Moderator    *User               `gorm:"foreignKey:ModeratorID" json:"-"`
	Interactions []ReviewInteraction `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsInteractable reports whether likes/dislikes are accepted for this review.
func (r *Review) IsInteractable() bool {
	return r.Status == ReviewStatusApproved && r.DeletedAt == nil
}

// NetRating is likes minus dislikes, used for ranking.
func (r *Review) NetRating() int {
	return r.LikesCount - r.DislikesCount
}
