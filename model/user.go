package model

import (
	"time"
)

// User represents an authenticated user. Identity is anchored on the Entra
// object ID (or a synthetic "local:<email>" key for OTP logins); everything
// shown to other users goes through the anonymous username.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Anonymous display identifier, never derived from the real identity
	Username string `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`

	// External identity key and contact email. Email is retained internally
	// and never exposed in public projections.
	EntraOID   string `gorm:"column:entra_oid;type:varchar(255);uniqueIndex;not null" json:"entra_oid"`
	EntraEmail string `gorm:"type:varchar(255);index;not null" json:"-"`

	Role string `gorm:"type:varchar(20);default:'student';not null" json:"role"` // student, professor

	LastLogin *time.Time `json:"last_login,omitempty"`
	IsActive  bool       `gorm:"default:true;not null" json:"is_active"`

	// Relationships
	Reviews      []Review            `gorm:"foreignKey:UserID" json:"-"`
	Interactions []ReviewInteraction `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// PublicProfile is the anonymized projection shown to other users.
type PublicProfile struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the anonymized projection of this user.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
