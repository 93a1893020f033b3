package model

import (
	"time"
)

// MaxOTPAttempts is the ceiling of failed verifications per OTP record.
const MaxOTPAttempts = 5

// OTP stores one-time passwords for email login. Rows are short-lived and
// hard-deleted by the cleanup job once expired.
type OTP struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Email string `gorm:"type:varchar(255);index;not null" json:"email"`
	Code  string `gorm:"type:varchar(10);not null" json:"-"`

	// Increments on each failed verification
	Attempts int `gorm:"default:0;not null" json:"attempts"`

	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	ExpiresAt  time.Time  `gorm:"index;not null" json:"expires_at"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

// TableName specifies the table name for OTP
func (OTP) TableName() string {
	return "otps"
}

// IsExpired checks if the OTP is past its expiry time.
func (o *OTP) IsExpired() bool {
	return time.Now().UTC().After(o.ExpiresAt)
}

// AttemptsRemaining returns how many failed attempts are left before lockout.
func (o *OTP) AttemptsRemaining() int {
	remaining := MaxOTPAttempts - o.Attempts
	if remaining < 0 {
		return 0
	}
	return remaining
}
