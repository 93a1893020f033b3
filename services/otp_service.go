package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/nkk09/Cmps271/model"
	"github.com/nkk09/Cmps271/utils/validation"
	"gorm.io/gorm"
)

// maxSendsPerHour caps OTP issuance per email. This limit is load-bearing:
// without it one address can be used to spam the mail channel.
const maxSendsPerHour = 3

// OTPRateLimitWindow is the trailing window the send limiter counts over.
// Cleanup must retain rows inside this window, expired or not, or the
// limiter loses sight of them. Exported so the cron purge uses the same cutoff.
const OTPRateLimitWindow = time.Hour

var (
	ErrDomainNotAllowed = errors.New("email domain not allowed")
	ErrRateLimited      = errors.New("too many OTP requests")
	ErrNoValidOTP       = errors.New("no valid OTP found for this email")
	ErrOTPExpired       = errors.New("OTP has expired")
	ErrTooManyAttempts  = errors.New("too many failed attempts")
)

// InvalidCodeError reports a code mismatch and how many attempts remain.
type InvalidCodeError struct {
	Remaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid OTP code, %d attempts remaining", e.Remaining)
}

// OTPService implements the email one-time-password login flow.
type OTPService struct {
	db       *gorm.DB
	email    *EmailService
	identity *IdentityService
	expiry   time.Duration
}

// NewOTPService creates a new OTP service
func NewOTPService(db *gorm.DB, email *EmailService, identity *IdentityService, expiryMinutes int) *OTPService {
	if expiryMinutes <= 0 {
		expiryMinutes = 10
	}
	return &OTPService{
		db:       db,
		email:    email,
		identity: identity,
		expiry:   time.Duration(expiryMinutes) * time.Minute,
	}
}

// ExpiryMinutes returns the configured OTP lifetime in minutes.
func (s *OTPService) ExpiryMinutes() int {
	return int(s.expiry.Minutes())
}

// Send creates and delivers a fresh OTP for the email. Delivery failures are
// logged, never surfaced; the code always lands in the server log.
func (s *OTPService) Send(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if !validation.IsAllowedDomain(email) {
		return ErrDomainNotAllowed
	}

	recent, err := s.countRecent(email, OTPRateLimitWindow)
	if err != nil {
		return err
	}
	if recent >= maxSendsPerHour {
		return ErrRateLimited
	}

	// Housekeeping: purge expired rows for all emails while we're here
	if _, err := s.CleanupExpired(); err != nil {
		log.Printf("OTP cleanup during send failed: %v", err)
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	otp := model.OTP{
		Email:     email,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(s.expiry),
	}
	if err := s.db.Create(&otp).Error; err != nil {
		return err
	}

	// Best effort; SendOTPEmail logs the code regardless
	if err := s.email.SendOTPEmail(email, code, s.ExpiryMinutes()); err != nil {
		log.Printf("OTP email delivery failed for %s (code remains in logs): %v", email, err)
	}

	log.Printf("OTP created for %s, expires at %s", email, otp.ExpiresAt.Format(time.RFC3339))
	return nil
}

// Verify checks a submitted code against the latest live OTP for the email
// and logs the user in on success, minting the user row if needed.
func (s *OTPService) Verify(email string, code string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)

	var otp model.OTP
	err := s.db.
		Where("email = ? AND expires_at > ?", email, time.Now().UTC()).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoValidOTP
		}
		return nil, err
	}

	if err := checkOTP(&otp, code, time.Now().UTC()); err != nil {
		var invalid *InvalidCodeError
		if errors.As(err, &invalid) {
			if dbErr := s.db.Model(&otp).Update("attempts", otp.Attempts).Error; dbErr != nil {
				return nil, dbErr
			}
		}
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.db.Model(&otp).Update("verified_at", &now).Error; err != nil {
		return nil, err
	}

	role := validation.RoleFromEmailDomain(email)
	entraOID := "local:" + email

	user, err := s.identity.ResolveOrCreate(entraOID, email, role)
	if err != nil {
		return nil, err
	}

	log.Printf("OTP verified and user logged in: %s", user.Username)
	return user, nil
}

// checkOTP applies the verification rules to a live OTP record. On a code
// mismatch it increments otp.Attempts in memory; the caller persists it.
// The attempt ceiling wins over a correct code once reached.
func checkOTP(otp *model.OTP, code string, now time.Time) error {
	if now.After(otp.ExpiresAt) {
		return ErrOTPExpired
	}
	if otp.Attempts >= model.MaxOTPAttempts {
		return ErrTooManyAttempts
	}
	if otp.Code != code {
		otp.Attempts++
		return &InvalidCodeError{Remaining: otp.AttemptsRemaining()}
	}
	return nil
}

// CleanupExpired hard-deletes expired OTP rows and returns the count. Rows
// created inside the rate-limit window are kept even once expired: the send
// limiter counts them, and purging early would reopen the per-hour budget.
func (s *OTPService) CleanupExpired() (int64, error) {
	now := time.Now().UTC()
	result := s.db.
		Where("expires_at <= ? AND created_at <= ?", now, now.Add(-OTPRateLimitWindow)).
		Delete(&model.OTP{})
	return result.RowsAffected, result.Error
}

func (s *OTPService) countRecent(email string, window time.Duration) (int64, error) {
	var count int64
	err := s.db.Model(&model.OTP{}).
		Where("email = ? AND created_at > ?", email, time.Now().UTC().Add(-window)).
		Count(&count).Error
	return count, err
}

// generateCode returns a uniformly random zero-padded 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
