package services

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/nkk09/Cmps271/config"
	"github.com/nkk09/Cmps271/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOTPService(t *testing.T) (*OTPService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&model.User{}, &model.OTP{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	email := NewEmailService(&config.EnviornmentVariable{})
	identity := NewIdentityService(db)
	return NewOTPService(db, email, identity, 10), db
}

func latestOTP(t *testing.T, db *gorm.DB, email string) *model.OTP {
	t.Helper()
	var otp model.OTP
	if err := db.Where("email = ?", email).Order("created_at DESC").First(&otp).Error; err != nil {
		t.Fatalf("load otp for %s: %v", email, err)
	}
	return &otp
}

func TestSendCreatesOTPAndEnforcesRateLimit(t *testing.T) {
	svc, db := setupOTPService(t)
	email := "student1@mail.aub.edu"

	for i := 0; i < maxSendsPerHour; i++ {
		if err := svc.Send(email); err != nil {
			t.Fatalf("send %d: %v", i+1, err)
		}
	}

	var count int64
	db.Model(&model.OTP{}).Where("email = ?", email).Count(&count)
	if count != int64(maxSendsPerHour) {
		t.Fatalf("expected %d otp rows, got %d", maxSendsPerHour, count)
	}

	if err := svc.Send(email); !errors.Is(err, ErrRateLimited) {
		t.Errorf("send %d: expected ErrRateLimited, got %v", maxSendsPerHour+1, err)
	}
}

func TestRateLimitSurvivesCleanup(t *testing.T) {
	svc, db := setupOTPService(t)
	email := "student1@mail.aub.edu"

	// Three OTPs from 20 minutes ago, all already expired (10 min lifetime)
	created := time.Now().UTC().Add(-20 * time.Minute)
	for i := 0; i < maxSendsPerHour; i++ {
		otp := model.OTP{
			Email:     email,
			Code:      fmt.Sprintf("%06d", i),
			CreatedAt: created,
			ExpiresAt: created.Add(10 * time.Minute),
		}
		if err := db.Create(&otp).Error; err != nil {
			t.Fatalf("seed otp: %v", err)
		}
	}

	if err := svc.Send(email); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited before cleanup, got %v", err)
	}

	// The purge (same thing the cron job does) must not reopen the budget:
	// expired rows inside the rate-limit window stay countable.
	deleted, err := svc.CleanupExpired()
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if deleted != 0 {
		t.Errorf("cleanup deleted %d rows still inside the rate-limit window", deleted)
	}

	if err := svc.Send(email); !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited after cleanup, got %v", err)
	}
}

func TestCleanupPurgesRowsPastTheWindow(t *testing.T) {
	svc, db := setupOTPService(t)

	created := time.Now().UTC().Add(-2 * time.Hour)
	otp := model.OTP{
		Email:     "student1@mail.aub.edu",
		Code:      "123456",
		CreatedAt: created,
		ExpiresAt: created.Add(10 * time.Minute),
	}
	if err := db.Create(&otp).Error; err != nil {
		t.Fatalf("seed otp: %v", err)
	}

	deleted, err := svc.CleanupExpired()
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 purged row, got %d", deleted)
	}
}

func TestSendRejectsForeignDomain(t *testing.T) {
	svc, _ := setupOTPService(t)

	if err := svc.Send("someone@gmail.com"); !errors.Is(err, ErrDomainNotAllowed) {
		t.Errorf("expected ErrDomainNotAllowed, got %v", err)
	}
}

func TestVerifyWithoutSend(t *testing.T) {
	svc, _ := setupOTPService(t)

	if _, err := svc.Verify("student1@mail.aub.edu", "123456"); !errors.Is(err, ErrNoValidOTP) {
		t.Errorf("expected ErrNoValidOTP, got %v", err)
	}
}

func TestVerifyCreatesUserOnFirstLogin(t *testing.T) {
	svc, db := setupOTPService(t)
	email := "student1@mail.aub.edu"

	if err := svc.Send(email); err != nil {
		t.Fatalf("send: %v", err)
	}
	code := latestOTP(t, db, email).Code

	// Mixed-case input resolves to the same lowercased identity
	user, err := svc.Verify("Student1@MAIL.AUB.EDU", code)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if user.Role != "student" {
		t.Errorf("expected role student, got %s", user.Role)
	}
	if user.EntraOID != "local:"+email {
		t.Errorf("expected entra_oid local:%s, got %s", email, user.EntraOID)
	}
	if !user.IsActive {
		t.Error("expected new user to be active")
	}
	pattern := regexp.MustCompile(`^[A-Z][a-z]+[A-Z][a-z]+\d{1,4}$`)
	if !pattern.MatchString(user.Username) {
		t.Errorf("username %q not in AdjectiveNounNumber form", user.Username)
	}
	if latestOTP(t, db, email).VerifiedAt == nil {
		t.Error("expected verified_at to be set")
	}

	// Second login resolves to the same user, no duplicate row
	if err := svc.Send(email); err != nil {
		t.Fatalf("second send: %v", err)
	}
	again, err := svc.Verify(email, latestOTP(t, db, email).Code)
	if err != nil {
		t.Fatalf("second verify: %v", err)
	}
	if again.ID != user.ID {
		t.Errorf("expected same user %d on second login, got %d", user.ID, again.ID)
	}

	var userCount int64
	db.Model(&model.User{}).Count(&userCount)
	if userCount != 1 {
		t.Errorf("expected 1 user row, got %d", userCount)
	}
}

func TestVerifyAttemptCeilingPersists(t *testing.T) {
	svc, db := setupOTPService(t)
	email := "student1@mail.aub.edu"

	if err := svc.Send(email); err != nil {
		t.Fatalf("send: %v", err)
	}
	code := latestOTP(t, db, email).Code
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	// Burn every attempt across separate Verify calls; the counter must
	// persist between requests.
	for i := 0; i < model.MaxOTPAttempts; i++ {
		_, err := svc.Verify(email, wrong)
		var invalid *InvalidCodeError
		if !errors.As(err, &invalid) {
			t.Fatalf("attempt %d: expected InvalidCodeError, got %v", i+1, err)
		}
		if invalid.Remaining != model.MaxOTPAttempts-i-1 {
			t.Errorf("attempt %d: remaining = %d, want %d", i+1, invalid.Remaining, model.MaxOTPAttempts-i-1)
		}
	}

	if _, err := svc.Verify(email, code); !errors.Is(err, ErrTooManyAttempts) {
		t.Errorf("expected ErrTooManyAttempts with the correct code, got %v", err)
	}
}
