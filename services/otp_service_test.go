package services

import (
	"errors"
	"testing"
	"time"

	"github.com/nkk09/Cmps271/model"
)

func liveOTP(code string, attempts int) *model.OTP {
	now := time.Now().UTC()
	return &model.OTP{
		Email:     "someone@mail.aub.edu",
		Code:      code,
		Attempts:  attempts,
		CreatedAt: now,
		ExpiresAt: now.Add(10 * time.Minute),
	}
}

func TestCheckOTPCorrectCode(t *testing.T) {
	otp := liveOTP("123456", 0)
	if err := checkOTP(otp, "123456", time.Now().UTC()); err != nil {
		t.Errorf("Expected correct code to pass, got %v", err)
	}
	if otp.Attempts != 0 {
		t.Errorf("Correct code must not consume an attempt, got %d", otp.Attempts)
	}
}

func TestCheckOTPWrongCodeIncrementsAttempts(t *testing.T) {
	otp := liveOTP("123456", 0)

	err := checkOTP(otp, "000000", time.Now().UTC())
	var invalid *InvalidCodeError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected InvalidCodeError, got %v", err)
	}
	if otp.Attempts != 1 {
		t.Errorf("Expected attempts to be 1, got %d", otp.Attempts)
	}
	if invalid.Remaining != model.MaxOTPAttempts-1 {
		t.Errorf("Expected %d attempts remaining, got %d", model.MaxOTPAttempts-1, invalid.Remaining)
	}
}

func TestCheckOTPExpired(t *testing.T) {
	otp := liveOTP("123456", 0)
	otp.ExpiresAt = time.Now().UTC().Add(-time.Minute)

	if err := checkOTP(otp, "123456", time.Now().UTC()); !errors.Is(err, ErrOTPExpired) {
		t.Errorf("Expected ErrOTPExpired, got %v", err)
	}
}

func TestCheckOTPAttemptCeilingWinsOverCorrectCode(t *testing.T) {
	otp := liveOTP("123456", 0)
	now := time.Now().UTC()

	// Burn all attempts with wrong codes
	for i := 0; i < model.MaxOTPAttempts; i++ {
		err := checkOTP(otp, "999999", now)
		var invalid *InvalidCodeError
		if !errors.As(err, &invalid) {
			t.Fatalf("Attempt %d: expected InvalidCodeError, got %v", i+1, err)
		}
	}
	if otp.Attempts != model.MaxOTPAttempts {
		t.Fatalf("Expected %d recorded attempts, got %d", model.MaxOTPAttempts, otp.Attempts)
	}

	// The correct code is now rejected for good
	if err := checkOTP(otp, "123456", now); !errors.Is(err, ErrTooManyAttempts) {
		t.Errorf("Expected ErrTooManyAttempts after ceiling, got %v", err)
	}
}

func TestCheckOTPExpiryCheckedBeforeAttempts(t *testing.T) {
	otp := liveOTP("123456", model.MaxOTPAttempts)
	otp.ExpiresAt = time.Now().UTC().Add(-time.Minute)

	if err := checkOTP(otp, "123456", time.Now().UTC()); !errors.Is(err, ErrOTPExpired) {
		t.Errorf("Expected expiry to dominate, got %v", err)
	}
}

func TestGenerateCodeFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("generateCode failed: %v", err)
		}
		if len(code) != 6 {
			t.Errorf("Expected 6-digit code, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Errorf("Expected only digits, got %q", code)
			}
		}
		seen[code] = true
	}
	// 20 draws from a million values colliding down to one code would mean a
	// broken generator
	if len(seen) < 2 {
		t.Errorf("Expected varied codes, got %v", seen)
	}
}
