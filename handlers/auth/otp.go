package auth

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/nkk09/Cmps271/services"
	"github.com/nkk09/Cmps271/utils/response"
	"github.com/nkk09/Cmps271/utils/session"
)

// OTPSendRequest is the body of POST /auth/otp/send
type OTPSendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// OTPVerifyRequest is the body of POST /auth/otp/verify
type OTPVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

// OTPSend sends a one-time code to the provided email if the domain is
// allowed. The OTP path is only reachable when OAuth is switched off.
func (h *AuthHandler) OTPSend(c *fiber.Ctx) error {
	if h.oauthEnabled {
		return response.BadRequest(c, "OTP disabled when OAuth is enabled")
	}

	var req OTPSendRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Missing email")
	}

	if err := h.otp.Send(req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrDomainNotAllowed):
			return response.BadRequest(c, "Email domain not allowed (must be @mail.aub.edu or @aub.edu.lb)")
		case errors.Is(err, services.ErrRateLimited):
			return response.TooManyRequests(c, "Too many OTP requests. Please try again in 1 hour.")
		default:
			log.Printf("Unexpected error in otp_send: %v", err)
			return response.InternalServerError(c, "")
		}
	}

	return c.JSON(fiber.Map{"ok": true, "message": "OTP sent to your email"})
}

// OTPVerify checks the submitted code and establishes a session on success.
func (h *AuthHandler) OTPVerify(c *fiber.Ctx) error {
	if h.oauthEnabled {
		return response.BadRequest(c, "OTP disabled when OAuth is enabled")
	}

	var req OTPVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Code == "" {
		return response.BadRequest(c, "Missing email or code")
	}

	user, err := h.otp.Verify(req.Email, req.Code)
	if err != nil {
		var invalid *services.InvalidCodeError
		switch {
		case errors.Is(err, services.ErrNoValidOTP):
			return response.BadRequest(c, "No valid OTP found for this email")
		case errors.Is(err, services.ErrOTPExpired):
			return response.BadRequest(c, "OTP has expired")
		case errors.Is(err, services.ErrTooManyAttempts):
			return response.TooManyRequests(c, "Too many failed attempts. Request a new OTP.")
		case errors.As(err, &invalid):
			if h.bruteForceProtection != nil {
				h.bruteForceProtection.RecordFailedAttempt(c, c.IP())
			}
			return response.BadRequest(c, fmt.Sprintf("Invalid OTP code. %d attempts remaining.", invalid.Remaining))
		default:
			log.Printf("Unexpected error in otp_verify: %v", err)
			return response.InternalServerError(c, "")
		}
	}

	if h.bruteForceProtection != nil {
		h.bruteForceProtection.RecordSuccessfulAttempt(c, c.IP())
	}

	sessionUser := SessionUser{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		EntraOID: user.EntraOID,
	}

	token, err := h.codec.Issue(session.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		EntraOID: user.EntraOID,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to create session")
	}

	session.SetLoginCookie(c, token)

	return c.JSON(fiber.Map{"ok": true, "user": sessionUser})
}

// CleanupOTPs manually purges expired OTP records. The cron job does the
// same thing on a schedule; this endpoint exists for maintenance.
func (h *AuthHandler) CleanupOTPs(c *fiber.Ctx) error {
	deleted, err := h.otp.CleanupExpired()
	if err != nil {
		log.Printf("OTP cleanup failed: %v", err)
		return response.InternalServerError(c, "")
	}

	log.Printf("Admin requested OTP cleanup: %d records deleted", deleted)
	return c.JSON(fiber.Map{"ok": true, "deleted": deleted})
}
