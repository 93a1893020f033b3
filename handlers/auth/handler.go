package auth

import (
	"github.com/nkk09/Cmps271/config"
	"github.com/nkk09/Cmps271/services"
	"github.com/nkk09/Cmps271/services/oauth"
	"github.com/nkk09/Cmps271/utils/middleware"
	"github.com/nkk09/Cmps271/utils/session"
	"gorm.io/gorm"
)

// Cookie names for OAuth state/PKCE storage
const (
	PKCEStateCookie        = "oauth_pkce_state"
	PKCECodeVerifierCookie = "oauth_code_verifier"

	// PKCE cookies live 10 minutes; a callback after that fails closed
	pkceCookieMaxAge = 600
)

// AuthHandler serves both login flows (Entra OAuth and email OTP) plus
// session endpoints. The two flows are mutually exclusive via ENABLE_OAUTH.
type AuthHandler struct {
	db                   *gorm.DB
	codec                *session.Codec
	entra                *oauth.EntraClient
	identity             *services.IdentityService
	otp                  *services.OTPService
	bruteForceProtection *middleware.BruteForceProtection
	oauthEnabled         bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	db *gorm.DB,
	cfg *config.EnviornmentVariable,
	codec *session.Codec,
	entra *oauth.EntraClient,
	identity *services.IdentityService,
	otp *services.OTPService,
	bruteForceProtection *middleware.BruteForceProtection,
) *AuthHandler {
	return &AuthHandler{
		db:                   db,
		codec:                codec,
		entra:                entra,
		identity:             identity,
		otp:                  otp,
		bruteForceProtection: bruteForceProtection,
		oauthEnabled:         cfg.ENABLE_OAUTH,
	}
}

// SessionUser is the identity payload returned by login endpoints and /auth/me
type SessionUser struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	EntraOID string `json:"entra_oid"`
}
