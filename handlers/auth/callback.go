package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/nkk09/Cmps271/services/oauth"
	"github.com/nkk09/Cmps271/utils/response"
	"github.com/nkk09/Cmps271/utils/session"
)

// Callback completes the OAuth2 flow: validates state against the PKCE
// cookies, exchanges the code for tokens, resolves the user, and sets the
// session cookie. All failures are client-correctable 400s; retrying the
// flow from /auth/login issues fresh PKCE material.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	if !h.oauthEnabled {
		return response.NotFound(c, "OAuth is disabled")
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return response.BadRequest(c, "Missing code or state")
	}

	storedState := c.Cookies(PKCEStateCookie)
	codeVerifier := c.Cookies(PKCECodeVerifierCookie)
	if storedState == "" || codeVerifier == "" {
		return response.BadRequest(c, "Missing PKCE state or code_verifier")
	}

	// Exact byte equality; no normalization
	if state != storedState {
		log.Printf("Callback: state mismatch, got %.8s... want %.8s...", state, storedState)
		return response.BadRequest(c, "State parameter mismatch")
	}

	tokens, err := h.entra.ExchangeCode(c.Context(), code, codeVerifier)
	if err != nil {
		log.Printf("Callback: token exchange failed: %v", err)
		return response.BadRequest(c, err.Error())
	}

	claims, err := oauth.DecodeIDToken(tokens.IDToken)
	if err != nil {
		log.Printf("Callback: failed to decode ID token: %v", err)
		return response.BadRequest(c, err.Error())
	}

	info := oauth.ExtractUserInfo(claims)
	user, err := h.identity.ResolveOrCreate(info.OID, info.Email, info.Role)
	if err != nil {
		log.Printf("Callback: failed to resolve user: %v", err)
		return response.BadRequest(c, "Failed to resolve user")
	}

	log.Printf("Callback: authenticated user %s (role: %s)", user.Username, user.Role)

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

	clearPKCECookie(c, PKCEStateCookie)
	clearPKCECookie(c, PKCECodeVerifierCookie)
	session.SetLoginCookie(c, token)

	return c.JSON(fiber.Map{"ok": true, "user": sessionUser})
}
