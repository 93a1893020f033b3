package auth

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nkk09/Cmps271/services/oauth"
	"github.com/nkk09/Cmps271/utils/response"
)

// Login initiates the OAuth2/PKCE flow with Entra ID and redirects the user
// to the Microsoft login page.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	if !h.oauthEnabled {
		return response.NotFound(c, "OAuth is disabled")
	}

	codeVerifier, codeChallenge, err := oauth.GeneratePKCEPair()
	if err != nil {
		return response.InternalServerError(c, "Failed to start login")
	}

	state, err := oauth.GenerateState()
	if err != nil {
		return response.InternalServerError(c, "Failed to start login")
	}

	authURL := h.entra.AuthorizationURL(state, codeChallenge)

	setPKCECookie(c, PKCEStateCookie, state)
	setPKCECookie(c, PKCECodeVerifierCookie, codeVerifier)

	log.Printf("Login: redirecting to Entra, state=%.8s...", state)
	return c.Redirect(authURL, fiber.StatusFound)
}

func setPKCECookie(c *fiber.Ctx, name string, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   pkceCookieMaxAge,
		HTTPOnly: true,
		Secure:   false, // true in production
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearPKCECookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
