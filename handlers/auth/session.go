package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/nkk09/Cmps271/utils/middleware"
	"github.com/nkk09/Cmps271/utils/response"
	"github.com/nkk09/Cmps271/utils/session"
)

// Me returns the session claims for the authenticated user. The auth
// middleware has already re-validated the user row.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	return c.JSON(fiber.Map{"user": SessionUser{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
		EntraOID: claims.EntraOID,
	}})
}

// Logout clears the session cookie. Idempotent: succeeds with or without an
// active session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	session.ClearLoginCookie(c)
	log.Println("Logout: session cookie cleared")
	return c.JSON(fiber.Map{"ok": true})
}
