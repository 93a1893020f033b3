package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nkk09/Cmps271/model"
	"github.com/nkk09/Cmps271/utils/response"
	"github.com/nkk09/Cmps271/utils/session"
	"gorm.io/gorm"
)

// AuthMiddleware authenticates requests from the signed session cookie.
type AuthMiddleware struct {
	codec *session.Codec
	db    *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(codec *session.Codec, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		codec: codec,
		db:    db,
	}
}

// Required is middleware that requires a valid session cookie. The cookie
// carries claims, but only the numeric user id is trusted: the user row is
// re-fetched on every request so deactivated or deleted accounts lose access
// even with a live cookie.
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := m.codec.Verify(c.Cookies(session.CookieName))
		if err != nil {
			if err == session.ErrMissingToken {
				return response.Unauthorized(c, "Not authenticated")
			}
			return response.Unauthorized(c, "Invalid session")
		}

		if claims.UserID == 0 {
			return response.Unauthorized(c, "Invalid session")
		}

		var user model.User
		if err := m.db.First(&user, claims.UserID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.Unauthorized(c, "User not found")
			}
			return response.InternalServerError(c, "Failed to load user")
		}

		if !user.IsActive {
			return response.Unauthorized(c, "Account is deactivated")
		}

		c.Locals("user_id", user.ID)
		c.Locals("claims", claims)
		c.Locals("user", &user)

		return c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) (uint, bool) {
	userID := c.Locals("user_id")
	if userID == nil {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUser extracts full user object from context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	user := c.Locals("user")
	if user == nil {
		return nil, false
	}
	u, ok := user.(*model.User)
	return u, ok
}

// GetClaims extracts session claims from context
func GetClaims(c *fiber.Ctx) (*session.Claims, bool) {
	claims := c.Locals("claims")
	if claims == nil {
		return nil, false
	}
	claimsData, ok := claims.(*session.Claims)
	return claimsData, ok
}
