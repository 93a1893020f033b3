package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/nkk09/Cmps271/model"
	"github.com/nkk09/Cmps271/utils/response"
	"gorm.io/gorm"
)

// UserHandler serves public user profiles
type UserHandler struct {
	db *gorm.DB
}

// NewUserHandler creates a new user handler
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// GetProfile returns the anonymized public profile for a user. The real
// email and directory identity never leave the server.
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID < 1 {
		return response.BadRequest(c, "Invalid user id")
	}

	var u model.User
	if err := h.db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to load user")
	}

	var reviewCount int64
	h.db.Model(&model.Review{}).
		Where("user_id = ? AND status = ? AND deleted_at IS NULL", u.ID, model.ReviewStatusApproved).
		Count(&reviewCount)

	profile := u.Public()
	return response.Success(c, fiber.Map{
		"user":         profile,
		"review_count": reviewCount,
	})
}
