package services

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/nkk09/Cmps271/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ModerationService transitions review statuses and records an audit row
// for each action.
type ModerationService struct {
	db *gorm.DB
}

// NewModerationService creates a new moderation service
func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

// ModerateReview sets a review's moderation status and writes the audit log
// entry in the same transaction.
func (s *ModerationService) ModerateReview(reviewID uint, moderatorID uint, status string, reason string) (*model.Review, error) {
	switch status {
	case model.ReviewStatusApproved, model.ReviewStatusRejected, model.ReviewStatusFlagged:
	default:
		return nil, errors.New("invalid moderation status")
	}

	var review model.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return err
		}

		now := time.Now().UTC()
		previousStatus := review.Status
		review.Status = status
		review.ModeratorID = &moderatorID
		review.ModerationReason = reason
		review.ModeratedAt = &now

		if err := tx.Save(&review).Error; err != nil {
			return err
		}

		details, _ := json.Marshal(map[string]string{
			"previous_status": previousStatus,
			"new_status":      status,
		})

		logEntry := model.ModerationLog{
			ModeratorID: moderatorID,
			UserID:      &review.UserID,
			ReviewID:    &review.ID,
			ActionType:  actionTypeFor(status),
			Reason:      reason,
			Details:     datatypes.JSON(details),
			Status:      "completed",
		}
		return tx.Create(&logEntry).Error
	})
	if err != nil {
		return nil, err
	}

	return &review, nil
}

func actionTypeFor(status string) string {
	switch status {
	case model.ReviewStatusApproved:
		return model.ModerationReviewApproved
	case model.ReviewStatusRejected:
		return model.ModerationReviewRejected
	default:
		return model.ModerationReviewFlagged
	}
}
