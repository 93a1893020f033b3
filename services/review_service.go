package services

import (
	"errors"
	"log"

	"github.com/nkk09/Cmps271/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrReviewNotFound        = errors.New("review not found")
	ErrReviewNotInteractable = errors.New("cannot interact with this review")
)

// reactionAction describes what a reaction does to the interaction row
type reactionAction int

const (
	reactionInsert reactionAction = iota
	reactionRemove
	reactionFlip
)

// ReviewService owns the like/dislike ledger and keeps the denormalized
// counters on reviews consistent with the interaction rows.
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService creates a new review service
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// applyReaction computes the transition for a reaction given the user's
// existing interaction type ("" for none). Counters never go negative.
func applyReaction(existingType string, kind string, likes int, dislikes int) (reactionAction, int, int) {
	counters := map[string]*int{
		model.InteractionLike:    &likes,
		model.InteractionDislike: &dislikes,
	}

	switch existingType {
	case "":
		*counters[kind]++
		return reactionInsert, likes, dislikes
	case kind:
		// Toggle off
		if *counters[kind] > 0 {
			*counters[kind]--
		}
		return reactionRemove, likes, dislikes
	default:
		if *counters[existingType] > 0 {
			*counters[existingType]--
		}
		*counters[kind]++
		return reactionFlip, likes, dislikes
	}
}

// React records a like or dislike from a user on a review and returns the
// updated counters. The read-modify-write runs in one transaction with the
// review row locked, so concurrent reactions from the same user cannot
// double-insert rows or skew the counters.
func (s *ReviewService) React(reviewID uint, userID uint, kind string) (likes int, dislikes int, err error) {
	if kind != model.InteractionLike && kind != model.InteractionDislike {
		return 0, 0, errors.New("unknown interaction type")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var review model.Review
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return err
		}

		if !review.IsInteractable() {
			return ErrReviewNotInteractable
		}

		existingType := ""
		var existing model.ReviewInteraction
		err := tx.Where("review_id = ? AND user_id = ?", reviewID, userID).
			First(&existing).Error
		if err == nil {
			existingType = existing.InteractionType
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		action, newLikes, newDislikes := applyReaction(existingType, kind, review.LikesCount, review.DislikesCount)

		switch action {
		case reactionInsert:
			interaction := model.ReviewInteraction{
				ReviewID:        reviewID,
				UserID:          userID,
				InteractionType: kind,
			}
			if err := tx.Create(&interaction).Error; err != nil {
				return err
			}
		case reactionRemove:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		case reactionFlip:
			if err := tx.Model(&existing).Update("interaction_type", kind).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&review).Updates(map[string]interface{}{
			"likes_count":    newLikes,
			"dislikes_count": newDislikes,
		}).Error; err != nil {
			return err
		}

		likes = newLikes
		dislikes = newDislikes
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	log.Printf("User %d reacted %s on review %d", userID, kind, reviewID)
	return likes, dislikes, nil
}
