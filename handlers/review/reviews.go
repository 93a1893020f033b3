package review

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nkk09/Cmps271/model"
	"github.com/nkk09/Cmps271/services"
	"github.com/nkk09/Cmps271/utils/middleware"
	"github.com/nkk09/Cmps271/utils/response"
	"github.com/nkk09/Cmps271/utils/validation"
	"gorm.io/gorm"
)

// ReviewHandler serves review submission, listing, and interactions
type ReviewHandler struct {
	db            *gorm.DB
	reviewService *services.ReviewService
	validator     *validation.Validator
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(db *gorm.DB, reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		db:            db,
		reviewService: reviewService,
		validator:     validation.NewValidator(),
	}
}

// CreateReviewRequest represents a review submission
type CreateReviewRequest struct {
	CourseID    uint    `json:"course_id" validate:"required"`
	ProfessorID uint    `json:"professor_id" validate:"required"`
	SectionID   *uint   `json:"section_id"`
	Title       string  `json:"title" validate:"required,max=200"`
	Content     string  `json:"content" validate:"required"`
	Rating      float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Attributes  string  `json:"attributes" validate:"max=500"`
}

// UpdateReviewRequest represents an edit to an existing review
type UpdateReviewRequest struct {
	Title      *string  `json:"title" validate:"omitempty,max=200"`
	Content    *string  `json:"content"`
	Rating     *float64 `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Attributes *string  `json:"attributes" validate:"omitempty,max=500"`
}

// ReviewResponse is the public projection of a review: the reviewer appears
// only as the anonymous username.
type ReviewResponse struct {
	ID               uint      `json:"id"`
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	Rating           float64   `json:"rating"`
	Attributes       string    `json:"attributes,omitempty"`
	ReviewerUsername string    `json:"reviewer_username"`
	CourseNumber     string    `json:"course_number"`
	ProfessorName    string    `json:"professor_name"`
	LikesCount       int       `json:"likes_count"`
	DislikesCount    int       `json:"dislikes_count"`
	NetRating        int       `json:"net_rating"`
	Status           string    `json:"status,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// buildReviewResponse projects a review with its preloaded user, course, and
// professor; anonymity is enforced here.
func buildReviewResponse(review *model.Review, includeStatus bool) ReviewResponse {
	res := ReviewResponse{
		ID:               review.ID,
		Title:            review.Title,
		Content:          review.Content,
		Rating:           review.Rating,
		Attributes:       review.Attributes,
		ReviewerUsername: review.User.Username,
		CourseNumber:     review.Course.CourseNumber,
		ProfessorName:    review.Professor.FullName,
		LikesCount:       review.LikesCount,
		DislikesCount:    review.DislikesCount,
		NetRating:        review.NetRating(),
		CreatedAt:        review.CreatedAt,
	}
	if includeStatus {
		res.Status = review.Status
	}
	return res
}

// ListReviews returns approved reviews with filtering and pagination
func (h *ReviewHandler) ListReviews(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	// Only approved, non-deleted reviews are ever listed
	query := h.db.Model(&model.Review{}).
		Where("status = ? AND deleted_at IS NULL", model.ReviewStatusApproved)

	if courseID := c.QueryInt("course_id"); courseID > 0 {
		query = query.Where("course_id = ?", courseID)
	}
	if professorID := c.QueryInt("professor_id"); professorID > 0 {
		query = query.Where("professor_id = ?", professorID)
	}
	if sectionID := c.QueryInt("section_id"); sectionID > 0 {
		query = query.Where("section_id = ?", sectionID)
	}
	if ratingMin := c.QueryFloat("rating_min"); ratingMin > 0 {
		query = query.Where("rating >= ?", ratingMin)
	}
	if ratingMax := c.QueryFloat("rating_max"); ratingMax > 0 {
		query = query.Where("rating <= ?", ratingMax)
	}

	switch c.Query("sort_by", "created_at") {
	case "rating":
		query = query.Order("rating DESC")
	case "net_rating":
		query = query.Order("(likes_count - dislikes_count) DESC")
	default:
		query = query.Order("created_at DESC")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count reviews")
	}

	var reviews []model.Review
	err := query.
		Preload("User").Preload("Course").Preload("Professor").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reviews).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to list reviews")
	}

	items := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, buildReviewResponse(&reviews[i], false))
	}

	return response.Paginated(c, items, response.CalculatePagination(page, pageSize, total))
}

// GetReview returns one review: approved ones for anyone, pending ones only
// for their owner.
func (h *ReviewHandler) GetReview(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	reviewID, err := c.ParamsInt("id")
	if err != nil || reviewID < 1 {
		return response.BadRequest(c, "Invalid review id")
	}

	var review model.Review
	err = h.db.Preload("User").Preload("Course").Preload("Professor").
		First(&review, reviewID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Review not found")
		}
		return response.InternalServerError(c, "Failed to load review")
	}

	if review.Status != model.ReviewStatusApproved && review.UserID != userID {
		return response.Forbidden(c, "You don't have access to this review")
	}
	if review.DeletedAt != nil {
		return response.NotFound(c, "Review has been deleted")
	}

	return response.Success(c, buildReviewResponse(&review, true))
}

// CreateReview submits a new review. Reviews start pending and require
// moderation before becoming visible.
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, "Validation failed")
	}

	var course model.Course
	if err := h.db.First(&course, req.CourseID).Error; err != nil {
		return response.BadRequest(c, "Course not found")
	}

	var professor model.Professor
	if err := h.db.First(&professor, req.ProfessorID).Error; err != nil {
		return response.BadRequest(c, "Professor not found")
	}

	if req.SectionID != nil {
		var section model.CourseSection
		if err := h.db.First(&section, *req.SectionID).Error; err != nil ||
			section.CourseID != req.CourseID || section.ProfessorID != req.ProfessorID {
			return response.BadRequest(c, "Invalid section")
		}
	}

	review := model.Review{
		UserID:      user.ID,
		CourseID:    req.CourseID,
		ProfessorID: req.ProfessorID,
		SectionID:   req.SectionID,
		Title:       req.Title,
		Content:     req.Content,
		Rating:      req.Rating,
		Attributes:  req.Attributes,
		Status:      model.ReviewStatusPending,
	}

	if err := h.db.Create(&review).Error; err != nil {
		return response.InternalServerError(c, "Failed to create review")
	}

	review.User = *user
	review.Course = course
	review.Professor = professor

	return response.Created(c, buildReviewResponse(&review, true))
}

// UpdateReview edits the caller's own review
func (h *ReviewHandler) UpdateReview(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	reviewID, err := c.ParamsInt("id")
	if err != nil || reviewID < 1 {
		return response.BadRequest(c, "Invalid review id")
	}

	var req UpdateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, "Validation failed")
	}

	var review model.Review
	err = h.db.Preload("User").Preload("Course").Preload("Professor").
		First(&review, reviewID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Review not found")
		}
		return response.InternalServerError(c, "Failed to load review")
	}

	if review.UserID != user.ID {
		return response.Forbidden(c, "You can only edit your own reviews")
	}
	if review.DeletedAt != nil {
		return response.BadRequest(c, "Cannot edit deleted reviews")
	}

	if req.Title != nil {
		review.Title = *req.Title
	}
	if req.Content != nil {
		review.Content = *req.Content
	}
	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Attributes != nil {
		review.Attributes = *req.Attributes
	}

	if err := h.db.Save(&review).Error; err != nil {
		return response.InternalServerError(c, "Failed to update review")
	}

	return response.Success(c, buildReviewResponse(&review, true))
}

// DeleteReview soft-deletes the caller's own review, preserving moderation
// history.
func (h *ReviewHandler) DeleteReview(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	reviewID, err := c.ParamsInt("id")
	if err != nil || reviewID < 1 {
		return response.BadRequest(c, "Invalid review id")
	}

	var review model.Review
	if err := h.db.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Review not found")
		}
		return response.InternalServerError(c, "Failed to load review")
	}

	if review.UserID != user.ID {
		return response.Forbidden(c, "You can only delete your own reviews")
	}

	now := time.Now().UTC()
	if err := h.db.Model(&review).Update("deleted_at", &now).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete review")
	}

	return response.NoContent(c)
}

// LikeReview records a like from the current user
func (h *ReviewHandler) LikeReview(c *fiber.Ctx) error {
	return h.react(c, model.InteractionLike)
}

// DislikeReview records a dislike from the current user
func (h *ReviewHandler) DislikeReview(c *fiber.Ctx) error {
	return h.react(c, model.InteractionDislike)
}

func (h *ReviewHandler) react(c *fiber.Ctx, kind string) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	reviewID, err := c.ParamsInt("id")
	if err != nil || reviewID < 1 {
		return response.BadRequest(c, "Invalid review id")
	}

	likes, dislikes, err := h.reviewService.React(uint(reviewID), userID, kind)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReviewNotFound):
			return response.NotFound(c, "Review not found")
		case errors.Is(err, services.ErrReviewNotInteractable):
			return response.BadRequest(c, "Cannot interact with this review")
		default:
			return response.InternalServerError(c, "Failed to record interaction")
		}
	}

	return c.JSON(fiber.Map{
		"status":         "success",
		"likes_count":    likes,
		"dislikes_count": dislikes,
	})
}
