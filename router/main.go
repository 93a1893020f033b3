package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nkk09/Cmps271/config"
	"github.com/nkk09/Cmps271/database"
	"github.com/nkk09/Cmps271/handlers"
	auth_handlers "github.com/nkk09/Cmps271/handlers/auth"
	review_handlers "github.com/nkk09/Cmps271/handlers/review"
	user_handlers "github.com/nkk09/Cmps271/handlers/user"
	"github.com/nkk09/Cmps271/services"
	"github.com/nkk09/Cmps271/services/oauth"
	"github.com/nkk09/Cmps271/utils/cache"
	"github.com/nkk09/Cmps271/utils/middleware"
	"github.com/nkk09/Cmps271/utils/session"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage, cfg *config.EnviornmentVariable) {
	if cfg.SESSION_SECRET == "" {
		log.Fatal("SESSION_SECRET environment variable is not set")
	}

	codec := session.NewCodec(cfg.SESSION_SECRET)

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Initialize Redis cache for brute force protection
	redisURL := cfg.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	// Services
	entra := oauth.NewEntraClient(oauth.Config{
		TenantID:     cfg.ENTRA_TENANT_ID,
		ClientID:     cfg.ENTRA_CLIENT_ID,
		ClientSecret: cfg.ENTRA_CLIENT_SECRET,
		RedirectURI:  cfg.ENTRA_REDIRECT_URI,
	})
	identityService := services.NewIdentityService(db)
	emailService := services.NewEmailService(cfg)
	otpService := services.NewOTPService(db, emailService, identityService, cfg.OTP_EXPIRY_MINUTES)
	reviewService := services.NewReviewService(db)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(codec, db)
	authHandler := auth_handlers.NewAuthHandler(db, cfg, codec, entra, identityService, otpService, bruteForceProtection)
	reviewHandler := review_handlers.NewReviewHandler(db, reviewService)
	userHandler := user_handlers.NewUserHandler(db)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:5173"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Get("/login", authHandler.Login)
	authGroup.Get("/callback", authHandler.Callback)

	// OTP verify carries brute force protection when Redis is available
	authGroup.Post("/otp/send", authHandler.OTPSend)
	if bruteForceProtection != nil {
		authGroup.Post("/otp/verify", bruteForceProtection.CheckLocked(), authHandler.OTPVerify)
	} else {
		authGroup.Post("/otp/verify", authHandler.OTPVerify)
	}

	// Session routes
	authGroup.Get("/me", authMiddleware.Required(), authHandler.Me)
	authGroup.Post("/logout", authHandler.Logout)

	// Review routes
	reviews := api.Group("/reviews")
	reviews.Get("/", reviewHandler.ListReviews)
	reviews.Get("/:id", reviewHandler.GetReview)
	reviews.Post("/", authMiddleware.Required(), reviewHandler.CreateReview)
	reviews.Put("/:id", authMiddleware.Required(), reviewHandler.UpdateReview)
	reviews.Delete("/:id", authMiddleware.Required(), reviewHandler.DeleteReview)
	reviews.Post("/:id/like", authMiddleware.Required(), reviewHandler.LikeReview)
	reviews.Post("/:id/dislike", authMiddleware.Required(), reviewHandler.DislikeReview)

	// Public user profiles
	api.Get("/users/:id", userHandler.GetProfile)

	// Maintenance
	api.Post("/admin/cleanup-otps", authHandler.CleanupOTPs)
}
