package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/nkk09/Cmps271/database"
	"github.com/nkk09/Cmps271/services"
	"gorm.io/gorm"
)

// Operator tool for review moderation. There is deliberately no HTTP surface
// for this; status changes happen here and every one leaves an audit row.
func main() {
	reviewID := flag.Uint("review", 0, "review id to moderate")
	moderatorID := flag.Uint("moderator", 0, "user id performing the action")
	status := flag.String("status", "", "new status: approved, rejected, or flagged")
	reason := flag.String("reason", "", "reason recorded in the audit log")
	flag.Parse()

	if *reviewID == 0 || *moderatorID == 0 || *status == "" {
		flag.Usage()
		log.Fatal("review, moderator, and status are required")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	store, err := database.StartGORM()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	gormDB := store.GetDB().(*gorm.DB)

	moderation := services.NewModerationService(gormDB)
	review, err := moderation.ModerateReview(*reviewID, *moderatorID, *status, *reason)
	if err != nil {
		log.Fatalf("Moderation failed: %v", err)
	}

	fmt.Printf("Review %d is now %q (moderated by user %d)\n", review.ID, review.Status, *moderatorID)
}
