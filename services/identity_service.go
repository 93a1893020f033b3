package services

import (
	"errors"
	"strings"
	"time"

	"github.com/nkk09/Cmps271/model"
	"github.com/nkk09/Cmps271/utils/username"
	"gorm.io/gorm"
)

// createRetries bounds retries when an insert loses a race on a unique index
const createRetries = 3

// IdentityService maps external identity assertions (Entra claims or a
// verified OTP email) onto durable anonymous user rows.
type IdentityService struct {
	db *gorm.DB
}

// NewIdentityService creates a new identity service
func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{db: db}
}

// ResolveOrCreate finds the user for an external identity key, creating the
// row on first login. Existing users get last_login, email, and role
// refreshed (last-write-wins; a user's role can change between logins).
// Concurrent first-logins serialize on the entra_oid unique index: losing
// the race means the row exists, so we re-fetch and update instead.
func (s *IdentityService) ResolveOrCreate(entraOID string, email string, role string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user model.User
	err := s.db.Where("entra_oid = ?", entraOID).First(&user).Error
	if err == nil {
		return s.touch(&user, email, role)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	for i := 0; i < createRetries; i++ {
		name, err := username.GenerateUnique(s.usernameExists)
		if err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		user = model.User{
			Username:   name,
			EntraOID:   entraOID,
			EntraEmail: email,
			Role:       role,
			LastLogin:  &now,
			IsActive:   true,
		}

		err = s.db.Create(&user).Error
		if err == nil {
			return &user, nil
		}
		if !isUniqueViolation(err) {
			return nil, err
		}

		// Either a concurrent first-login inserted our identity, or the
		// generated username collided. Distinguish by re-fetching.
		var existing model.User
		fetchErr := s.db.Where("entra_oid = ?", entraOID).First(&existing).Error
		if fetchErr == nil {
			return s.touch(&existing, email, role)
		}
		if !errors.Is(fetchErr, gorm.ErrRecordNotFound) {
			return nil, fetchErr
		}
		// Username collision; loop and regenerate
	}

	return nil, errors.New("could not create user after retries")
}

// touch refreshes mutable identity fields on login
func (s *IdentityService) touch(user *model.User, email string, role string) (*model.User, error) {
	now := time.Now().UTC()
	user.LastLogin = &now
	user.EntraEmail = email
	user.Role = role

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *IdentityService) usernameExists(name string) (bool, error) {
	var count int64
	err := s.db.Model(&model.User{}).Where("username = ?", name).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Fallback for drivers that don't translate constraint errors
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
