// Package users provides database operations for user identities.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetByUsername("alice")
package users

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/avasilenko/scribe/internal/entities"
)

// ErrNotFound is returned when no user matches the lookup key.
var ErrNotFound = errors.New("user not found")

// ErrDuplicate is returned when a unique constraint (username or
// google id) would be violated.
var ErrDuplicate = errors.New("user already exists")

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a locally registered user with a pre-hashed password.
func (r *Repository) Create(username, passwordHash string) (*entities.User, error) {
	user := &entities.User{
		Username:     username,
		PasswordHash: passwordHash,
	}

	err := r.db.Create(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by primary key.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username.
func (r *Repository) GetByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// maxUsernameAttempts bounds the retries when the generated username
// for a first-time Google sign-in is already taken by a local account.
const maxUsernameAttempts = 4

// FindOrCreateByGoogleID returns the user linked to the given Google
// account id, creating one if absent. The insert uses ON CONFLICT DO
// NOTHING against the unique google_id index, so two concurrent
// first-time callbacks for the same account converge on a single row.
// The generated username only seeds the new row; if a local account
// already holds it, the insert retries with a random suffix rather
// than failing the sign-in.
func (r *Repository) FindOrCreateByGoogleID(googleID string) (*entities.User, error) {
	if googleID == "" {
		return nil, fmt.Errorf("google id must not be empty")
	}

	username := "google_" + googleID
	for attempt := 0; ; attempt++ {
		user := &entities.User{
			Username: username,
			GoogleID: &googleID,
		}

		err := r.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "google_id"}},
			DoNothing: true,
		}).Create(user).Error
		if err == nil {
			break
		}
		if isUsernameViolation(err) && attempt < maxUsernameAttempts {
			suffix, serr := randomSuffix()
			if serr != nil {
				return nil, fmt.Errorf("failed to generate username suffix: %w", serr)
			}
			username = "google_" + googleID + "_" + suffix
			continue
		}
		return nil, fmt.Errorf("failed to upsert google user: %w", err)
	}

	// Fetch regardless of whether the insert happened: on conflict the
	// returned struct does not carry the existing row.
	var existing entities.User
	if err := r.db.Where("google_id = ?", googleID).First(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to load google user: %w", err)
	}
	return &existing, nil
}

// LinkGoogleID attaches a Google account id to an existing local user.
func (r *Repository) LinkGoogleID(userID uint, googleID string) error {
	result := r.db.Model(&entities.User{}).Where("id = ?", userID).Update("google_id", googleID)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to link google id: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of registered users.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}

// isUniqueViolation matches sqlite's unique-constraint error text; gorm's
// sqlite driver does not translate it to gorm.ErrDuplicatedKey on all
// versions.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isUsernameViolation reports whether the error is specifically the
// username unique index; the google_id index is handled by ON CONFLICT
// and never reaches here.
func isUsernameViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: users.username")
}

func randomSuffix() (string, error) {
	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
