package auth

import (
	"errors"
	"fmt"

	"github.com/avasilenko/scribe/internal/config"
	"github.com/avasilenko/scribe/internal/database/users"
	"github.com/avasilenko/scribe/internal/entities"
)

var (
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so that login failures cannot be used to enumerate users.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// dummyHash is a bcrypt hash of a random throwaway value. When a login
// names a user that does not exist we still run a bcrypt comparison
// against it, keeping the two failure paths at the same cost.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// Service handles registration and credential verification.
type Service struct {
	users  *users.Repository
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(users *users.Repository, cfg config.Auth) *Service {
	return &Service{
		users:  users,
		config: cfg,
	}
}

// Register creates a local user from a username and plaintext password.
func (s *Service) Register(username, password string) (*entities.User, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(username, passwordHash)
	if err != nil {
		if errors.Is(err, users.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	return user, nil
}

// Authenticate validates a username/password pair and returns the user.
func (s *Service) Authenticate(username, password string) (*entities.User, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			// Burn the same bcrypt time as the wrong-password path.
			_ = CheckPassword(password, dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.PasswordHash == "" {
		// Google-only account; it has no local credential to match.
		_ = CheckPassword(password, dummyHash)
		return nil, ErrInvalidCredentials
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}

// AuthenticateGoogle resolves a verified Google account id to a user,
// creating one on first sight. Once the provider assertion is trusted
// the only failure mode is the store itself.
func (s *Service) AuthenticateGoogle(googleID string) (*entities.User, error) {
	user, err := s.users.FindOrCreateByGoogleID(googleID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve google identity: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	return s.users.GetByID(id)
}
