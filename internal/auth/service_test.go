package auth

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/avasilenko/scribe/internal/config"
	"github.com/avasilenko/scribe/internal/database/users"
	"github.com/avasilenko/scribe/internal/entities"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewService(users.NewRepository(db), config.Auth{BcryptCost: 4})
}

func TestService_RegisterThenAuthenticate(t *testing.T) {
	svc := setupTestService(t)

	created, err := svc.Register("alice", "pw123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Register() returned user with zero ID")
	}
	if created.PasswordHash == "" || created.PasswordHash == "pw123" {
		t.Error("password must be stored hashed")
	}

	authed, err := svc.Authenticate("alice", "pw123")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if authed.ID != created.ID {
		t.Errorf("Authenticate() resolved ID %d, want %d", authed.ID, created.ID)
	}
}

func TestService_Register_Duplicate(t *testing.T) {
	svc := setupTestService(t)

	if _, err := svc.Register("alice", "pw123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := svc.Register("alice", "otherpassword")
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("Register() duplicate error = %v, want ErrUserExists", err)
	}
}

func TestService_Register_EmptyPassword(t *testing.T) {
	svc := setupTestService(t)

	_, err := svc.Register("alice", "")
	if !errors.Is(err, ErrPasswordEmpty) {
		t.Errorf("Register() error = %v, want ErrPasswordEmpty", err)
	}
}

// Wrong password and unknown username must be indistinguishable to the
// caller so login failures cannot enumerate usernames.
func TestService_Authenticate_GenericFailure(t *testing.T) {
	svc := setupTestService(t)

	if _, err := svc.Register("alice", "pw123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, wrongPass := svc.Authenticate("alice", "wrong")
	_, noUser := svc.Authenticate("nobody", "pw123")

	if !errors.Is(wrongPass, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", wrongPass)
	}
	if !errors.Is(noUser, ErrInvalidCredentials) {
		t.Errorf("unknown user error = %v, want ErrInvalidCredentials", noUser)
	}
}

func TestService_AuthenticateGoogle_FindOrCreate(t *testing.T) {
	svc := setupTestService(t)

	first, err := svc.AuthenticateGoogle("goog-12345")
	if err != nil {
		t.Fatalf("AuthenticateGoogle() error = %v", err)
	}
	if first.ID == 0 {
		t.Fatal("AuthenticateGoogle() returned user with zero ID")
	}
	if first.GoogleID == nil || *first.GoogleID != "goog-12345" {
		t.Error("created user missing google id")
	}

	second, err := svc.AuthenticateGoogle("goog-12345")
	if err != nil {
		t.Fatalf("AuthenticateGoogle() second call error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("AuthenticateGoogle() created a duplicate: %d vs %d", second.ID, first.ID)
	}
}

// A Google-only account has no local credential and must not be
// log-in-able with any password.
func TestService_Authenticate_GoogleOnlyAccount(t *testing.T) {
	svc := setupTestService(t)

	user, err := svc.AuthenticateGoogle("goog-777")
	if err != nil {
		t.Fatalf("AuthenticateGoogle() error = %v", err)
	}

	_, err = svc.Authenticate(user.Username, "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Authenticate() on google-only account = %v, want ErrInvalidCredentials", err)
	}
}
