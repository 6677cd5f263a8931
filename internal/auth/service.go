package auth

import (
	"errors"
	"time"

	"github.com/NoteVault-io/notevault/internal/database"
	"github.com/NoteVault-io/notevault/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for both an unknown email and a wrong
// password, so a login attempt cannot be used to probe which accounts exist.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserStore is the persistence contract the service depends on. The SQL
// implementation lives in internal/database; tests substitute an in-memory
// one.
type UserStore interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id int64) (*models.User, error)
}

// Service orchestrates registration and login.
type Service struct {
	users    UserStore
	tokens   *TokenManager
	tokenTTL time.Duration
}

// NewService creates a Service.
func NewService(users UserStore, tokens *TokenManager, tokenTTL time.Duration) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		tokenTTL: tokenTTL,
	}
}

// Register validates the credentials, hashes the password and persists the
// new account. The plaintext password is not retained or logged.
func (s *Service) Register(email, password string) (*models.User, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Password: string(hashedPassword),
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and issues an access token.
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Generate(user.ID, s.tokenTTL)
}
