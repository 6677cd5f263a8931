package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/NoteVault-io/notevault/internal/database"
	"github.com/NoteVault-io/notevault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memUserStore is an in-memory UserStore for service tests.
type memUserStore struct {
	mu      sync.Mutex
	seq     int64
	byEmail map[string]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{byEmail: make(map[string]*models.User)}
}

func (s *memUserStore) Create(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[user.Email]; ok {
		return database.ErrDuplicateEmail
	}
	s.seq++
	user.ID = s.seq
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.byEmail[user.Email] = user
	return nil
}

func (s *memUserStore) GetByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byEmail[email]
	if !ok {
		return nil, database.ErrNotFound
	}
	return user, nil
}

func (s *memUserStore) GetByID(id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, database.ErrNotFound
}

func newTestService() (*Service, *memUserStore, *TokenManager) {
	store := newMemUserStore()
	tm := NewTokenManager("test-secret")
	return NewService(store, tm, 5*time.Minute), store, tm
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, _, _ := newTestService()

	user, err := svc.Register("a@test.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "a@test.com", user.Email)
	assert.NotEqual(t, "secret123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register("a@test.com", "secret123")
	require.NoError(t, err)

	// A different password makes no difference: the identifier is taken.
	_, err = svc.Register("a@test.com", "otherpassword")
	assert.ErrorIs(t, err, database.ErrDuplicateEmail)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register("not-an-email", "secret123")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register("a@test.com", "short")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, _, tm := newTestService()

	user, err := svc.Register("a@test.com", "secret123")
	require.NoError(t, err)

	token, err := svc.Login("a@test.com", "secret123")
	require.NoError(t, err)

	userID, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register("a@test.com", "secret123")
	require.NoError(t, err)

	_, wrongPassword := svc.Login("a@test.com", "wrongpassword")
	_, unknownEmail := svc.Login("nobody@test.com", "secret123")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}
