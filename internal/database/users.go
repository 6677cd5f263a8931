package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/NoteVault-io/notevault/internal/models"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// UserStore provides persistence for user accounts. The users.email unique
// index is the authority on duplicates: concurrent registrations race at the
// database, not in application code, and the loser gets ErrDuplicateEmail.
type UserStore struct {
	db *DB
}

// NewUserStore creates a UserStore backed by db.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new user. The Password field must already be hashed.
func (s *UserStore) Create(user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	var err error
	if s.db.driver == "postgres" {
		err = s.db.conn.QueryRow(
			s.db.rebind(`INSERT INTO users (email, password, created_at, updated_at) VALUES (?, ?, ?, ?) RETURNING id`),
			user.Email, user.Password, user.CreatedAt, user.UpdatedAt,
		).Scan(&user.ID)
	} else {
		var result sql.Result
		result, err = s.db.conn.Exec(
			`INSERT INTO users (email, password, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			user.Email, user.Password, user.CreatedAt, user.UpdatedAt,
		)
		if err == nil {
			user.ID, err = result.LastInsertId()
		}
	}
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// GetByEmail retrieves a user by email.
func (s *UserStore) GetByEmail(email string) (*models.User, error) {
	return s.scanUser(s.db.conn.QueryRow(
		s.db.rebind(`SELECT id, email, password, created_at, updated_at FROM users WHERE email = ?`),
		email,
	))
}

// GetByID retrieves a user by id.
func (s *UserStore) GetByID(id int64) (*models.User, error) {
	return s.scanUser(s.db.conn.QueryRow(
		s.db.rebind(`SELECT id, email, password, created_at, updated_at FROM users WHERE id = ?`),
		id,
	))
}

func (s *UserStore) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
