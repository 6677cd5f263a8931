package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/NoteVault-io/notevault/internal/models"
)

// NoteStore provides persistence for notes. Every query is scoped by owner;
// a note belonging to a different user is indistinguishable from a missing
// one.
type NoteStore struct {
	db *DB
}

// NewNoteStore creates a NoteStore backed by db.
func NewNoteStore(db *DB) *NoteStore {
	return &NoteStore{db: db}
}

// Create inserts a new note for its owner.
func (s *NoteStore) Create(note *models.Note) error {
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	if s.db.driver == "postgres" {
		return s.db.conn.QueryRow(
			s.db.rebind(`INSERT INTO notes (name, content, created_by, created_at, updated_at) VALUES (?, ?, ?, ?, ?) RETURNING id`),
			note.Name, note.Content, note.CreatedBy, note.CreatedAt, note.UpdatedAt,
		).Scan(&note.ID)
	}

	result, err := s.db.conn.Exec(
		`INSERT INTO notes (name, content, created_by, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		note.Name, note.Content, note.CreatedBy, note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		return err
	}
	note.ID, err = result.LastInsertId()
	return err
}

// ListByOwner returns all notes created by the given user.
func (s *NoteStore) ListByOwner(ownerID int64) ([]*models.Note, error) {
	rows, err := s.db.conn.Query(
		s.db.rebind(`SELECT id, name, content, created_by, created_at, updated_at FROM notes WHERE created_by = ? ORDER BY id`),
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []*models.Note{}
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.Name, &note.Content, &note.CreatedBy, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, &note)
	}
	return notes, rows.Err()
}

// GetByID retrieves a note by id, scoped to its owner.
func (s *NoteStore) GetByID(id, ownerID int64) (*models.Note, error) {
	var note models.Note
	err := s.db.conn.QueryRow(
		s.db.rebind(`SELECT id, name, content, created_by, created_at, updated_at FROM notes WHERE id = ? AND created_by = ?`),
		id, ownerID,
	).Scan(&note.ID, &note.Name, &note.Content, &note.CreatedBy, &note.CreatedAt, &note.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// Update rewrites a note's name and content and bumps updated_at.
func (s *NoteStore) Update(note *models.Note) error {
	note.UpdatedAt = time.Now().UTC()
	result, err := s.db.conn.Exec(
		s.db.rebind(`UPDATE notes SET name = ?, content = ?, updated_at = ? WHERE id = ? AND created_by = ?`),
		note.Name, note.Content, note.UpdatedAt, note.ID, note.CreatedBy,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a note, scoped to its owner.
func (s *NoteStore) Delete(id, ownerID int64) error {
	result, err := s.db.conn.Exec(
		s.db.rebind(`DELETE FROM notes WHERE id = ? AND created_by = ?`),
		id, ownerID,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
