package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/NoteVault-io/notevault/internal/auth"
	"github.com/NoteVault-io/notevault/internal/database"
	"github.com/NoteVault-io/notevault/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type noteRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// CreateNoteHandler creates a note owned by the caller.
func (api *Api) CreateNoteHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	note := &models.Note{
		Name:      req.Name,
		Content:   req.Content,
		CreatedBy: userID,
	}
	if err := api.notes.Create(note); err != nil {
		log.Printf("Error creating note: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create note")
		return
	}

	respondJSON(w, http.StatusCreated, note)
}

// ListNotesHandler returns all of the caller's notes.
func (api *Api) ListNotesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	notes, err := api.notes.ListByOwner(userID)
	if err != nil {
		log.Printf("Error listing notes: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to list notes")
		return
	}

	respondJSON(w, http.StatusOK, notes)
}

// GetNoteHandler returns one of the caller's notes by id.
func (api *Api) GetNoteHandler(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := api.noteRequestIDs(w, r)
	if !ok {
		return
	}

	note, err := api.notes.GetByID(noteID, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "note not found")
			return
		}
		log.Printf("Error fetching note %d: %v", noteID, err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch note")
		return
	}

	respondJSON(w, http.StatusOK, note)
}

// UpdateNoteHandler rewrites a note's name and content.
func (api *Api) UpdateNoteHandler(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := api.noteRequestIDs(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	note, err := api.notes.GetByID(noteID, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "note not found")
			return
		}
		log.Printf("Error fetching note %d: %v", noteID, err)
		respondError(w, http.StatusInternalServerError, "Failed to update note")
		return
	}

	note.Name = req.Name
	note.Content = req.Content
	if err := api.notes.Update(note); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "note not found")
			return
		}
		log.Printf("Error updating note %d: %v", noteID, err)
		respondError(w, http.StatusInternalServerError, "Failed to update note")
		return
	}

	respondJSON(w, http.StatusOK, note)
}

// DeleteNoteHandler removes one of the caller's notes.
func (api *Api) DeleteNoteHandler(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := api.noteRequestIDs(w, r)
	if !ok {
		return
	}

	if err := api.notes.Delete(noteID, userID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "note not found")
			return
		}
		log.Printf("Error deleting note %d: %v", noteID, err)
		respondError(w, http.StatusInternalServerError, "Failed to delete note")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("note %d deleted", noteID)})
}

// ExportNotesHandler uploads a JSON snapshot of the caller's notes to object
// storage and returns a presigned download URL.
func (api *Api) ExportNotesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if api.exports == nil {
		respondError(w, http.StatusServiceUnavailable, "export is not configured")
		return
	}

	notes, err := api.notes.ListByOwner(userID)
	if err != nil {
		log.Printf("Error listing notes for export: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to export notes")
		return
	}

	payload, err := json.Marshal(notes)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to export notes")
		return
	}

	key := fmt.Sprintf("users/%d/exports/%s.json", userID, uuid.NewString())
	if err := api.exports.Upload(r.Context(), key, bytes.NewReader(payload), "application/json"); err != nil {
		log.Printf("Error uploading export %s: %v", key, err)
		respondError(w, http.StatusInternalServerError, "Failed to export notes")
		return
	}

	url, err := api.exports.PresignGet(r.Context(), key, 15*time.Minute)
	if err != nil {
		log.Printf("Error presigning export %s: %v", key, err)
		respondError(w, http.StatusInternalServerError, "Failed to export notes")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"key": key, "url": url})
}

// noteRequestIDs resolves the caller identity and the noteID path parameter,
// writing the error response itself when either is missing.
func (api *Api) noteRequestIDs(w http.ResponseWriter, r *http.Request) (userID, noteID int64, ok bool) {
	userID, ok = auth.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return 0, 0, false
	}

	noteID, err := strconv.ParseInt(chi.URLParam(r, "noteID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "note not found")
		return 0, 0, false
	}
	return userID, noteID, true
}
