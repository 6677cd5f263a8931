package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/NoteVault-io/notevault/internal/auth"
	"github.com/NoteVault-io/notevault/internal/database"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterHandler handles user registration.
func (api *Api) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := api.auth.Register(creds.Email, creds.Password)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrDuplicateEmail),
			errors.Is(err, auth.ErrInvalidEmail),
			errors.Is(err, auth.ErrInvalidPassword):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("Registration failed: %v", err)
			respondError(w, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// LoginHandler verifies credentials and returns an access token.
func (api *Api) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := api.auth.Login(creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		log.Printf("Login failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"access_token": token})
}
