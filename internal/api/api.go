package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/NoteVault-io/notevault/internal/auth"
	"github.com/NoteVault-io/notevault/internal/config"
	"github.com/NoteVault-io/notevault/internal/models"
	"github.com/NoteVault-io/notevault/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NoteStore is the persistence contract the note handlers depend on.
type NoteStore interface {
	Create(note *models.Note) error
	ListByOwner(ownerID int64) ([]*models.Note, error)
	GetByID(id, ownerID int64) (*models.Note, error)
	Update(note *models.Note) error
	Delete(id, ownerID int64) error
}

type Api struct {
	Config  *config.Config
	Router  *chi.Mux
	auth    *auth.Service
	tokens  *auth.TokenManager
	notes   NoteStore
	exports *storage.S3Client // nil when export is not configured
}

// New wires the API together. exports may be nil; the export endpoint then
// reports itself unavailable.
func New(cfg *config.Config, authSvc *auth.Service, tokens *auth.TokenManager, notes NoteStore, exports *storage.S3Client) (*Api, error) {
	if cfg.APIPort == 0 {
		return nil, fmt.Errorf("must have at least a port to start API")
	}

	api := &Api{
		Config:  cfg,
		Router:  chi.NewRouter(),
		auth:    authSvc,
		tokens:  tokens,
		notes:   notes,
		exports: exports,
	}
	api.setupRoutes()
	return api, nil
}

func (api *Api) setupRoutes() {
	r := api.Router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/heartbeat", api.Heartbeat)

	// Public routes
	r.Post("/auth/register", api.RegisterHandler)
	r.Post("/auth/login", api.LoginHandler)

	// Protected routes: everything below resolves a caller identity first.
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(api.tokens))
		r.Post("/notes", api.CreateNoteHandler)
		r.Get("/notes", api.ListNotesHandler)
		r.Post("/notes/export", api.ExportNotesHandler)
		r.Get("/notes/{noteID}", api.GetNoteHandler)
		r.Put("/notes/{noteID}", api.UpdateNoteHandler)
		r.Delete("/notes/{noteID}", api.DeleteNoteHandler)
	})
}

// Serve starts the HTTP server and blocks.
func (api *Api) Serve() error {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://*.local:*", "http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Mount("/", api.Router)

	log.Printf("Starting API server on 0.0.0.0:%d", api.Config.APIPort)
	return http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", api.Config.APIPort), r)
}

func (api *Api) Heartbeat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}
