// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/manna-app/manna-go/internal/auth"
	"github.com/manna-app/manna-go/internal/core"
	"github.com/manna-app/manna-go/internal/search"
	"github.com/manna-app/manna-go/internal/store"
	"github.com/manna-app/manna-go/internal/upload"
)

// Server holds the dependencies for our API.
type Server struct {
	app       *core.App
	db        *sql.DB
	store     *store.Store
	engine    *search.Engine
	memory    *search.MemorySource
	tokens    auth.TokenService
	processor *upload.Processor
}

// NewServer creates a new Server instance.
func NewServer(app *core.App) *Server {
	storeInstance := store.New(app.DB())

	// The in-memory catalog backs the query engine when the database
	// path fails or matches nothing.
	entries := search.Seed()
	if path := app.Config().Search.SeedPath; path != "" {
		loaded, err := search.LoadSeedFile(path)
		if err != nil {
			log.Printf("Could not load seed catalog from %s, using built-in seed: %v", path, err)
		} else {
			entries = loaded
		}
	}
	memory := search.NewMemorySource(entries)

	return &Server{
		app:       app,
		db:        app.DB(),
		store:     storeInstance,
		engine:    search.New(storeInstance, memory),
		memory:    memory,
		tokens:    auth.NewTokenService(app.Config().Auth.JWTSecret),
		processor: upload.NewProcessor(app.Config().Uploads.Path),
	}
}

// Store returns the store instance.
func (s *Server) Store() *store.Store {
	return s.store
}

// MemorySource returns the fallback catalog, so the seed file watcher
// can reload it.
func (s *Server) MemorySource() *search.MemorySource {
	return s.memory
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Logs requests to the console
	r.Use(middleware.Recoverer) // Recovers from panics
	r.Use(middleware.Timeout(60 * time.Second))

	// Public routes
	r.Post("/api/users/register", s.handleRegister)
	r.Post("/api/users/login", s.handleLogin)
	r.Post("/api/users/token", s.handleIssueToken)
	r.Get("/api/version", s.handleGetVersion)

	r.Group(func(r chi.Router) {
		r.Use(s.AuthMiddleware)

		r.Post("/api/users/logout", s.handleLogout)
		r.Get("/api/users/me", s.handleGetMe)
		r.Get("/api/users/me/stats", s.handleGetProfileStats)

		// Library Routes
		r.Get("/api/library", s.handleListLibrary)
		r.Post("/api/library/{manhwaID}", s.handleAddToLibrary)
		r.Delete("/api/library/{manhwaID}", s.handleRemoveFromLibrary)
	})

	// Reads and writes share the subtree, so each method carries its own
	// middleware chain. Catalog reads work without an account; the
	// optional middleware attaches the user when a session or token is
	// present so reading progress and view attribution still line up.
	r.Route("/api/manhwas", func(r chi.Router) {
		read := r.With(s.OptionalAuthMiddleware)
		read.Get("/search", s.handleSearchManhwas)
		read.Get("/genres", s.handleListGenres)
		read.Get("/", s.handleListManhwas)
		read.Get("/{manhwaID}", s.handleGetManhwa)
		read.Get("/{manhwaID}/chapters", s.handleListChapters)
		read.Post("/{manhwaID}/view", s.handleLogView)

		// Publishing Routes
		write := r.With(s.AuthMiddleware, s.CreatorOnlyMiddleware)
		write.Post("/", s.handleCreateManhwa)
		write.Put("/{manhwaID}", s.handleUpdateManhwa)
		write.Delete("/{manhwaID}", s.handleDeleteManhwa)
		write.Post("/{manhwaID}/cover", s.handleUploadCover)
		write.Post("/{manhwaID}/chapters", s.handleUploadChapter)
	})

	r.Route("/api/chapters", func(r chi.Router) {
		r.With(s.OptionalAuthMiddleware).Get("/{chapterID}", s.handleGetChapterDetails)
		r.With(s.AuthMiddleware).Post("/{chapterID}/progress", s.handleUpdateProgress)
		r.With(s.AuthMiddleware, s.CreatorOnlyMiddleware).Delete("/{chapterID}", s.handleDeleteChapter)
	})

	// Admin Routes
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(s.AuthMiddleware, s.AdminOnlyMiddleware)

		r.Get("/jobs/status", s.handleGetAdminJobsStatus)
		r.Post("/jobs/run", s.handleRunAdminJob)

		r.Get("/users", s.handleAdminListUsers)
		r.Post("/users", s.handleAdminCreateUser)
		r.Put("/users/{userID}", s.handleAdminUpdateUser)
		r.Delete("/users/{userID}", s.handleAdminDeleteUser)
	})

	// WebSocket route
	r.Get("/ws/progress", func(w http.ResponseWriter, r *http.Request) {
		s.app.WsHub().ServeWs(w, r)
	})

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		if err := s.db.Ping(); err != nil {
			RespondWithError(w, http.StatusServiceUnavailable, "Database connection failed")
			return
		}
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Stored covers and pages
	FileServer(r, "/uploads/", http.Dir(s.app.Config().Uploads.Path))

	return r
}

// FileServer conveniently sets up a static file server that doesn't list directories.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	fs := http.StripPrefix(path, http.FileServer(root))
	r.Get(path+"*", func(w http.ResponseWriter, r *http.Request) {
		fs.ServeHTTP(w, r)
	})
}
