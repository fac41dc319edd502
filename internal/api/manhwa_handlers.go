package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/manna-app/manna-go/internal/models"
	"github.com/manna-app/manna-go/internal/store"
)

func (s *Server) handleListManhwas(w http.ResponseWriter, r *http.Request) {
	manhwas, err := s.store.ListManhwas()
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to list manhwas")
		return
	}
	RespondWithJSON(w, http.StatusOK, manhwas)
}

func (s *Server) handleGetManhwa(w http.ResponseWriter, r *http.Request) {
	manhwaID := chi.URLParam(r, "manhwaID")

	m, err := s.store.GetManhwa(manhwaID)
	if err != nil {
		if errors.Is(err, store.ErrManhwaNotFound) {
			RespondWithError(w, http.StatusNotFound, "Manhwa not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve manhwa")
		return
	}

	// Chapters come with the requesting user's progress when logged in.
	chapters, err := s.store.ListChapters(manhwaID, userID(r))
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve chapters")
		return
	}
	m.Chapters = chapters

	RespondWithJSON(w, http.StatusOK, m)
}

type manhwaPayload struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
	Status      string   `json:"status"`
	Rating      float64  `json:"rating"`
}

func (p *manhwaPayload) validate() string {
	if p.Title == "" {
		return "Title is required"
	}
	if p.Status != "" && !models.ValidStatus(p.Status) {
		return "Invalid status"
	}
	if p.Rating < 0 || p.Rating > 5 {
		return "Rating must be between 0 and 5"
	}
	return ""
}

func (s *Server) handleCreateManhwa(w http.ResponseWriter, r *http.Request) {
	var payload manhwaPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if msg := payload.validate(); msg != "" {
		RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	m := &models.Manhwa{
		Title:       payload.Title,
		Author:      payload.Author,
		Description: payload.Description,
		Genres:      payload.Genres,
		Status:      payload.Status,
		Rating:      payload.Rating,
		UploaderID:  userID(r),
	}
	created, err := s.store.CreateManhwa(m)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to create manhwa")
		return
	}
	RespondWithJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateManhwa(w http.ResponseWriter, r *http.Request) {
	m, ok := s.manageableManhwa(w, r)
	if !ok {
		return
	}

	var payload manhwaPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if msg := payload.validate(); msg != "" {
		RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	m.Title = payload.Title
	m.Author = payload.Author
	m.Description = payload.Description
	m.Genres = payload.Genres
	if payload.Status != "" {
		m.Status = payload.Status
	}
	m.Rating = payload.Rating

	if err := s.store.UpdateManhwa(m); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to update manhwa")
		return
	}
	RespondWithJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteManhwa(w http.ResponseWriter, r *http.Request) {
	m, ok := s.manageableManhwa(w, r)
	if !ok {
		return
	}

	chapters, err := s.store.ListChapters(m.ID, 0)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve chapters")
		return
	}

	if err := s.store.DeleteManhwa(m.ID); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to delete manhwa")
		return
	}

	// Stored artwork is removed after the database row; a leftover file
	// is harmless, a dangling row is not.
	s.processor.RemoveCover(m.ID)
	for _, c := range chapters {
		s.processor.RemoveChapterPages(c.ID)
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleLogView records one read of a series. Failures are deliberately
// invisible to the reader; a lost view is not worth an error page.
func (s *Server) handleLogView(w http.ResponseWriter, r *http.Request) {
	manhwaID := chi.URLParam(r, "manhwaID")

	if err := s.store.LogView(manhwaID, userID(r)); err != nil {
		if errors.Is(err, store.ErrManhwaNotFound) {
			RespondWithError(w, http.StatusNotFound, "Manhwa not found")
			return
		}
	}
	w.WriteHeader(http.StatusAccepted)
}

// manageableManhwa loads the manhwa from the URL and checks that the
// requesting user may modify it. Creators manage their own series,
// admins manage everything.
func (s *Server) manageableManhwa(w http.ResponseWriter, r *http.Request) (*models.Manhwa, bool) {
	manhwaID := chi.URLParam(r, "manhwaID")

	m, err := s.store.GetManhwa(manhwaID)
	if err != nil {
		if errors.Is(err, store.ErrManhwaNotFound) {
			RespondWithError(w, http.StatusNotFound, "Manhwa not found")
			return nil, false
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve manhwa")
		return nil, false
	}

	user := getUserFromContext(r)
	if user.Role != models.RoleAdmin && m.UploaderID != user.ID {
		RespondWithError(w, http.StatusForbidden, "Forbidden: You do not manage this manhwa")
		return nil, false
	}
	return m, true
}
