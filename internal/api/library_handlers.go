package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/manna-app/manna-go/internal/models"
	"github.com/manna-app/manna-go/internal/store"
)

func (s *Server) handleListLibrary(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.ListLibrary(userID(r))
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve library")
		return
	}
	if entries == nil {
		entries = []*models.LibraryEntry{}
	}
	RespondWithJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAddToLibrary(w http.ResponseWriter, r *http.Request) {
	manhwaID := chi.URLParam(r, "manhwaID")

	if err := s.store.AddToLibrary(userID(r), manhwaID); err != nil {
		if errors.Is(err, store.ErrManhwaNotFound) {
			RespondWithError(w, http.StatusNotFound, "Manhwa not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to add to library")
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleRemoveFromLibrary(w http.ResponseWriter, r *http.Request) {
	manhwaID := chi.URLParam(r, "manhwaID")

	if err := s.store.RemoveFromLibrary(userID(r), manhwaID); err != nil {
		if errors.Is(err, store.ErrManhwaNotFound) {
			RespondWithError(w, http.StatusNotFound, "Manhwa not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to remove from library")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetProfileStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetProfileStats(userID(r))
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to compute profile stats")
		return
	}
	RespondWithJSON(w, http.StatusOK, stats)
}
