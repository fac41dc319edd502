package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/manna-app/manna-go/internal/models"
	"github.com/manna-app/manna-go/internal/store"
)

func (s *Server) handleListChapters(w http.ResponseWriter, r *http.Request) {
	manhwaID := chi.URLParam(r, "manhwaID")

	if _, err := s.store.GetManhwa(manhwaID); err != nil {
		if errors.Is(err, store.ErrManhwaNotFound) {
			RespondWithError(w, http.StatusNotFound, "Manhwa not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve manhwa")
		return
	}

	chapters, err := s.store.ListChapters(manhwaID, userID(r))
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve chapters")
		return
	}
	if chapters == nil {
		chapters = []*models.Chapter{}
	}
	RespondWithJSON(w, http.StatusOK, chapters)
}

func (s *Server) handleGetChapterDetails(w http.ResponseWriter, r *http.Request) {
	chapterID := chi.URLParam(r, "chapterID")

	chapter, err := s.store.GetChapter(chapterID, userID(r))
	if err != nil {
		if errors.Is(err, store.ErrChapterNotFound) {
			RespondWithError(w, http.StatusNotFound, "Chapter not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve chapter")
		return
	}
	RespondWithJSON(w, http.StatusOK, chapter)
}

func (s *Server) handleDeleteChapter(w http.ResponseWriter, r *http.Request) {
	chapterID := chi.URLParam(r, "chapterID")

	chapter, err := s.store.GetChapter(chapterID, 0)
	if err != nil {
		if errors.Is(err, store.ErrChapterNotFound) {
			RespondWithError(w, http.StatusNotFound, "Chapter not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve chapter")
		return
	}

	// Ownership follows the parent manhwa.
	m, err := s.store.GetManhwa(chapter.ManhwaID)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve manhwa")
		return
	}
	user := getUserFromContext(r)
	if user.Role != models.RoleAdmin && m.UploaderID != user.ID {
		RespondWithError(w, http.StatusForbidden, "Forbidden: You do not manage this manhwa")
		return
	}

	if err := s.store.DeleteChapter(chapterID); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to delete chapter")
		return
	}
	s.processor.RemoveChapterPages(chapterID)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	chapterID := chi.URLParam(r, "chapterID")

	var payload struct {
		ProgressPercent int  `json:"progress_percent"`
		Read            bool `json:"read"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.ProgressPercent < 0 || payload.ProgressPercent > 100 {
		RespondWithError(w, http.StatusBadRequest, "Progress must be between 0 and 100")
		return
	}

	err := s.store.UpdateChapterProgress(chapterID, userID(r), payload.ProgressPercent, payload.Read)
	if err != nil {
		if errors.Is(err, store.ErrChapterNotFound) {
			RespondWithError(w, http.StatusNotFound, "Chapter not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to update progress")
		return
	}
	w.WriteHeader(http.StatusOK)
}
