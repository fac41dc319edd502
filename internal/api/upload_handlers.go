package api

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/manna-app/manna-go/internal/models"
	"github.com/manna-app/manna-go/internal/upload"
)

// Upload size caps. Covers are single images; chapter archives hold a
// full strip of pages.
const (
	maxCoverSize   = 10 << 20  // 10 MiB
	maxArchiveSize = 200 << 20 // 200 MiB
)

func (s *Server) handleUploadCover(w http.ResponseWriter, r *http.Request) {
	m, ok := s.manageableManhwa(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCoverSize)
	if err := r.ParseMultipartForm(maxCoverSize); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid multipart form or file too large")
		return
	}

	file, _, err := r.FormFile("cover")
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "A 'cover' file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to read upload")
		return
	}

	coverURL, thumbnail, err := s.processor.SaveCover(m.ID, data)
	if err != nil {
		RespondWithError(w, http.StatusUnprocessableEntity, "Could not process cover image")
		return
	}

	m.CoverURL = coverURL
	m.Thumbnail = thumbnail
	if err := s.store.UpdateManhwa(m); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to store cover")
		return
	}

	RespondWithJSON(w, http.StatusOK, m)
}

// handleUploadChapter accepts a ZIP archive of page images plus
// optional "number" and "title" form fields. Pages are stored in
// natural file name order.
func (s *Server) handleUploadChapter(w http.ResponseWriter, r *http.Request) {
	m, ok := s.manageableManhwa(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxArchiveSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid multipart form or file too large")
		return
	}

	file, _, err := r.FormFile("archive")
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "An 'archive' file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to read upload")
		return
	}

	pageFiles, err := upload.ExtractPages(data)
	if err != nil {
		RespondWithError(w, http.StatusUnprocessableEntity, "Archive contains no readable pages")
		return
	}

	chapter := &models.Chapter{
		ID:    uuid.NewString(),
		Title: r.FormValue("title"),
	}
	if raw := r.FormValue("number"); raw != "" {
		number, err := strconv.ParseFloat(raw, 64)
		if err != nil || number <= 0 {
			RespondWithError(w, http.StatusBadRequest, "Chapter number must be a positive number")
			return
		}
		chapter.Number = number
	}

	// Write the normalized pages first, so a failed transcode never
	// leaves a chapter row behind.
	pages := make([]*models.Page, 0, len(pageFiles))
	for i, pf := range pageFiles {
		pageURL, err := s.processor.SavePage(chapter.ID, i, pf.Data)
		if err != nil {
			s.processor.RemoveChapterPages(chapter.ID)
			RespondWithError(w, http.StatusUnprocessableEntity, "Could not process page "+pf.Name)
			return
		}
		pages = append(pages, &models.Page{
			Index:    i,
			ImageURL: pageURL,
			FileName: filepath.Base(pageURL),
		})
		s.app.WsHub().BroadcastJSON(models.ProgressUpdate{
			JobID:    "chapter-upload",
			Message:  "Processing " + pf.Name,
			Progress: float64(i+1) / float64(len(pageFiles)) * 100,
		})
	}

	created, err := s.store.CreateChapter(m.ID, chapter, pages)
	if err != nil {
		s.processor.RemoveChapterPages(chapter.ID)
		RespondWithError(w, http.StatusConflict, "Failed to create chapter; the chapter number may already exist")
		return
	}

	s.app.WsHub().BroadcastJSON(models.ProgressUpdate{
		JobID:    "chapter-upload",
		Message:  "Chapter " + created.ID + " ready",
		Progress: 100,
		Done:     true,
	})
	RespondWithJSON(w, http.StatusCreated, created)
}
