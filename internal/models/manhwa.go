// This file defines the core data structures (models) for our application.
// These structs represent the manhwas, chapters, and pages in the catalog.

package models

import "time"

// Manhwa status vocabulary. Status filtering is exact match only.
const (
	StatusOngoing   = "Ongoing"
	StatusCompleted = "Completed"
	StatusHiatus    = "Hiatus"
	StatusCancelled = "Cancelled"
)

// ValidStatus reports whether status is one of the recognized values.
func ValidStatus(status string) bool {
	switch status {
	case StatusOngoing, StatusCompleted, StatusHiatus, StatusCancelled:
		return true
	}
	return false
}

// Manhwa represents a single published work in the catalog.
// RowID is the SQLite primary key and must never be serialized;
// clients only ever see the public UUID.
type Manhwa struct {
	RowID        int64      `json:"-"`
	ID           string     `json:"id"` // public UUID
	Title        string     `json:"title"`
	Author       string     `json:"author"`
	Description  string     `json:"description"`
	Genres       []string   `json:"genres"`
	Status       string     `json:"status"`
	Rating       float64    `json:"rating"`
	Views        int64      `json:"views"`
	CoverURL     string     `json:"cover_url,omitempty"`
	Thumbnail    string     `json:"thumbnail,omitempty"`
	ChapterCount int        `json:"chapter_count"`
	UploaderID   int64      `json:"-"`
	Chapters     []*Chapter `json:"chapters,omitempty"` // omitempty hides it when not loaded
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Chapter represents a single chapter of a manhwa.
type Chapter struct {
	RowID           int64     `json:"-"`
	ID              string    `json:"id"` // public UUID
	ManhwaID        string    `json:"manhwa_id"`
	Number          float64   `json:"number"`
	Title           string    `json:"title"`
	PageCount       int       `json:"page_count"`
	Pages           []*Page   `json:"pages,omitempty"`
	Read            bool      `json:"read"`
	ProgressPercent int       `json:"progress_percent"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"-"`
}

// Page is a single image within a chapter.
type Page struct {
	Index    int    `json:"index"`
	ImageURL string `json:"image_url"`
	FileName string `json:"-"`
}
