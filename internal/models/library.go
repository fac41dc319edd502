package models

import "time"

// LibraryEntry is a manhwa saved to a user's personal library, together
// with that user's aggregate reading progress for it.
type LibraryEntry struct {
	Manhwa       *Manhwa   `json:"manhwa"`
	AddedAt      time.Time `json:"added_at"`
	ChaptersRead int       `json:"chapters_read"`
}

// ProfileStats are the reading statistics shown on a user's profile.
type ProfileStats struct {
	ChaptersRead     int   `json:"chapters_read"`
	InLibrary        int   `json:"in_library"`
	CompletedManhwas int   `json:"completed_manhwas"`
	ViewsContributed int64 `json:"views_contributed"`
}
