package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/manna-app/manna-go/internal/models"
)

// AddToLibrary saves a manhwa to a user's library. Adding an entry that is
// already there is not an error.
func (s *Store) AddToLibrary(userID int64, manhwaPublicID string) error {
	rowID, err := s.manhwaRowID(manhwaPublicID)
	if err != nil {
		return err
	}
	_, err = s.db.Exec("INSERT OR IGNORE INTO library (user_id, manhwa_id) VALUES (?, ?)", userID, rowID)
	return err
}

// RemoveFromLibrary drops a manhwa from a user's library.
func (s *Store) RemoveFromLibrary(userID int64, manhwaPublicID string) error {
	rowID, err := s.manhwaRowID(manhwaPublicID)
	if err != nil {
		return err
	}
	_, err = s.db.Exec("DELETE FROM library WHERE user_id = ? AND manhwa_id = ?", userID, rowID)
	return err
}

// ListLibrary returns a user's saved manhwas, most recently added first,
// each with the number of chapters that user has finished.
func (s *Store) ListLibrary(userID int64) ([]*models.LibraryEntry, error) {
	rows, err := s.db.Query(manhwaSelect+`
		JOIN library l ON l.manhwa_id = m.id
		WHERE l.user_id = ?
		ORDER BY l.added_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.LibraryEntry
	for rows.Next() {
		m, err := s.scanManhwa(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &models.LibraryEntry{Manhwa: m})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, e := range entries {
		if err := s.loadGenres(e.Manhwa); err != nil {
			return nil, err
		}
		err := s.db.QueryRow(`
			SELECT l.added_at,
			       (SELECT COUNT(*) FROM user_chapter_progress ucp
			        JOIN chapters c ON c.id = ucp.chapter_id
			        WHERE ucp.user_id = ? AND ucp.read = 1 AND c.manhwa_id = ?)
			FROM library l WHERE l.user_id = ? AND l.manhwa_id = ?`,
			userID, e.Manhwa.RowID, userID, e.Manhwa.RowID).
			Scan(&e.AddedAt, &e.ChaptersRead)
		if err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// InLibrary reports whether a user has saved the given manhwa.
func (s *Store) InLibrary(userID int64, manhwaPublicID string) (bool, error) {
	rowID, err := s.manhwaRowID(manhwaPublicID)
	if err != nil {
		return false, err
	}
	var count int
	err = s.db.QueryRow("SELECT COUNT(*) FROM library WHERE user_id = ? AND manhwa_id = ?", userID, rowID).Scan(&count)
	return count > 0, err
}

// GetProfileStats aggregates a user's reading statistics.
func (s *Store) GetProfileStats(userID int64) (*models.ProfileStats, error) {
	var stats models.ProfileStats

	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM user_chapter_progress WHERE user_id = ? AND read = 1", userID).
		Scan(&stats.ChaptersRead)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRow("SELECT COUNT(*) FROM library WHERE user_id = ?", userID).Scan(&stats.InLibrary)
	if err != nil {
		return nil, err
	}

	// A manhwa counts as completed when every one of its chapters is read.
	err = s.db.QueryRow(`
		SELECT COUNT(*) FROM manhwas m
		WHERE (SELECT COUNT(*) FROM chapters c WHERE c.manhwa_id = m.id) > 0
		  AND (SELECT COUNT(*) FROM chapters c WHERE c.manhwa_id = m.id) =
		      (SELECT COUNT(*) FROM user_chapter_progress ucp
		       JOIN chapters c ON c.id = ucp.chapter_id
		       WHERE c.manhwa_id = m.id AND ucp.user_id = ? AND ucp.read = 1)`, userID).
		Scan(&stats.CompletedManhwas)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRow("SELECT COUNT(*) FROM view_log WHERE user_id = ?", userID).Scan(&stats.ViewsContributed)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (s *Store) manhwaRowID(publicID string) (int64, error) {
	var rowID int64
	err := s.db.QueryRow("SELECT id FROM manhwas WHERE public_id = ?", publicID).Scan(&rowID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrManhwaNotFound
		}
		return 0, fmt.Errorf("failed to resolve manhwa id: %w", err)
	}
	return rowID, nil
}
