package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/manna-app/manna-go/internal/models"
)

// CreateChapter inserts a chapter with its ordered page list in a single
// transaction and bumps the parent's updated_at so new chapters float the
// manhwa to the top of recency sorts.
func (s *Store) CreateChapter(manhwaPublicID string, chapter *models.Chapter, pages []*models.Page) (*models.Chapter, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var manhwaRowID int64
	err = tx.QueryRow("SELECT id FROM manhwas WHERE public_id = ?", manhwaPublicID).Scan(&manhwaRowID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrManhwaNotFound
		}
		return nil, err
	}

	if chapter.ID == "" {
		chapter.ID = uuid.NewString()
	}
	if chapter.Number == 0 {
		// Append after the current highest chapter number.
		var maxNumber sql.NullFloat64
		if err := tx.QueryRow("SELECT MAX(number) FROM chapters WHERE manhwa_id = ?", manhwaRowID).Scan(&maxNumber); err != nil {
			return nil, err
		}
		chapter.Number = maxNumber.Float64 + 1
	}

	now := time.Now()
	res, err := tx.Exec(`
		INSERT INTO chapters (public_id, manhwa_id, number, title, page_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		chapter.ID, manhwaRowID, chapter.Number, chapter.Title, len(pages), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert chapter: %w", err)
	}
	chapter.RowID, _ = res.LastInsertId()
	chapter.ManhwaID = manhwaPublicID
	chapter.PageCount = len(pages)
	chapter.CreatedAt = now

	stmt, err := tx.Prepare("INSERT INTO pages (chapter_id, idx, file_name) VALUES (?, ?, ?)")
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	for i, p := range pages {
		if _, err := stmt.Exec(chapter.RowID, i, p.FileName); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec("UPDATE manhwas SET updated_at = ? WHERE id = ?", now, manhwaRowID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return chapter, nil
}

// GetChapter retrieves a chapter with its pages and, when userID is
// non-zero, that user's reading progress.
func (s *Store) GetChapter(publicID string, userID int64) (*models.Chapter, error) {
	var c models.Chapter
	err := s.db.QueryRow(`
		SELECT c.id, c.public_id, m.public_id, c.number, c.title, c.page_count, c.created_at, c.updated_at
		FROM chapters c JOIN manhwas m ON m.id = c.manhwa_id
		WHERE c.public_id = ?`, publicID).
		Scan(&c.RowID, &c.ID, &c.ManhwaID, &c.Number, &c.Title, &c.PageCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}

	rows, err := s.db.Query("SELECT idx, file_name FROM pages WHERE chapter_id = ? ORDER BY idx ASC", c.RowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p models.Page
		if err := rows.Scan(&p.Index, &p.FileName); err != nil {
			return nil, err
		}
		p.ImageURL = "/uploads/pages/" + c.ID + "/" + p.FileName
		c.Pages = append(c.Pages, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if userID != 0 {
		var progress sql.NullInt64
		var read sql.NullBool
		err := s.db.QueryRow(
			"SELECT progress_percent, read FROM user_chapter_progress WHERE user_id = ? AND chapter_id = ?",
			userID, c.RowID).Scan(&progress, &read)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		c.ProgressPercent = int(progress.Int64)
		c.Read = read.Bool
	}

	return &c, nil
}

// ListChapters returns a manhwa's chapters in reading order, with the
// user's progress when userID is non-zero. Pages are not loaded.
func (s *Store) ListChapters(manhwaPublicID string, userID int64) ([]*models.Chapter, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.public_id, m.public_id, c.number, c.title, c.page_count, c.created_at, c.updated_at,
		       COALESCE(ucp.read, 0), COALESCE(ucp.progress_percent, 0)
		FROM chapters c
		JOIN manhwas m ON m.id = c.manhwa_id
		LEFT JOIN user_chapter_progress ucp ON ucp.chapter_id = c.id AND ucp.user_id = ?
		WHERE m.public_id = ?
		ORDER BY c.number ASC`, userID, manhwaPublicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []*models.Chapter
	for rows.Next() {
		var c models.Chapter
		if err := rows.Scan(&c.RowID, &c.ID, &c.ManhwaID, &c.Number, &c.Title, &c.PageCount,
			&c.CreatedAt, &c.UpdatedAt, &c.Read, &c.ProgressPercent); err != nil {
			return nil, err
		}
		chapters = append(chapters, &c)
	}
	return chapters, rows.Err()
}

// DeleteChapter removes a chapter; its pages cascade.
func (s *Store) DeleteChapter(publicID string) error {
	res, err := s.db.Exec("DELETE FROM chapters WHERE public_id = ?", publicID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrChapterNotFound
	}
	return nil
}

// UpdateChapterProgress updates the reading progress for a given chapter.
func (s *Store) UpdateChapterProgress(chapterPublicID string, userID int64, progressPercent int, read bool) error {
	var chapterRowID int64
	err := s.db.QueryRow("SELECT id FROM chapters WHERE public_id = ?", chapterPublicID).Scan(&chapterRowID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrChapterNotFound
		}
		return err
	}

	query := `
		INSERT INTO user_chapter_progress (user_id, chapter_id, progress_percent, read, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, chapter_id) DO UPDATE SET
			progress_percent = excluded.progress_percent,
			read = excluded.read,
			updated_at = CURRENT_TIMESTAMP;
	`
	_, err = s.db.Exec(query, userID, chapterRowID, progressPercent, read)
	return err
}
