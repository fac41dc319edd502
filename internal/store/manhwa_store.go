package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/manna-app/manna-go/internal/models"
)

// CreateManhwa inserts a new catalog entry with its genre tags and returns
// the stored model. Rating and views start at zero.
func (s *Store) CreateManhwa(m *models.Manhwa) (*models.Manhwa, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Status == "" {
		m.Status = models.StatusOngoing
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.Exec(`
		INSERT INTO manhwas (public_id, title, author, description, status, rating, views, cover_url, thumbnail, uploader_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Title, m.Author, m.Description, m.Status, m.Rating, m.Views, m.CoverURL, m.Thumbnail, nullableID(m.UploaderID), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert manhwa: %w", err)
	}
	m.RowID, _ = res.LastInsertId()
	m.CreatedAt = now
	m.UpdatedAt = now

	if err := setGenres(tx, m.RowID, m.Genres); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateManhwa replaces the mutable metadata of an entry, including its
// genre set.
func (s *Store) UpdateManhwa(m *models.Manhwa) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE manhwas SET title = ?, author = ?, description = ?, status = ?, rating = ?, cover_url = ?, thumbnail = ?, updated_at = ?
		WHERE public_id = ?`,
		m.Title, m.Author, m.Description, m.Status, m.Rating, m.CoverURL, m.Thumbnail, time.Now(), m.ID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrManhwaNotFound
	}

	var rowID int64
	if err := tx.QueryRow("SELECT id FROM manhwas WHERE public_id = ?", m.ID).Scan(&rowID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM manhwa_genres WHERE manhwa_id = ?", rowID); err != nil {
		return err
	}
	if err := setGenres(tx, rowID, m.Genres); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteManhwa removes an entry; chapters, pages, and genre links cascade.
func (s *Store) DeleteManhwa(publicID string) error {
	res, err := s.db.Exec("DELETE FROM manhwas WHERE public_id = ?", publicID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrManhwaNotFound
	}
	return nil
}

// UpdateManhwaThumbnail stores a freshly rendered thumbnail data URI.
func (s *Store) UpdateManhwaThumbnail(publicID, thumbnail string) error {
	res, err := s.db.Exec("UPDATE manhwas SET thumbnail = ? WHERE public_id = ?", thumbnail, publicID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrManhwaNotFound
	}
	return nil
}

// GetManhwa retrieves a single entry by its public ID, with genres loaded.
func (s *Store) GetManhwa(publicID string) (*models.Manhwa, error) {
	m, err := s.scanManhwa(s.db.QueryRow(manhwaSelect+" WHERE m.public_id = ?", publicID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrManhwaNotFound
		}
		return nil, err
	}
	if err := s.loadGenres(m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListManhwas returns the full catalog ordered by views, genres loaded.
func (s *Store) ListManhwas() ([]*models.Manhwa, error) {
	return s.queryManhwas(manhwaSelect+" ORDER BY m.views DESC, m.id ASC", nil)
}

const manhwaSelect = `
	SELECT m.id, m.public_id, m.title, m.author, m.description, m.status, m.rating, m.views,
	       m.cover_url, m.thumbnail, m.uploader_id, m.created_at, m.updated_at,
	       (SELECT COUNT(*) FROM chapters c WHERE c.manhwa_id = m.id) AS chapter_count
	FROM manhwas m`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *Store) scanManhwa(row rowScanner) (*models.Manhwa, error) {
	var m models.Manhwa
	var coverURL, thumbnail sql.NullString
	var uploaderID sql.NullInt64
	err := row.Scan(&m.RowID, &m.ID, &m.Title, &m.Author, &m.Description, &m.Status, &m.Rating, &m.Views,
		&coverURL, &thumbnail, &uploaderID, &m.CreatedAt, &m.UpdatedAt, &m.ChapterCount)
	if err != nil {
		return nil, err
	}
	m.CoverURL = coverURL.String
	m.Thumbnail = thumbnail.String
	m.UploaderID = uploaderID.Int64
	return &m, nil
}

func (s *Store) queryManhwas(query string, args []interface{}) ([]*models.Manhwa, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var manhwas []*models.Manhwa
	for rows.Next() {
		m, err := s.scanManhwa(rows)
		if err != nil {
			return nil, err
		}
		manhwas = append(manhwas, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, m := range manhwas {
		if err := s.loadGenres(m); err != nil {
			return nil, err
		}
	}
	return manhwas, nil
}

func (s *Store) loadGenres(m *models.Manhwa) error {
	rows, err := s.db.Query(`
		SELECT g.name FROM genres g
		JOIN manhwa_genres mg ON g.id = mg.genre_id
		WHERE mg.manhwa_id = ?
		ORDER BY g.name ASC`, m.RowID)
	if err != nil {
		return err
	}
	defer rows.Close()

	m.Genres = []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		m.Genres = append(m.Genres, name)
	}
	return rows.Err()
}

// setGenres links an entry to its genre tags, creating tags as needed.
// Tags are stored with their original casing; matching is done
// case-insensitively at query time.
func setGenres(tx *sql.Tx, manhwaRowID int64, genres []string) error {
	for _, name := range genres {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		var genreID int64
		err := tx.QueryRow("SELECT id FROM genres WHERE name = ? COLLATE NOCASE", name).Scan(&genreID)
		if err == sql.ErrNoRows {
			res, err := tx.Exec("INSERT INTO genres (name) VALUES (?)", name)
			if err != nil {
				return fmt.Errorf("failed to create genre %q: %w", name, err)
			}
			genreID, _ = res.LastInsertId()
		} else if err != nil {
			return err
		}

		if _, err := tx.Exec("INSERT OR IGNORE INTO manhwa_genres (manhwa_id, genre_id) VALUES (?, ?)", manhwaRowID, genreID); err != nil {
			return err
		}
	}
	return nil
}

func nullableID(id int64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}
