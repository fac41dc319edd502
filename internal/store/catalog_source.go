// The store-backed query source: filters and ordering are pushed down to
// SQLite instead of being applied in process. It implements search.Source,
// so the engine can swap it for the in-memory seed source without either
// side knowing.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/manna-app/manna-go/internal/models"
	"github.com/manna-app/manna-go/internal/search"
)

// Search executes a catalog query against the database. Text search is a
// case-insensitive substring match over title, author, description, and
// genre tags; the genre filter is case-insensitive exact tag intersection,
// the same policy the fallback source applies.
func (s *Store) Search(ctx context.Context, q search.Query) ([]*models.Manhwa, error) {
	var conditions []string
	var args []interface{}

	if q.SearchTerm != "" {
		pattern := "%" + strings.ToLower(q.SearchTerm) + "%"
		conditions = append(conditions, `(
			LOWER(m.title) LIKE ? OR LOWER(m.author) LIKE ? OR LOWER(m.description) LIKE ?
			OR EXISTS (
				SELECT 1 FROM manhwa_genres mg JOIN genres g ON g.id = mg.genre_id
				WHERE mg.manhwa_id = m.id AND LOWER(g.name) LIKE ?
			))`)
		args = append(args, pattern, pattern, pattern, pattern)
	}

	if len(q.Genres) > 0 {
		placeholders := make([]string, len(q.Genres))
		for i, g := range q.Genres {
			placeholders[i] = "?"
			args = append(args, strings.ToLower(g))
		}
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM manhwa_genres mg JOIN genres g ON g.id = mg.genre_id
			WHERE mg.manhwa_id = m.id AND LOWER(g.name) IN (%s)
		)`, strings.Join(placeholders, ",")))
	}

	if q.Status != "" {
		conditions = append(conditions, "m.status = ?")
		args = append(args, q.Status)
	}

	conditions = append(conditions, "m.rating BETWEEN ? AND ?")
	args = append(args, q.MinRating, q.MaxRating)

	query := manhwaSelect + " WHERE " + strings.Join(conditions, " AND ") + " " + orderClause(q.SortBy, q.SortOrder)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog query failed: %w", err)
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

// Genres returns every distinct genre tag in the catalog; the engine sorts
// the union.
func (s *Store) Genres(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT g.name FROM genres g
		JOIN manhwa_genres mg ON g.id = mg.genre_id
		ORDER BY g.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("genre query failed: %w", err)
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		genres = append(genres, name)
	}
	return genres, rows.Err()
}

// orderClause maps a sort key to its ORDER BY. Only keys ParseQuery
// recognizes reach this point; the row id is a tiebreaker so ordering is
// deterministic.
func orderClause(key search.SortKey, order string) string {
	direction := "DESC"
	if order == search.OrderAsc {
		direction = "ASC"
	}

	column := "m.views"
	switch key {
	case search.SortRating:
		column = "m.rating"
	case search.SortTitle:
		column = "m.title COLLATE NOCASE"
	case search.SortAuthor:
		column = "m.author COLLATE NOCASE"
	case search.SortCreatedAt:
		column = "m.created_at"
	}

	return fmt.Sprintf("ORDER BY %s %s, m.id ASC", column, direction)
}
