// The search engine executes a catalog query against one of two sources:
// the backing store (filters and ordering pushed down to SQL) or the
// in-memory seed catalog. The fallback policy is fail-open: a store outage
// degrades to the seed data and is never surfaced to the caller of a
// read-only, idempotent query.

package search

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/manna-app/manna-go/internal/models"
)

// Source is one way of executing a catalog query. The store-backed source
// and the in-memory seed source both implement it, so the engine is a
// single decision point rather than two copies of the filter logic.
type Source interface {
	Search(ctx context.Context, q Query) ([]*models.Manhwa, error)
	Genres(ctx context.Context) ([]string, error)
}

// Result is the response envelope of one search invocation.
type Result struct {
	Results []*models.Manhwa `json:"results"`
	Total   int              `json:"total"`
	Query   Query            `json:"query"`
}

// GenreList is the response envelope of the genre union endpoint.
type GenreList struct {
	Genres []string `json:"genres"`
	Total  int      `json:"total"`
}

// Engine runs queries with a primary (store-backed) source and an
// in-memory fallback. primary may be nil when no store is configured.
type Engine struct {
	primary  Source
	fallback Source
}

func New(primary, fallback Source) *Engine {
	return &Engine{primary: primary, fallback: fallback}
}

// Search produces a filtered, sorted result set for q. The primary source
// is tried first; if it errors, is unconfigured, or returns zero rows, the
// fallback source answers instead. An error is returned only when the
// fallback itself fails.
func (e *Engine) Search(ctx context.Context, q Query) (*Result, error) {
	var entries []*models.Manhwa

	if e.primary != nil {
		found, err := e.primary.Search(ctx, q)
		if err != nil {
			log.Printf("search: catalog store unavailable, using fallback: %v", err)
		} else {
			entries = found
		}
	}

	if len(entries) == 0 {
		fallback, err := e.fallback.Search(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("search fallback failed: %w", err)
		}
		entries = fallback
	}

	return &Result{
		Results: sanitize(entries),
		Total:   len(entries),
		Query:   q,
	}, nil
}

// Genres returns the deduplicated, lexicographically sorted union of all
// genre tags in the active source, with the same fallback policy as Search.
func (e *Engine) Genres(ctx context.Context) (*GenreList, error) {
	var genres []string

	if e.primary != nil {
		found, err := e.primary.Genres(ctx)
		if err != nil {
			log.Printf("search: genre listing unavailable from store, using fallback: %v", err)
		} else {
			genres = found
		}
	}

	if len(genres) == 0 {
		fallback, err := e.fallback.Genres(ctx)
		if err != nil {
			return nil, fmt.Errorf("genre fallback failed: %w", err)
		}
		genres = fallback
	}

	sort.Strings(genres)
	return &GenreList{Genres: genres, Total: len(genres)}, nil
}

// sanitize copies each entry and clears storage-internal identifiers.
// The copy also guarantees the search path never mutates entries owned by
// a source.
func sanitize(entries []*models.Manhwa) []*models.Manhwa {
	out := make([]*models.Manhwa, len(entries))
	for i, m := range entries {
		clean := *m
		clean.RowID = 0
		clean.UploaderID = 0
		out[i] = &clean
	}
	return out
}
