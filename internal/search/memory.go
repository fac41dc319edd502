// In-memory query source. It applies the same four filters the store
// pushes down to SQL, but over a slice of seed entries, and is the
// fallback when the store is unreachable or empty.

package search

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/manna-app/manna-go/internal/models"
)

// MemorySource holds a fixed catalog in memory. The entry slice is
// replaced wholesale on reload; readers take the lock only long enough to
// grab the current slice, which is treated as immutable afterwards.
type MemorySource struct {
	mu      sync.RWMutex
	entries []*models.Manhwa
}

func NewMemorySource(entries []*models.Manhwa) *MemorySource {
	return &MemorySource{entries: entries}
}

// Reload swaps the catalog for a new entry list. Used by the seed file
// watcher.
func (ms *MemorySource) Reload(entries []*models.Manhwa) {
	ms.mu.Lock()
	ms.entries = entries
	ms.mu.Unlock()
}

func (ms *MemorySource) snapshot() []*models.Manhwa {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.entries
}

func (ms *MemorySource) Search(_ context.Context, q Query) ([]*models.Manhwa, error) {
	var results []*models.Manhwa
	for _, m := range ms.snapshot() {
		if matches(m, q) {
			results = append(results, m)
		}
	}
	sortEntries(results, q.SortBy, q.SortOrder)
	return results, nil
}

// Genres returns the deduplicated union of genre tags across the catalog.
func (ms *MemorySource) Genres(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var genres []string
	for _, m := range ms.snapshot() {
		for _, g := range m.Genres {
			if !seen[g] {
				seen[g] = true
				genres = append(genres, g)
			}
		}
	}
	sort.Strings(genres)
	return genres, nil
}

// matches applies the filter conjunction: free-text term, genre set
// intersection, status equality, and inclusive rating range.
func matches(m *models.Manhwa, q Query) bool {
	if q.SearchTerm != "" && !matchesTerm(m, q.SearchTerm) {
		return false
	}
	if len(q.Genres) > 0 && !matchesGenres(m, q.Genres) {
		return false
	}
	if q.Status != "" && m.Status != q.Status {
		return false
	}
	if m.Rating < q.MinRating || m.Rating > q.MaxRating {
		return false
	}
	return true
}

// matchesTerm is a case-insensitive substring match over title, author,
// description, and the genre tags.
func matchesTerm(m *models.Manhwa, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(m.Title), term) ||
		strings.Contains(strings.ToLower(m.Author), term) ||
		strings.Contains(strings.ToLower(m.Description), term) {
		return true
	}
	for _, g := range m.Genres {
		if strings.Contains(strings.ToLower(g), term) {
			return true
		}
	}
	return false
}

// matchesGenres reports whether the entry's genre set intersects the
// requested set. Matching is case-insensitive exact tag equality, the same
// policy the store source applies.
func matchesGenres(m *models.Manhwa, requested []string) bool {
	for _, want := range requested {
		for _, have := range m.Genres {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

var collator = collate.New(language.Und, collate.IgnoreCase)

// sortEntries orders entries by the given key and direction. String keys
// use locale-aware collation; every other recognized key is numeric.
// Any new string-valued sort key must be added to the collated branch
// here, or it would be compared as a number and collapse to always-equal.
func sortEntries(entries []*models.Manhwa, key SortKey, order string) {
	less := func(a, b *models.Manhwa) bool {
		switch key {
		case SortTitle:
			return collator.CompareString(a.Title, b.Title) < 0
		case SortAuthor:
			return collator.CompareString(a.Author, b.Author) < 0
		case SortRating:
			return a.Rating < b.Rating
		case SortCreatedAt:
			return a.CreatedAt.Before(b.CreatedAt)
		default: // SortViews; ParseQuery never yields anything else
			return a.Views < b.Views
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if order == OrderAsc {
			return less(entries[i], entries[j])
		}
		return less(entries[j], entries[i])
	})
}
