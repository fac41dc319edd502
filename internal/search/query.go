// Query parsing and normalization for the catalog search endpoint.
// Parsing is deliberately permissive: a public search box should never
// reject a request over a malformed number or an unknown sort key.

package search

import (
	"net/url"
	"strconv"
	"strings"
)

// SortKey identifies the field a result set is ordered by.
type SortKey string

const (
	SortViews     SortKey = "views"
	SortRating    SortKey = "rating"
	SortTitle     SortKey = "title"
	SortAuthor    SortKey = "author"
	SortCreatedAt SortKey = "createdAt"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Default rating bounds. The rating scale is 0.0-5.0 inclusive.
const (
	MinRatingDefault = 0.0
	MaxRatingDefault = 5.0
)

// Query is the normalized, immutable parameter set of one search request.
// It is echoed back to the caller inside the result.
type Query struct {
	SearchTerm string   `json:"searchTerm"`
	Genres     []string `json:"genres"`
	Status     string   `json:"status"`
	MinRating  float64  `json:"minRating"`
	MaxRating  float64  `json:"maxRating"`
	SortBy     SortKey  `json:"sortBy"`
	SortOrder  string   `json:"sortOrder"`
}

// ParseQuery builds a normalized Query from raw URL parameters.
// Unparsable rating bounds fall back to the defaults rather than failing
// the request, and an unrecognized sort key degrades to views so the
// comparator never sees an undefined field.
func ParseQuery(values url.Values) Query {
	term := values.Get("searchTerm")
	if term == "" {
		term = values.Get("q")
	}
	q := Query{
		SearchTerm: strings.TrimSpace(term),
		Genres:     splitGenres(values.Get("genres")),
		Status:     strings.TrimSpace(values.Get("status")),
		MinRating:  parseRating(values.Get("minRating"), MinRatingDefault),
		MaxRating:  parseRating(values.Get("maxRating"), MaxRatingDefault),
		SortBy:     parseSortKey(values.Get("sortBy")),
		SortOrder:  OrderDesc,
	}
	if values.Get("sortOrder") == OrderAsc {
		q.SortOrder = OrderAsc
	}
	return q
}

// splitGenres splits a comma-separated genre list, trimming each entry.
// The result is never nil so the echo serializes as [] instead of null.
func splitGenres(raw string) []string {
	genres := []string{}
	for _, g := range strings.Split(raw, ",") {
		g = strings.TrimSpace(g)
		if g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

func parseRating(raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortViews, SortRating, SortTitle, SortAuthor, SortCreatedAt:
		return SortKey(raw)
	default:
		return SortViews
	}
}
