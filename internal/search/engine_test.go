package search

import (
	"context"
	"errors"
	"net/url"
	"reflect"
	"testing"

	"github.com/manna-app/manna-go/internal/models"
)

// failingSource simulates a store outage.
type failingSource struct{}

func (failingSource) Search(context.Context, Query) ([]*models.Manhwa, error) {
	return nil, errors.New("connection refused")
}
func (failingSource) Genres(context.Context) ([]string, error) {
	return nil, errors.New("connection refused")
}

// emptySource simulates a reachable but empty store.
type emptySource struct{}

func (emptySource) Search(context.Context, Query) ([]*models.Manhwa, error) { return nil, nil }
func (emptySource) Genres(context.Context) ([]string, error)                { return nil, nil }

// fixedSource returns a canned entry list, marked with internal row ids
// the way the store source would.
type fixedSource struct{ entries []*models.Manhwa }

func (f fixedSource) Search(context.Context, Query) ([]*models.Manhwa, error) {
	return f.entries, nil
}
func (f fixedSource) Genres(context.Context) ([]string, error) {
	return []string{"Drama"}, nil
}

func TestEngineUsesPrimaryWhenAvailable(t *testing.T) {
	primary := fixedSource{entries: []*models.Manhwa{
		{RowID: 7, ID: "abc", Title: "From Store", UploaderID: 3},
	}}
	engine := New(primary, memorySourceWithSeed())

	res, err := engine.Search(context.Background(), ParseQuery(url.Values{}))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if res.Total != 1 || res.Results[0].Title != "From Store" {
		t.Fatalf("expected the store result, got %v", titles(res.Results))
	}
}

func TestEngineStripsInternalIdentifiers(t *testing.T) {
	entry := &models.Manhwa{RowID: 7, ID: "abc", Title: "From Store", UploaderID: 3}
	engine := New(fixedSource{entries: []*models.Manhwa{entry}}, memorySourceWithSeed())

	res, err := engine.Search(context.Background(), ParseQuery(url.Values{}))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if res.Results[0].RowID != 0 || res.Results[0].UploaderID != 0 {
		t.Error("storage-internal identifiers must be stripped from results")
	}
	// The source's own entry must not have been mutated.
	if entry.RowID != 7 || entry.UploaderID != 3 {
		t.Error("engine mutated an entry owned by the source")
	}
}

func TestEngineFallbackActivation(t *testing.T) {
	t.Run("on store failure", func(t *testing.T) {
		engine := New(failingSource{}, memorySourceWithSeed())
		res, err := engine.Search(context.Background(), ParseQuery(url.Values{}))
		if err != nil {
			t.Fatalf("a store outage must not surface as an error: %v", err)
		}
		if res.Total != len(Seed()) {
			t.Errorf("expected the full seed list (%d), got %d", len(Seed()), res.Total)
		}
	})

	t.Run("on zero rows from store", func(t *testing.T) {
		engine := New(emptySource{}, memorySourceWithSeed())
		res, err := engine.Search(context.Background(), ParseQuery(url.Values{}))
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if res.Total != len(Seed()) {
			t.Errorf("expected seed results for an empty store, got %d", res.Total)
		}
	})

	t.Run("with no store configured", func(t *testing.T) {
		engine := New(nil, memorySourceWithSeed())
		res, err := engine.Search(context.Background(), ParseQuery(url.Values{}))
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if res.Total != len(Seed()) {
			t.Errorf("expected seed results without a store, got %d", res.Total)
		}
	})
}

func TestEngineFallbackFailureSurfaces(t *testing.T) {
	engine := New(failingSource{}, failingSource{})
	if _, err := engine.Search(context.Background(), ParseQuery(url.Values{})); err == nil {
		t.Fatal("expected an error when both paths fail")
	}
}

func TestEngineIdempotence(t *testing.T) {
	engine := New(nil, memorySourceWithSeed())
	q := ParseQuery(url.Values{"genres": {"Fantasia"}, "sortBy": {"rating"}, "sortOrder": {"asc"}})

	first, err := engine.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("first search failed: %v", err)
	}
	second, err := engine.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("second search failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical queries over a fixed catalog must yield identical results")
	}
}

func TestEngineEchoesQuery(t *testing.T) {
	engine := New(nil, memorySourceWithSeed())
	values := url.Values{
		"q":         {"torre"},
		"genres":    {"Fantasia,Aventura"},
		"status":    {models.StatusCompleted},
		"minRating": {"4.0"},
		"sortBy":    {"bogus"},
	}
	q := ParseQuery(values)

	res, err := engine.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if res.Query.SearchTerm != "torre" || res.Query.Status != models.StatusCompleted {
		t.Errorf("query echo mismatch: %+v", res.Query)
	}
	if !reflect.DeepEqual(res.Query.Genres, []string{"Fantasia", "Aventura"}) {
		t.Errorf("genre echo mismatch: %v", res.Query.Genres)
	}
	if res.Query.SortBy != SortViews {
		t.Errorf("bogus sort key should echo as views, got %s", res.Query.SortBy)
	}
	if res.Total != len(res.Results) {
		t.Errorf("total %d != len(results) %d", res.Total, len(res.Results))
	}
}

func TestEngineGenres(t *testing.T) {
	t.Run("store path", func(t *testing.T) {
		engine := New(fixedSource{}, memorySourceWithSeed())
		list, err := engine.Genres(context.Background())
		if err != nil {
			t.Fatalf("Genres failed: %v", err)
		}
		if list.Total != 1 || list.Genres[0] != "Drama" {
			t.Errorf("expected store genres, got %v", list.Genres)
		}
	})

	t.Run("fallback on store failure", func(t *testing.T) {
		engine := New(failingSource{}, memorySourceWithSeed())
		list, err := engine.Genres(context.Background())
		if err != nil {
			t.Fatalf("Genres failed: %v", err)
		}
		if list.Total == 0 {
			t.Error("expected seed genres on store failure")
		}
		for i := 1; i < len(list.Genres); i++ {
			if list.Genres[i-1] >= list.Genres[i] {
				t.Fatalf("genres not sorted/deduplicated: %v", list.Genres)
			}
		}
	})
}
