package store_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/manna-app/manna-go/internal/models"
	"github.com/manna-app/manna-go/internal/search"
	"github.com/manna-app/manna-go/internal/store"
	"github.com/manna-app/manna-go/internal/testutil"
)

func seedCatalog(t *testing.T, s *store.Store) {
	t.Helper()
	entries := []*models.Manhwa{
		{Title: "Blade of Dawn", Author: "Han Yu", Genres: []string{"Fantasia", "Aventura"}, Status: models.StatusOngoing, Rating: 4.7},
		{Title: "Neon Nights", Author: "Mira Velasco", Genres: []string{"Ação", "Ficção Científica"}, Status: models.StatusOngoing, Rating: 4.0},
		{Title: "Ink Heart", Author: "Dana Cho", Genres: []string{"Romance", "Drama"}, Status: models.StatusCompleted, Rating: 4.5},
		{Title: "Crimson Gate", Author: "Han Yu", Genres: []string{"Fantasia", "Drama"}, Status: models.StatusHiatus, Rating: 3.9},
	}
	for _, e := range entries {
		if _, err := s.CreateManhwa(e); err != nil {
			t.Fatalf("Failed to seed catalog: %v", err)
		}
	}
}

func query(raw string) search.Query {
	values, _ := url.ParseQuery(raw)
	return search.ParseQuery(values)
}

func TestCatalogSource_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)
	seedCatalog(t, s)
	ctx := context.Background()

	t.Run("Unfiltered returns everything", func(t *testing.T) {
		results, err := s.Search(ctx, query(""))
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) != 4 {
			t.Errorf("Expected 4 results, got %d", len(results))
		}
	})

	t.Run("Term matches author case-insensitively", func(t *testing.T) {
		results, err := s.Search(ctx, query("searchTerm=velasco"))
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) != 1 || results[0].Title != "Neon Nights" {
			t.Errorf("Expected Neon Nights, got %+v", results)
		}
	})

	t.Run("Term matches genre tags", func(t *testing.T) {
		results, err := s.Search(ctx, query("searchTerm=romance"))
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) != 1 || results[0].Title != "Ink Heart" {
			t.Errorf("Expected Ink Heart via genre term, got %+v", results)
		}
	})

	t.Run("Genre filter is exact", func(t *testing.T) {
		results, err := s.Search(ctx, query("genres=Drama"))
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) != 2 {
			t.Errorf("Expected 2 Drama entries, got %d", len(results))
		}

		results, err = s.Search(ctx, query("genres=Dram"))
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("Genre prefix must not match, got %d results", len(results))
		}
	})

	t.Run("Multiple genres match any", func(t *testing.T) {
		results, err := s.Search(ctx, query("genres=Fantasia,Drama"))
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) != 3 {
			t.Fatalf("Expected 3 entries tagged Fantasia or Drama, got %d", len(results))
		}
		titles := map[string]bool{}
		for _, m := range results {
			titles[m.Title] = true
		}
		for _, want := range []string{"Blade of Dawn", "Ink Heart", "Crimson Gate"} {
			if !titles[want] {
				t.Errorf("Expected %q in the result set, got %+v", want, results)
			}
		}
	})

	t.Run("Status and rating window", func(t *testing.T) {
		results, err := s.Search(ctx, query("status=Ongoing&minRating=4.5"))
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) != 1 || results[0].Title != "Blade of Dawn" {
			t.Errorf("Expected Blade of Dawn, got %+v", results)
		}
	})

	t.Run("Rating ascending order", func(t *testing.T) {
		results, err := s.Search(ctx, query("sortBy=rating&sortOrder=asc"))
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		for i := 1; i < len(results); i++ {
			if results[i-1].Rating > results[i].Rating {
				t.Fatalf("Results not in ascending rating order: %v then %v",
					results[i-1].Rating, results[i].Rating)
			}
		}
	})

	t.Run("Title ordering ignores case", func(t *testing.T) {
		results, err := s.Search(ctx, query("sortBy=title&sortOrder=asc"))
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if results[0].Title != "Blade of Dawn" {
			t.Errorf("Expected Blade of Dawn first, got %q", results[0].Title)
		}
	})
}

func TestCatalogSource_Genres(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)
	seedCatalog(t, s)

	genres, err := s.Genres(context.Background())
	if err != nil {
		t.Fatalf("Genres failed: %v", err)
	}
	if len(genres) != 6 {
		t.Errorf("Expected 6 distinct genres, got %d: %v", len(genres), genres)
	}
}
