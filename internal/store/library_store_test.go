package store_test

import (
	"errors"
	"testing"

	"github.com/manna-app/manna-go/internal/auth"
	"github.com/manna-app/manna-go/internal/models"
	"github.com/manna-app/manna-go/internal/store"
	"github.com/manna-app/manna-go/internal/testutil"
)

func TestLibraryStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)

	passwordHash, _ := auth.HashPassword("password")
	user, _ := s.CreateUser("collector", "", passwordHash, models.RoleReader)

	m, _ := s.CreateManhwa(&models.Manhwa{Title: "Collected Series", Status: models.StatusCompleted})
	c, err := s.CreateChapter(m.ID, &models.Chapter{Number: 1}, []*models.Page{{FileName: "0000.jpg"}})
	if err != nil {
		t.Fatalf("CreateChapter failed: %v", err)
	}

	t.Run("Add and membership", func(t *testing.T) {
		if err := s.AddToLibrary(user.ID, m.ID); err != nil {
			t.Fatalf("AddToLibrary failed: %v", err)
		}
		in, err := s.InLibrary(user.ID, m.ID)
		if err != nil {
			t.Fatalf("InLibrary failed: %v", err)
		}
		if !in {
			t.Error("Expected manhwa to be in the library")
		}

		// Adding again must not fail or duplicate.
		if err := s.AddToLibrary(user.ID, m.ID); err != nil {
			t.Fatalf("Repeated AddToLibrary failed: %v", err)
		}
	})

	t.Run("Add unknown manhwa", func(t *testing.T) {
		err := s.AddToLibrary(user.ID, "no-such-id")
		if !errors.Is(err, store.ErrManhwaNotFound) {
			t.Errorf("Expected ErrManhwaNotFound, got %v", err)
		}
	})

	t.Run("List includes reading progress", func(t *testing.T) {
		if err := s.UpdateChapterProgress(c.ID, user.ID, 100, true); err != nil {
			t.Fatalf("UpdateChapterProgress failed: %v", err)
		}

		entries, err := s.ListLibrary(user.ID)
		if err != nil {
			t.Fatalf("ListLibrary failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("Expected 1 entry, got %d", len(entries))
		}
		if entries[0].Manhwa.ID != m.ID {
			t.Errorf("Wrong manhwa in library: %+v", entries[0].Manhwa)
		}
		if entries[0].ChaptersRead != 1 {
			t.Errorf("Expected 1 chapter read, got %d", entries[0].ChaptersRead)
		}
		if entries[0].AddedAt.IsZero() {
			t.Error("AddedAt not populated")
		}
	})

	t.Run("Profile stats", func(t *testing.T) {
		if err := s.LogView(m.ID, user.ID); err != nil {
			t.Fatalf("LogView failed: %v", err)
		}

		stats, err := s.GetProfileStats(user.ID)
		if err != nil {
			t.Fatalf("GetProfileStats failed: %v", err)
		}
		if stats.ChaptersRead != 1 {
			t.Errorf("ChaptersRead = %d, want 1", stats.ChaptersRead)
		}
		if stats.InLibrary != 1 {
			t.Errorf("InLibrary = %d, want 1", stats.InLibrary)
		}
		if stats.CompletedManhwas != 1 {
			t.Errorf("CompletedManhwas = %d, want 1", stats.CompletedManhwas)
		}
		if stats.ViewsContributed != 1 {
			t.Errorf("ViewsContributed = %d, want 1", stats.ViewsContributed)
		}
	})

	t.Run("Stats survive view rollup", func(t *testing.T) {
		if _, err := s.RollupViews(); err != nil {
			t.Fatalf("RollupViews failed: %v", err)
		}
		stats, err := s.GetProfileStats(user.ID)
		if err != nil {
			t.Fatalf("GetProfileStats failed: %v", err)
		}
		if stats.ViewsContributed != 1 {
			t.Errorf("ViewsContributed lost after rollup: %d", stats.ViewsContributed)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		if err := s.RemoveFromLibrary(user.ID, m.ID); err != nil {
			t.Fatalf("RemoveFromLibrary failed: %v", err)
		}
		in, _ := s.InLibrary(user.ID, m.ID)
		if in {
			t.Error("Manhwa still in library after removal")
		}
	})
}

func TestViewStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)

	m, _ := s.CreateManhwa(&models.Manhwa{Title: "Viewed Series"})

	t.Run("Anonymous views are logged", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			if err := s.LogView(m.ID, 0); err != nil {
				t.Fatalf("LogView failed: %v", err)
			}
		}
		pending, err := s.PendingViewCount()
		if err != nil {
			t.Fatalf("PendingViewCount failed: %v", err)
		}
		if pending != 5 {
			t.Errorf("Expected 5 pending views, got %d", pending)
		}
	})

	t.Run("Rollup folds into the counter once", func(t *testing.T) {
		folded, err := s.RollupViews()
		if err != nil {
			t.Fatalf("RollupViews failed: %v", err)
		}
		if folded != 5 {
			t.Errorf("Expected 5 folded events, got %d", folded)
		}

		got, _ := s.GetManhwa(m.ID)
		if got.Views != 5 {
			t.Errorf("Expected views counter 5, got %d", got.Views)
		}

		// A second rollup with nothing pending changes nothing.
		folded, err = s.RollupViews()
		if err != nil {
			t.Fatalf("Second RollupViews failed: %v", err)
		}
		if folded != 0 {
			t.Errorf("Expected 0 folded events, got %d", folded)
		}
		got, _ = s.GetManhwa(m.ID)
		if got.Views != 5 {
			t.Errorf("Views counter drifted to %d", got.Views)
		}
	})

	t.Run("Log view for unknown manhwa", func(t *testing.T) {
		err := s.LogView("no-such-id", 0)
		if !errors.Is(err, store.ErrManhwaNotFound) {
			t.Errorf("Expected ErrManhwaNotFound, got %v", err)
		}
	})
}
