package jobs_test

import (
	"testing"
	"time"

	"github.com/manna-app/manna-go/internal/models"
	"github.com/manna-app/manna-go/internal/store"
	"github.com/manna-app/manna-go/internal/testutil"
)

func TestViewRollupJob(t *testing.T) {
	app := testutil.SetupTestApp(t)
	st := store.New(app.DB())

	m, err := st.CreateManhwa(&models.Manhwa{Title: "Rollup Target", Author: "A"})
	if err != nil {
		t.Fatalf("Failed to create manhwa: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := st.LogView(m.ID, 0); err != nil {
			t.Fatalf("Failed to log view: %v", err)
		}
	}

	if err := app.JobManager().RunJob("view-rollup", app); err != nil {
		t.Fatalf("Failed to start view rollup: %v", err)
	}

	// The job runs asynchronously; poll until it has finished.
	deadline := time.Now().Add(2 * time.Second)
	for {
		updated, err := st.GetManhwa(m.ID)
		if err != nil {
			t.Fatalf("Failed to reload manhwa: %v", err)
		}
		if updated.Views == 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Views were not rolled up in time, got %d", updated.Views)
		}
		time.Sleep(10 * time.Millisecond)
	}

	pending, err := st.PendingViewCount()
	if err != nil {
		t.Fatalf("Failed to count pending views: %v", err)
	}
	if pending != 0 {
		t.Errorf("Expected 0 pending views after rollup, got %d", pending)
	}
}

func TestViewRollupJobIsIdempotent(t *testing.T) {
	app := testutil.SetupTestApp(t)
	st := store.New(app.DB())

	m, err := st.CreateManhwa(&models.Manhwa{Title: "Rollup Twice", Author: "A"})
	if err != nil {
		t.Fatalf("Failed to create manhwa: %v", err)
	}
	if err := st.LogView(m.ID, 0); err != nil {
		t.Fatalf("Failed to log view: %v", err)
	}

	if _, err := st.RollupViews(); err != nil {
		t.Fatalf("First rollup failed: %v", err)
	}
	if _, err := st.RollupViews(); err != nil {
		t.Fatalf("Second rollup failed: %v", err)
	}

	updated, err := st.GetManhwa(m.ID)
	if err != nil {
		t.Fatalf("Failed to reload manhwa: %v", err)
	}
	if updated.Views != 1 {
		t.Errorf("Expected views to stay at 1 after repeated rollups, got %d", updated.Views)
	}
}
