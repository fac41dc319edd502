package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/manna-app/manna-go/internal/models"
	"github.com/manna-app/manna-go/internal/store"
	"github.com/manna-app/manna-go/internal/testutil"
)

func TestManhwaHandlers(t *testing.T) {
	server, db := testutil.SetupTestServer(t)
	router := server.Router()

	creatorCookie := testutil.GetAuthCookie(t, server, "creator1", "password", "creator")
	otherCreatorCookie := testutil.GetAuthCookie(t, server, "creator2", "password", "creator")
	readerCookie := testutil.GetAuthCookie(t, server, "reader1", "password", "reader")
	adminCookie := testutil.GetAuthCookie(t, server, "admin1", "password", "admin")

	var created models.Manhwa

	t.Run("Creator can create a manhwa", func(t *testing.T) {
		payload := `{"title":"Torre Nova","author":"Sul Ki","description":"A tower appears.","genres":["Fantasia","Ação"],"status":"Ongoing","rating":4.5}`
		req, _ := http.NewRequest("POST", "/api/manhwas", bytes.NewBufferString(payload))
		req.AddCookie(creatorCookie)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", status, rr.Body.String())
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
			t.Fatalf("Could not unmarshal created manhwa: %v", err)
		}
		if created.ID == "" {
			t.Error("Created manhwa has no public ID")
		}
		if len(created.Genres) != 2 {
			t.Errorf("Expected 2 genres, got %v", created.Genres)
		}
	})

	t.Run("Reader cannot create a manhwa", func(t *testing.T) {
		payload := `{"title":"Nope"}`
		req, _ := http.NewRequest("POST", "/api/manhwas", bytes.NewBufferString(payload))
		req.AddCookie(readerCookie)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusForbidden {
			t.Errorf("Expected status 403, got %d", status)
		}
	})

	t.Run("Create requires a title", func(t *testing.T) {
		payload := `{"author":"Anon"}`
		req, _ := http.NewRequest("POST", "/api/manhwas", bytes.NewBufferString(payload))
		req.AddCookie(creatorCookie)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", status)
		}
	})

	t.Run("Anonymous read", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/manhwas/"+created.ID, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", status)
		}
		var got models.Manhwa
		json.Unmarshal(rr.Body.Bytes(), &got)
		if got.Title != "Torre Nova" {
			t.Errorf("Expected Torre Nova, got %q", got.Title)
		}
	})

	t.Run("Get unknown manhwa", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/manhwas/no-such-id", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", status)
		}
	})

	t.Run("Other creator cannot update it", func(t *testing.T) {
		payload := `{"title":"Hijacked"}`
		req, _ := http.NewRequest("PUT", "/api/manhwas/"+created.ID, bytes.NewBufferString(payload))
		req.AddCookie(otherCreatorCookie)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusForbidden {
			t.Errorf("Expected status 403, got %d", status)
		}
	})

	t.Run("Owner can update it", func(t *testing.T) {
		payload := `{"title":"Torre Nova","author":"Sul Ki","description":"Updated.","genres":["Fantasia"],"status":"Completed","rating":4.8}`
		req, _ := http.NewRequest("PUT", "/api/manhwas/"+created.ID, bytes.NewBufferString(payload))
		req.AddCookie(creatorCookie)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", status, rr.Body.String())
		}
		var got models.Manhwa
		json.Unmarshal(rr.Body.Bytes(), &got)
		if got.Status != models.StatusCompleted || len(got.Genres) != 1 {
			t.Errorf("Update was not applied: %+v", got)
		}
	})

	t.Run("View logging is anonymous friendly", func(t *testing.T) {
		req, _ := http.NewRequest("POST", "/api/manhwas/"+created.ID+"/view", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusAccepted {
			t.Fatalf("Expected status 202, got %d", status)
		}

		pending, err := store.New(db).PendingViewCount()
		if err != nil {
			t.Fatalf("Failed to count pending views: %v", err)
		}
		if pending != 1 {
			t.Errorf("Expected 1 pending view, got %d", pending)
		}
	})

	t.Run("Admin can delete any manhwa", func(t *testing.T) {
		req, _ := http.NewRequest("DELETE", "/api/manhwas/"+created.ID, nil)
		req.AddCookie(adminCookie)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusNoContent {
			t.Fatalf("Expected status 204, got %d: %s", status, rr.Body.String())
		}

		req, _ = http.NewRequest("GET", "/api/manhwas/"+created.ID, nil)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if status := rr.Code; status != http.StatusNotFound {
			t.Errorf("Deleted manhwa still readable: status %d", status)
		}
	})
}
