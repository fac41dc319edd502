package api_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/manna-app/manna-go/internal/models"
	"github.com/manna-app/manna-go/internal/store"
	"github.com/manna-app/manna-go/internal/testutil"
)

func multipartBody(t *testing.T, fieldName, fileName string, fileData []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(fieldName, fileName)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	part.Write(fileData)
	for k, v := range fields {
		w.WriteField(k, v)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestUploadHandlers(t *testing.T) {
	server, db := testutil.SetupTestServer(t)
	router := server.Router()

	creatorCookie := testutil.GetAuthCookie(t, server, "publisher", "password", "creator")

	m, err := store.New(db).CreateManhwa(&models.Manhwa{Title: "Upload Target"})
	if err != nil {
		t.Fatalf("Failed to create manhwa: %v", err)
	}
	// Make the creator the owner so the publishing routes accept them.
	owner, err := store.New(db).GetUserByUsername("publisher")
	if err != nil {
		t.Fatalf("Failed to load owner: %v", err)
	}
	if _, err := db.Exec("UPDATE manhwas SET uploader_id = ? WHERE public_id = ?", owner.ID, m.ID); err != nil {
		t.Fatalf("Failed to assign owner: %v", err)
	}

	t.Run("Upload Cover", func(t *testing.T) {
		body, contentType := multipartBody(t, "cover", "cover.png", testutil.PNGImage(t, 400, 600), nil)
		req, _ := http.NewRequest("POST", "/api/manhwas/"+m.ID+"/cover", body)
		req.AddCookie(creatorCookie)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var updated models.Manhwa
		json.Unmarshal(rr.Body.Bytes(), &updated)
		if updated.CoverURL == "" {
			t.Error("Cover URL was not set")
		}
		if !strings.HasPrefix(updated.Thumbnail, "data:image/jpeg;base64,") {
			t.Error("Thumbnail was not rendered")
		}
	})

	t.Run("Cover requires an image", func(t *testing.T) {
		body, contentType := multipartBody(t, "cover", "cover.png", []byte("not an image"), nil)
		req, _ := http.NewRequest("POST", "/api/manhwas/"+m.ID+"/cover", body)
		req.AddCookie(creatorCookie)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected status 422, got %d", rr.Code)
		}
	})

	var chapter models.Chapter

	t.Run("Upload Chapter Archive", func(t *testing.T) {
		archive := testutil.ZipArchive(t, map[string][]byte{
			"10.png": testutil.PNGImage(t, 200, 300),
			"2.png":  testutil.PNGImage(t, 200, 300),
			"1.png":  testutil.PNGImage(t, 200, 300),
		})
		body, contentType := multipartBody(t, "archive", "chapter.zip", archive, map[string]string{
			"title":  "The Gate Opens",
			"number": "1",
		})
		req, _ := http.NewRequest("POST", "/api/manhwas/"+m.ID+"/chapters", body)
		req.AddCookie(creatorCookie)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", rr.Code, rr.Body.String())
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &chapter); err != nil {
			t.Fatalf("Could not unmarshal chapter: %v", err)
		}
		if chapter.PageCount != 3 {
			t.Errorf("Expected 3 pages, got %d", chapter.PageCount)
		}
	})

	t.Run("Chapter pages are in natural order", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/chapters/"+chapter.ID, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rr.Code)
		}
		var got models.Chapter
		json.Unmarshal(rr.Body.Bytes(), &got)
		if len(got.Pages) != 3 {
			t.Fatalf("Expected 3 pages, got %d", len(got.Pages))
		}
		for i, p := range got.Pages {
			if p.Index != i {
				t.Errorf("Page %d has index %d", i, p.Index)
			}
			if p.ImageURL == "" {
				t.Errorf("Page %d has no image URL", i)
			}
		}
	})

	t.Run("Duplicate chapter number conflicts", func(t *testing.T) {
		archive := testutil.ZipArchive(t, map[string][]byte{
			"1.png": testutil.PNGImage(t, 200, 300),
		})
		body, contentType := multipartBody(t, "archive", "chapter.zip", archive, map[string]string{
			"number": "1",
		})
		req, _ := http.NewRequest("POST", "/api/manhwas/"+m.ID+"/chapters", body)
		req.AddCookie(creatorCookie)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusConflict {
			t.Errorf("Expected status 409, got %d", rr.Code)
		}
	})

	t.Run("Archive without images is rejected", func(t *testing.T) {
		archive := testutil.ZipArchive(t, map[string][]byte{
			"notes.txt": []byte("no pages"),
		})
		body, contentType := multipartBody(t, "archive", "chapter.zip", archive, nil)
		req, _ := http.NewRequest("POST", "/api/manhwas/"+m.ID+"/chapters", body)
		req.AddCookie(creatorCookie)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected status 422, got %d", rr.Code)
		}
	})

	t.Run("Owner can delete the chapter", func(t *testing.T) {
		req, _ := http.NewRequest("DELETE", "/api/chapters/"+chapter.ID, nil)
		req.AddCookie(creatorCookie)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusNoContent {
			t.Fatalf("Expected status 204, got %d: %s", rr.Code, rr.Body.String())
		}
	})
}
