package upload

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/manna-app/manna-go/internal/util"
)

// PageFile is one image extracted from a chapter archive.
type PageFile struct {
	Name string
	Data []byte
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ExtractPages reads a ZIP archive of chapter pages and returns the
// image entries in natural sort order. Non-image entries and macOS
// resource forks are skipped.
func ExtractPages(data []byte) ([]PageFile, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	var pages []PageFile
	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := f.Name
		if strings.HasPrefix(name, "__MACOSX/") || strings.HasPrefix(filepath.Base(name), ".") {
			continue
		}
		if !imageExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open archive entry %q: %w", name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read archive entry %q: %w", name, err)
		}
		pages = append(pages, PageFile{Name: name, Data: content})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("archive contains no image files")
	}

	sort.Slice(pages, func(i, j int) bool {
		return util.NaturalSortLess(pages[i].Name, pages[j].Name)
	})
	return pages, nil
}
