// Package upload normalizes user submitted artwork. Covers and chapter
// pages are decoded, resized to the reader's display width, and stored
// as JPEG files under the uploads directory.
package upload

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/nfnt/resize"
)

// maxPageWidth is the widest a stored page ever needs to be. Webtoons
// are read in a single vertical strip, so width is the only dimension
// that matters.
const maxPageWidth uint = 900

const jpegQuality = 85

// Processor writes normalized image files below a root directory and
// returns URL paths for them.
type Processor struct {
	root string
}

func NewProcessor(root string) *Processor {
	return &Processor{root: root}
}

// SaveCover stores a cover image for a series and renders its
// thumbnail. It returns the cover URL path and the thumbnail data URI.
func (p *Processor) SaveCover(manhwaID string, data []byte) (string, string, error) {
	normalized, err := normalize(data)
	if err != nil {
		return "", "", err
	}
	relPath := filepath.Join("covers", manhwaID+".jpg")
	if err := p.write(relPath, normalized); err != nil {
		return "", "", err
	}

	thumb, err := GenerateThumbnail(normalized)
	if err != nil {
		return "", "", err
	}
	return "/uploads/" + filepath.ToSlash(relPath), thumb, nil
}

// SavePage stores a single chapter page. Pages are numbered from zero
// in reading order.
func (p *Processor) SavePage(chapterID string, index int, data []byte) (string, error) {
	normalized, err := normalize(data)
	if err != nil {
		return "", err
	}
	relPath := filepath.Join("pages", chapterID, fmt.Sprintf("%04d.jpg", index))
	if err := p.write(relPath, normalized); err != nil {
		return "", err
	}
	return "/uploads/" + filepath.ToSlash(relPath), nil
}

// RemoveChapterPages deletes the stored page files for a chapter.
func (p *Processor) RemoveChapterPages(chapterID string) error {
	return os.RemoveAll(filepath.Join(p.root, "pages", chapterID))
}

// RemoveCover deletes the stored cover file for a series.
func (p *Processor) RemoveCover(manhwaID string) error {
	err := os.Remove(filepath.Join(p.root, "covers", manhwaID+".jpg"))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Root returns the directory files are written below.
func (p *Processor) Root() string {
	return p.root
}

func (p *Processor) write(relPath string, data []byte) error {
	fullPath := filepath.Join(p.root, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write upload file: %w", err)
	}
	return nil
}

// normalize decodes an uploaded image (JPEG, PNG, GIF, or WebP),
// shrinks it to the maximum page width if needed, and re-encodes it
// as JPEG.
func normalize(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if uint(img.Bounds().Dx()) > maxPageWidth {
		img = resize.Resize(maxPageWidth, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
