package jobs

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/manna-app/manna-go/internal/models"
	"github.com/manna-app/manna-go/internal/store"
	"github.com/manna-app/manna-go/internal/upload"
)

// RegisterAll wires the background tasks into the manager.
func RegisterAll(jm *JobManager) {
	jm.Register("view-rollup", "Fold View Log", runViewRollup)
	jm.Register("thumbnail-regen", "Regenerate Thumbnails", runThumbnailRegen)
}

// runViewRollup folds unprocessed view log rows into the per-series
// view counters. The log rows are kept, flagged as rolled up, so that
// per-user contribution stats stay available.
func runViewRollup(ctx JobContext) {
	st := store.New(ctx.DB())
	folded, err := st.RollupViews()
	if err != nil {
		log.Printf("View rollup failed: %v", err)
		panic(err)
	}

	log.Printf("View rollup folded %d views.", folded)
	ctx.WsHub().BroadcastJSON(models.ProgressUpdate{
		JobID:    "view-rollup",
		Message:  "View rollup complete.",
		Progress: 100,
		Done:     true,
	})
}

// runThumbnailRegen rebuilds missing thumbnails from the stored cover
// files. Series without a readable cover are skipped.
func runThumbnailRegen(ctx JobContext) {
	st := store.New(ctx.DB())
	manhwas, err := st.ListManhwas()
	if err != nil {
		log.Printf("Thumbnail regen could not list series: %v", err)
		panic(err)
	}

	uploadsRoot := ctx.Config().Uploads.Path
	regenerated := 0
	for i, m := range manhwas {
		if m.Thumbnail != "" || m.CoverURL == "" {
			continue
		}

		coverPath := coverFilePath(uploadsRoot, m.CoverURL)
		if coverPath == "" {
			continue
		}
		data, err := os.ReadFile(coverPath)
		if err != nil {
			log.Printf("Thumbnail regen: cannot read cover for %q: %v", m.Title, err)
			continue
		}
		thumb, err := upload.GenerateThumbnail(data)
		if err != nil {
			log.Printf("Thumbnail regen: cannot render thumbnail for %q: %v", m.Title, err)
			continue
		}
		if err := st.UpdateManhwaThumbnail(m.ID, thumb); err != nil {
			log.Printf("Thumbnail regen: cannot store thumbnail for %q: %v", m.Title, err)
			continue
		}
		regenerated++

		ctx.WsHub().BroadcastJSON(models.ProgressUpdate{
			JobID:    "thumbnail-regen",
			Message:  "Regenerated thumbnail for " + m.Title,
			Progress: float64(i+1) / float64(len(manhwas)) * 100,
		})
	}

	log.Printf("Thumbnail regen rebuilt %d thumbnails.", regenerated)
	ctx.WsHub().BroadcastJSON(models.ProgressUpdate{
		JobID:    "thumbnail-regen",
		Message:  "Thumbnail regeneration complete.",
		Progress: 100,
		Done:     true,
	})
}

// coverFilePath maps a stored "/uploads/..." URL back to a file below
// the uploads directory. Anything else is not ours to read.
func coverFilePath(root, coverURL string) string {
	rel, ok := strings.CutPrefix(coverURL, "/uploads/")
	if !ok || strings.Contains(rel, "..") {
		return ""
	}
	return filepath.Join(root, filepath.FromSlash(rel))
}
