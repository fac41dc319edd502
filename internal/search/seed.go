// The bundled demo catalog. It doubles as the fallback dataset when the
// store is unreachable and as first-run content for a fresh install.

package search

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/manna-app/manna-go/internal/models"
)

func seedTime(value string) time.Time {
	t, _ := time.Parse("2006-01-02", value)
	return t
}

// Seed returns the fixed sample catalog. IDs are stable so bookmarks and
// tests can rely on them.
func Seed() []*models.Manhwa {
	return []*models.Manhwa{
		{
			ID:           "f3b2a1c0-9e8d-4f7a-b6c5-d4e3f2a1b0c9",
			Title:        "A Espada do Amanhecer",
			Author:       "Han Se-jin",
			Description:  "Um cavaleiro exilado desperta uma espada ancestral e parte para reconquistar o reino perdido.",
			Genres:       []string{"Fantasia", "Aventura"},
			Status:       models.StatusOngoing,
			Rating:       4.7,
			Views:        152304,
			ChapterCount: 87,
			CreatedAt:    seedTime("2021-03-14"),
			UpdatedAt:    seedTime("2024-11-02"),
		},
		{
			ID:           "8c1d0e9f-2a3b-4c5d-8e7f-6a5b4c3d2e1f",
			Title:        "Digital Dreams",
			Author:       "Mira Velasco",
			Description:  "Uma programadora descobre que seus sonhos são executados em um servidor que alguém está tentando desligar.",
			Genres:       []string{"Ficção Científica", "Drama"},
			Status:       models.StatusCompleted,
			Rating:       4.2,
			Views:        98210,
			ChapterCount: 52,
			CreatedAt:    seedTime("2020-07-22"),
			UpdatedAt:    seedTime("2023-01-15"),
		},
		{
			ID:           "5e4d3c2b-1a0f-4e9d-8c7b-6a5f4e3d2c1b",
			Title:        "Coração de Tinta",
			Author:       "Park Ji-woo",
			Description:  "Uma aspirante a autora de webtoons se apaixona pelo editor que rejeitou seu primeiro manuscrito.",
			Genres:       []string{"Romance", "Drama"},
			Status:       models.StatusOngoing,
			Rating:       4.5,
			Views:        120877,
			ChapterCount: 64,
			CreatedAt:    seedTime("2022-01-05"),
			UpdatedAt:    seedTime("2024-10-21"),
		},
		{
			ID:           "a9b8c7d6-e5f4-4a3b-9c2d-1e0f9a8b7c6d",
			Title:        "O Portão Carmesim",
			Author:       "Lee Dae-ho",
			Description:  "Caçadores atravessam portais para masmorras que surgem pelas cidades; o último portão aberto mudou as regras.",
			Genres:       []string{"Fantasia", "Drama"},
			Status:       models.StatusHiatus,
			Rating:       3.9,
			Views:        45120,
			ChapterCount: 31,
			CreatedAt:    seedTime("2021-09-30"),
			UpdatedAt:    seedTime("2023-06-11"),
		},
		{
			ID:           "0f1e2d3c-4b5a-4968-8776-655443322110",
			Title:        "Noites de Neon",
			Author:       "Mira Velasco",
			Description:  "Nas ruas encharcadas de neon de Nova Seul, uma detetive androide investiga crimes que a polícia prefere ignorar.",
			Genres:       []string{"Ação", "Ficção Científica"},
			Status:       models.StatusOngoing,
			Rating:       4.0,
			Views:        76409,
			ChapterCount: 40,
			CreatedAt:    seedTime("2022-05-18"),
			UpdatedAt:    seedTime("2024-08-30"),
		},
		{
			ID:           "b1c2d3e4-f5a6-4b7c-8d9e-0f1a2b3c4d5e",
			Title:        "Torre do Vento",
			Author:       "Choi Min-seo",
			Description:  "Cem andares, cem provações. Quem alcança o topo da torre pode pedir um único desejo ao vento.",
			Genres:       []string{"Fantasia", "Aventura", "Ação"},
			Status:       models.StatusCompleted,
			Rating:       4.9,
			Views:        203554,
			ChapterCount: 100,
			CreatedAt:    seedTime("2019-11-01"),
			UpdatedAt:    seedTime("2022-12-24"),
		},
	}
}

// LoadSeedFile reads a JSON array of catalog entries from disk, for
// installs that want to override the bundled demo catalog. The file is
// re-read by the seed watcher whenever it changes.
func LoadSeedFile(path string) ([]*models.Manhwa, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var entries []*models.Manhwa
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return entries, nil
}
