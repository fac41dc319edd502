// manna-cli imports a JSON seed catalog into the database. Useful for
// bootstrapping an instance with an initial set of series, or for
// promoting the in-memory fallback catalog to real rows.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/manna-app/manna-go/internal/assets"
	"github.com/manna-app/manna-go/internal/config"
	"github.com/manna-app/manna-go/internal/db"
	"github.com/manna-app/manna-go/internal/search"
	"github.com/manna-app/manna-go/internal/store"
)

func main() {
	seedPath := flag.String("seed", "", "path to a JSON seed catalog (defaults to the built-in seed)")
	flag.Parse()

	// Load configuration from config.yml
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the database connection
	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Run database migrations
	if err := db.RunMigrations(database, assets.MigrationsFS); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	entries := search.Seed()
	if *seedPath != "" {
		entries, err = search.LoadSeedFile(*seedPath)
		if err != nil {
			log.Fatalf("Failed to load seed catalog: %v", err)
		}
	}

	st := store.New(database)
	imported := 0
	for _, entry := range entries {
		// A fresh row gets its own public ID; the seed IDs belong to the
		// in-memory catalog.
		entry.ID = ""
		entry.RowID = 0
		if _, err := st.CreateManhwa(entry); err != nil {
			log.Printf("Skipping %q: %v", entry.Title, err)
			continue
		}
		imported++
	}

	fmt.Printf("Imported %d of %d catalog entries.\n", imported, len(entries))
}
