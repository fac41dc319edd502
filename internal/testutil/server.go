// A shared test server setup utility, which simplifies all API tests.

package testutil

import (
	"database/sql"
	"testing"

	"github.com/manna-app/manna-go/internal/api"
	"github.com/manna-app/manna-go/internal/config"
	"github.com/manna-app/manna-go/internal/core"
	"github.com/manna-app/manna-go/internal/websocket"
)

// SetupTestApp initializes a core.App backed by an in-memory database.
func SetupTestApp(t *testing.T) *core.App {
	t.Helper()
	database := SetupTestDB(t)

	cfg := &config.Config{}
	cfg.Uploads.Path = t.TempDir()
	cfg.Auth.JWTSecret = "test-secret"

	hub := websocket.NewHub()
	go hub.Run()

	return core.NewWith(cfg, database, hub, "test")
}

// SetupTestServer initializes a full core.App and api.Server for integration testing.
func SetupTestServer(t *testing.T) (*api.Server, *sql.DB) {
	t.Helper()
	app := SetupTestApp(t)
	server := api.NewServer(app)
	return server, app.DB()
}
