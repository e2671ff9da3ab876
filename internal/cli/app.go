package cli

import (
	"database/sql"
	"fmt"

	"github.com/vytor/kukudrill/internal/clock"
	"github.com/vytor/kukudrill/internal/db"
	"github.com/vytor/kukudrill/internal/repository/sqlite"
	"github.com/vytor/kukudrill/internal/services"
)

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	closer   func() error
	Users    services.UserService
	Progress services.ProgressService
	Stats    services.StatsService
}

// NewAppContext opens the database at path and wires the services.
func NewAppContext(path string, leaderboardLimit int) (*AppContext, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	app := newAppContext(database.DB, leaderboardLimit)
	app.closer = database.Close
	return app, nil
}

func newAppContext(sqlDB *sql.DB, leaderboardLimit int) *AppContext {
	users := sqlite.NewUserDirectory(sqlDB)
	records := sqlite.NewRecordStore(sqlDB)
	progress := sqlite.NewProgressRepository(sqlDB)
	clk := clock.Real{}

	return &AppContext{
		Users:    services.NewUserService(users),
		Progress: services.NewProgressService(progress, clk, leaderboardLimit),
		Stats:    services.NewStatsService(records, users, progress, clk, nil),
	}
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close() error {
	if a.closer != nil {
		return a.closer()
	}
	return nil
}
