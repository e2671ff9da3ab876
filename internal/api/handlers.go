package api

import (
	"database/sql"

	"github.com/vytor/kukudrill/internal/services"
)

// Server exposes the drill over JSON. DB is only used by the readiness probe
// and may be nil.
type Server struct {
	DB              *sql.DB
	UserService     services.UserService
	DrillService    services.DrillService
	ProgressService services.ProgressService
	StatsService    services.StatsService
}
