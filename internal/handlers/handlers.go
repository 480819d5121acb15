package handlers

import (
	"log/slog"

	"github.com/01moynul/stitchshop/internal/auth"
	"github.com/01moynul/stitchshop/internal/database"
	"github.com/01moynul/stitchshop/internal/metrics"
	"github.com/01moynul/stitchshop/internal/uploads"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB       *database.DB
	Uploads  *uploads.Store
	Sessions *auth.Sessions
	Metrics  *metrics.Metrics
	Log      *slog.Logger
}
