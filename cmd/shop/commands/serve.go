package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/01moynul/stitchshop/internal/auth"
	"github.com/01moynul/stitchshop/internal/handlers"
	"github.com/01moynul/stitchshop/internal/logger"
	"github.com/01moynul/stitchshop/internal/metrics"
	"github.com/01moynul/stitchshop/internal/routes"
	"github.com/01moynul/stitchshop/internal/store"
	"github.com/01moynul/stitchshop/internal/uploads"
)

var seedOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront and admin web server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&seedOnStart, "seed", false, "Turn every site toggle on and load demo data into an empty catalog before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logger.Get()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. --- Database ---
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := prepareSchema(ctx, db); err != nil {
		return err
	}
	if seedOnStart {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	// 2. --- Uploads, sessions, metrics ---
	up, err := uploads.NewStore(cfg.UploadDir)
	if err != nil {
		return err
	}
	sessions, err := auth.NewSessions(cfg.SessionSecret, cfg.AdminPassword)
	if err != nil {
		return err
	}
	if cfg.IsProduction() && cfg.SessionSecret == "dev-secret-change-me" {
		log.Warn("SECRET_KEY is the development default; set a real secret in production")
	}

	app := &handlers.Handlers{
		DB:       db,
		Uploads:  up,
		Sessions: sessions,
		Metrics:  metrics.New("shop"),
		Log:      log,
	}

	// 3. --- Router & server ---
	router, err := routes.SetupRouter(app)
	if err != nil {
		return fmt.Errorf("setup router: %w", err)
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting web server", "addr", srv.Addr, "env", cfg.Env, "upload_dir", cfg.UploadDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
