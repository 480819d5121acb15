package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/01moynul/stitchshop/internal/config"
	"github.com/01moynul/stitchshop/internal/database"
	"github.com/01moynul/stitchshop/internal/logger"
)

var (
	// Global flags
	dbURL string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "shop",
	Short: "Handmade goods catalog: storefront and admin backend",
	Long: `shop serves a small handmade-goods catalog: a public storefront of
categories, styles, products and fabrics, plus a password-protected admin
backend for managing them.

Settings come from the environment (or a .env file): ADMIN_PASSWORD,
SECRET_KEY, DATABASE_URL, UPLOAD_FOLDER, PORT, APP_ENV and LOG_*.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if dbURL != "" {
			cfg.DatabaseURL = dbURL
		}
		return logger.Init(cfg.Log)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database URL (overrides DATABASE_URL)")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func openDB(ctx context.Context) (*database.DB, error) {
	db, err := database.OpenDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// prepareSchema creates missing tables. An older products table without the
// parent columns makes this fail; `shop migrate` fixes that.
func prepareSchema(ctx context.Context, db *database.DB) error {
	if err := database.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("%w (if this database predates categories and styles, run `shop migrate` first)", err)
	}
	return nil
}
