// Package config loads runtime settings from the environment, with an
// optional .env file.
package config

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/01moynul/stitchshop/internal/logger"
)

type Config struct {
	AdminPassword string
	SessionSecret string
	DatabaseURL   string
	UploadDir     string
	Port          string
	Env           string
	Log           logger.Config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("admin_password", "admin123")
	v.SetDefault("secret_key", "dev-secret-change-me")
	v.SetDefault("database_url", "sqlite:///shop.db")
	v.SetDefault("upload_folder", "static/uploads")
	v.SetDefault("port", "5000")
	v.SetDefault("app_env", "development")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_output", "stdout")
	v.SetDefault("log_file", "logs/shop.log")
	v.SetDefault("log_max_size", 100)
	v.SetDefault("log_max_backups", 10)
	v.SetDefault("log_max_age", 30)
	v.SetDefault("log_compress", true)
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	// .env is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		AdminPassword: v.GetString("admin_password"),
		SessionSecret: v.GetString("secret_key"),
		DatabaseURL:   v.GetString("database_url"),
		UploadDir:     v.GetString("upload_folder"),
		Port:          v.GetString("port"),
		Env:           v.GetString("app_env"),
		Log: logger.Config{
			Level:      v.GetString("log_level"),
			Format:     v.GetString("log_format"),
			Output:     v.GetString("log_output"),
			FilePath:   v.GetString("log_file"),
			MaxSize:    v.GetInt("log_max_size"),
			MaxBackups: v.GetInt("log_max_backups"),
			MaxAge:     v.GetInt("log_max_age"),
			Compress:   v.GetBool("log_compress"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch {
	case c.AdminPassword == "":
		return errors.New("ADMIN_PASSWORD must not be empty")
	case c.SessionSecret == "":
		return errors.New("SECRET_KEY must not be empty")
	case c.DatabaseURL == "":
		return errors.New("DATABASE_URL must not be empty")
	case c.UploadDir == "":
		return errors.New("UPLOAD_FOLDER must not be empty")
	}
	return nil
}

// IsProduction is true when APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
