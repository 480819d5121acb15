package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/01moynul/stitchshop/internal/database"
	"github.com/01moynul/stitchshop/internal/models"
)

// getSetting reads one site_settings row; sql.ErrNoRows when absent.
func getSetting(ctx context.Context, q database.Querier, key string) (models.SiteSetting, error) {
	st := models.SiteSetting{Key: key}
	err := q.QueryRowContext(ctx,
		"SELECT COALESCE(setting_value, '') FROM site_settings WHERE setting_key = ?", key).Scan(&st.Value)
	return st, err
}

func putSetting(ctx context.Context, q database.Querier, st models.SiteSetting) error {
	query := `INSERT INTO site_settings (setting_key, setting_value) VALUES (?, ?)
		ON CONFLICT (setting_key) DO UPDATE SET setting_value = excluded.setting_value`
	if q.Dialect() == database.MySQL {
		query = `INSERT INTO site_settings (setting_key, setting_value) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE setting_value = VALUES(setting_value)`
	}
	_, err := q.ExecContext(ctx, query, st.Key, st.Value)
	return err
}

// GetFlag reads one toggle. Only a missing row yields def; any other read
// error is returned with false so callers fail closed.
func GetFlag(ctx context.Context, q database.Querier, key string, def bool) (bool, error) {
	st, err := getSetting(ctx, q, key)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return def, nil
	case err != nil:
		return false, fmt.Errorf("get flag %s: %w", key, err)
	}
	return st.Enabled(), nil
}

// SetFlag upserts one toggle.
func SetFlag(ctx context.Context, q database.Querier, key string, value bool) error {
	if err := putSetting(ctx, q, models.FlagSetting(key, value)); err != nil {
		return fmt.Errorf("set flag %s: %w", key, err)
	}
	return nil
}

// LoadFlags reads all toggles, falling back to the default for each missing
// key. On error every flag is off.
func LoadFlags(ctx context.Context, q database.Querier) (models.Flags, error) {
	flags := models.DefaultFlags()
	for _, key := range models.FlagKeys {
		v, err := GetFlag(ctx, q, key, models.FlagDefault)
		if err != nil {
			return models.Flags{}, err
		}
		flags.Set(key, v)
	}
	return flags, nil
}

// SaveFlags writes every toggle.
func SaveFlags(ctx context.Context, q database.Querier, flags models.Flags) error {
	for _, key := range models.FlagKeys {
		if err := SetFlag(ctx, q, key, flags.Get(key)); err != nil {
			return err
		}
	}
	return nil
}
