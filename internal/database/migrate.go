package database

import (
	"context"
	"fmt"
)

// MigrationReport describes what MigrateProductParents did.
type MigrationReport struct {
	TableMissing bool
	Added        []string
}

// productParentColumns are the nullable columns that older databases lack.
var productParentColumns = []string{"category_id", "style_id"}

// MigrateProductParents adds products.category_id and products.style_id when
// they are absent. It is safe to run more than once. When the products table
// does not exist yet nothing is changed and TableMissing is set.
func MigrateProductParents(ctx context.Context, db *DB) (*MigrationReport, error) {
	report := &MigrationReport{}

	exists, err := tableExists(ctx, db, "products")
	if err != nil {
		return nil, fmt.Errorf("check products table: %w", err)
	}
	if !exists {
		report.TableMissing = true
		return report, nil
	}

	cols, err := tableColumns(ctx, db, "products")
	if err != nil {
		return nil, fmt.Errorf("read products columns: %w", err)
	}

	colType := "INTEGER"
	if db.Dialect() != SQLite {
		colType = "BIGINT"
	}

	for _, col := range productParentColumns {
		if cols[col] {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE products ADD COLUMN %s %s NULL", col, colType)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return report, fmt.Errorf("add products.%s: %w", col, err)
		}
		report.Added = append(report.Added, col)
	}
	return report, nil
}

func tableExists(ctx context.Context, db *DB, name string) (bool, error) {
	var query string
	switch db.Dialect() {
	case SQLite:
		query = "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?"
	case Postgres:
		query = "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = ?"
	default:
		query = "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?"
	}

	var n int
	if err := db.QueryRowContext(ctx, query, name).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func tableColumns(ctx context.Context, db *DB, name string) (map[string]bool, error) {
	cols := make(map[string]bool)

	if db.Dialect() == SQLite {
		// PRAGMA does not take bind parameters; name is a package constant.
		rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", name))
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				cid       int
				colName   string
				colType   string
				notNull   int
				dfltValue any
				pk        int
			)
			if err := rows.Scan(&cid, &colName, &colType, &notNull, &dfltValue, &pk); err != nil {
				return nil, err
			}
			cols[colName] = true
		}
		return cols, rows.Err()
	}

	query := "SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = ?"
	if db.Dialect() == MySQL {
		query = "SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ?"
	}
	rows, err := db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var colName string
		if err := rows.Scan(&colName); err != nil {
			return nil, err
		}
		cols[colName] = true
	}
	return cols, rows.Err()
}
