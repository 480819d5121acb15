package database

import (
	"context"
	"fmt"
	"strings"
)

type table struct {
	name    string
	columns []string
	indexes []string // single-column secondary indexes
}

// Column types use {{id}}, {{ref}} and {{bin}} markers that are expanded per
// dialect. {{bin}} makes text comparison case-sensitive on MySQL, whose
// default collations are not; SQLite and Postgres already compare exactly.
var tables = []table{
	{
		name: "categories",
		columns: []string{
			"id {{id}}",
			"name VARCHAR(150){{bin}} NOT NULL UNIQUE",
			"description TEXT",
			"image_filename VARCHAR(255)",
		},
	},
	{
		name: "styles",
		columns: []string{
			"id {{id}}",
			"category_id {{ref}} NOT NULL",
			"name VARCHAR(150) NOT NULL",
			"description TEXT",
			"image_filename VARCHAR(255)",
		},
		indexes: []string{"category_id"},
	},
	{
		name: "products",
		columns: []string{
			"id {{id}}",
			"name VARCHAR(200) NOT NULL",
			"price_cents {{ref}} NOT NULL DEFAULT 0",
			"description TEXT",
			"image_filename VARCHAR(255)",
			"category_id {{ref}} NULL",
			"style_id {{ref}} NULL",
		},
		indexes: []string{"category_id", "style_id"},
	},
	{
		name: "variants",
		columns: []string{
			"id {{id}}",
			"product_id {{ref}} NOT NULL",
			"sku VARCHAR(120)",
			"stock INTEGER NOT NULL DEFAULT 0",
			"attributes_json TEXT",
		},
		indexes: []string{"product_id"},
	},
	{
		name: "fabrics",
		columns: []string{
			"id {{id}}",
			"name VARCHAR(200) NOT NULL",
			"origin VARCHAR(120)",
			"price_cents {{ref}} NOT NULL DEFAULT 0",
			"size VARCHAR(120)",
			"description TEXT",
			"image_filename VARCHAR(255)",
			"ref_image_filename VARCHAR(255)",
			"is_clearance BOOLEAN NOT NULL DEFAULT FALSE",
			"clearance_price_cents {{ref}} NULL",
		},
	},
	{
		name: "fabric_refs",
		columns: []string{
			"id {{id}}",
			"fabric_id {{ref}} NOT NULL",
			"filename VARCHAR(255) NOT NULL",
		},
		indexes: []string{"fabric_id"},
	},
	{
		name: "site_settings",
		columns: []string{
			"setting_key VARCHAR(50) NOT NULL PRIMARY KEY",
			"setting_value VARCHAR(200)",
		},
	},
}

func typeReplacer(d Dialect) *strings.Replacer {
	switch d {
	case Postgres:
		return strings.NewReplacer("{{id}}", "BIGSERIAL PRIMARY KEY", "{{ref}}", "BIGINT", "{{bin}}", "")
	case MySQL:
		return strings.NewReplacer("{{id}}", "BIGINT AUTO_INCREMENT PRIMARY KEY", "{{ref}}", "BIGINT",
			"{{bin}}", " CHARACTER SET utf8mb4 COLLATE utf8mb4_bin")
	default:
		return strings.NewReplacer("{{id}}", "INTEGER PRIMARY KEY AUTOINCREMENT", "{{ref}}", "INTEGER", "{{bin}}", "")
	}
}

// SchemaStatements returns the DDL that creates every table for a dialect.
// MySQL has no CREATE INDEX IF NOT EXISTS, so its indexes are declared inline.
func SchemaStatements(d Dialect) []string {
	r := typeReplacer(d)
	var stmts []string
	for _, t := range tables {
		cols := make([]string, 0, len(t.columns)+len(t.indexes))
		for _, c := range t.columns {
			cols = append(cols, r.Replace(c))
		}
		if d == MySQL {
			for _, col := range t.indexes {
				cols = append(cols, fmt.Sprintf("KEY idx_%s_%s (%s)", t.name, col, col))
			}
		}
		stmts = append(stmts, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.name, strings.Join(cols, ",\n\t")))

		if d != MySQL {
			for _, col := range t.indexes {
				stmts = append(stmts, fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s (%s)", t.name, col, t.name, col))
			}
		}
	}
	return stmts
}

// EnsureSchema creates any missing table. Existing tables are left as they
// are; older databases are upgraded with MigrateProductParents.
func EnsureSchema(ctx context.Context, db *DB) error {
	for _, stmt := range SchemaStatements(db.Dialect()) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
