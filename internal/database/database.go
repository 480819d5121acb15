package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"
)

// Dialect identifies the SQL flavour behind a connection.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// Querier is implemented by both *DB and *Tx, so store functions can run
// inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Dialect() Dialect
}

// DB wraps the connection pool and rewrites '?' placeholders for Postgres.
type DB struct {
	*sql.DB
	dialect Dialect
}

// Tx is a request-scoped transaction handle.
type Tx struct {
	*sql.Tx
	dialect Dialect
}

// ParseURL maps a DATABASE_URL into a database/sql driver name and DSN.
//
//	sqlite:///shop.db          -> sqlite3, shop.db
//	sqlite:////var/data/shop.db -> sqlite3, /var/data/shop.db
//	postgres://u:p@host/db      -> pgx, unchanged
//	mysql://u:p@tcp(host)/db    -> mysql, u:p@tcp(host)/db
func ParseURL(url string) (Dialect, string, string, error) {
	switch {
	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(url, "sqlite://")
		path = strings.TrimPrefix(path, "/")
		if path == "" {
			path = ":memory:"
		}
		return SQLite, "sqlite3", path, nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return Postgres, "pgx", url, nil
	case strings.HasPrefix(url, "mysql://"):
		return MySQL, "mysql", strings.TrimPrefix(url, "mysql://"), nil
	default:
		return "", "", "", fmt.Errorf("unsupported database url %q", url)
	}
}

// OpenDB parses the url, opens the pool and pings it.
func OpenDB(ctx context.Context, url string) (*DB, error) {
	dialect, driver, dsn, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer; one connection also keeps ":memory:"
	// databases alive for the lifetime of the pool.
	if dialect == SQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", dialect, err)
	}

	slog.Info("database connection pool established", "dialect", dialect)
	return &DB{DB: db, dialect: dialect}, nil
}

func (db *DB) Dialect() Dialect { return db.dialect }

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.DB.ExecContext(ctx, Rebind(db.dialect, query), args...)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.DB.QueryContext(ctx, Rebind(db.dialect, query), args...)
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.DB.QueryRowContext(ctx, Rebind(db.dialect, query), args...)
}

// BeginTx starts a transaction at the engine's default isolation level.
func (db *DB) BeginTx(ctx context.Context) (*Tx, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{Tx: tx, dialect: db.dialect}, nil
}

func (tx *Tx) Dialect() Dialect { return tx.dialect }

func (tx *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return tx.Tx.ExecContext(ctx, Rebind(tx.dialect, query), args...)
}

func (tx *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return tx.Tx.QueryContext(ctx, Rebind(tx.dialect, query), args...)
}

func (tx *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return tx.Tx.QueryRowContext(ctx, Rebind(tx.dialect, query), args...)
}

// Rebind converts '?' placeholders to '$n' for Postgres. Queries in this
// repository never contain a literal '?'.
func Rebind(dialect Dialect, query string) string {
	if dialect != Postgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// InsertID runs an INSERT and returns the new row id. Postgres has no
// LastInsertId, so the id comes back through RETURNING instead.
func InsertID(ctx context.Context, q Querier, query string, args ...any) (int64, error) {
	if q.Dialect() == Postgres {
		var id int64
		if err := q.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// any of the supported drivers.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
