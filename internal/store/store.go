// Package store holds the SQL access functions for the catalog. Every
// function takes a database.Querier so handlers can run several of them in
// one transaction.
package store

import (
	"database/sql"
	"errors"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateName     = errors.New("name already exists")
	ErrNameRequired      = errors.New("name is required")
	ErrInvalidAttributes = errors.New("attributes must be valid JSON")
)

// nullID converts an optional id to a driver value.
func nullID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func idPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// notFound maps sql.ErrNoRows to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
