package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/01moynul/stitchshop/internal/database"
	"github.com/01moynul/stitchshop/internal/models"
)

const variantColumns = `id, product_id, COALESCE(sku, ''), stock, COALESCE(attributes_json, '')`

func scanVariant(row interface{ Scan(...any) error }) (models.Variant, error) {
	var v models.Variant
	err := row.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Stock, &v.AttributesJSON)
	return v, err
}

// ListVariants returns the variants of one product, newest first.
func ListVariants(ctx context.Context, q database.Querier, productID int64) ([]models.Variant, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+variantColumns+" FROM variants WHERE product_id = ? ORDER BY id DESC", productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	variants := []models.Variant{}
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

func GetVariant(ctx context.Context, q database.Querier, id int64) (*models.Variant, error) {
	v, err := scanVariant(q.QueryRowContext(ctx, "SELECT "+variantColumns+" FROM variants WHERE id = ?", id))
	if err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

// normalizeAttributes trims the document and rejects anything that is not
// JSON. Blank input is stored as "{}".
func normalizeAttributes(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "{}", nil
	}
	if !json.Valid([]byte(raw)) {
		return "", ErrInvalidAttributes
	}
	return raw, nil
}

// CreateVariant inserts v for v.ProductID. Invalid attribute JSON is rejected
// before anything is written.
func CreateVariant(ctx context.Context, q database.Querier, v *models.Variant) (int64, error) {
	attrs, err := normalizeAttributes(v.AttributesJSON)
	if err != nil {
		return 0, err
	}
	v.AttributesJSON = attrs

	id, err := database.InsertID(ctx, q,
		"INSERT INTO variants (product_id, sku, stock, attributes_json) VALUES (?, ?, ?, ?)",
		v.ProductID, strings.TrimSpace(v.SKU), v.Stock, v.AttributesJSON)
	if err != nil {
		return 0, fmt.Errorf("insert variant: %w", err)
	}
	v.ID = id
	return id, nil
}

// UpdateVariant rewrites sku, stock and attributes. On ErrInvalidAttributes
// the stored row is left untouched.
func UpdateVariant(ctx context.Context, q database.Querier, v *models.Variant) error {
	attrs, err := normalizeAttributes(v.AttributesJSON)
	if err != nil {
		return err
	}
	v.AttributesJSON = attrs

	_, err = q.ExecContext(ctx,
		"UPDATE variants SET sku = ?, stock = ?, attributes_json = ? WHERE id = ?",
		strings.TrimSpace(v.SKU), v.Stock, v.AttributesJSON, v.ID)
	if err != nil {
		return fmt.Errorf("update variant: %w", err)
	}
	return nil
}

// DeleteVariant returns the owning product id for redirects.
func DeleteVariant(ctx context.Context, q database.Querier, id int64) (int64, error) {
	v, err := GetVariant(ctx, q, id)
	if err != nil {
		return 0, err
	}
	if _, err := q.ExecContext(ctx, "DELETE FROM variants WHERE id = ?", id); err != nil {
		return 0, fmt.Errorf("delete variant: %w", err)
	}
	return v.ProductID, nil
}

func CountVariants(ctx context.Context, q database.Querier) (int, error) {
	return count(ctx, q, "SELECT COUNT(*) FROM variants")
}
