package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/01moynul/stitchshop/internal/database"
	"github.com/01moynul/stitchshop/internal/models"
)

// ProductFilter narrows ListProducts. Nil fields match everything.
type ProductFilter struct {
	CategoryID *int64
	StyleID    *int64
}

const productSelect = `SELECT p.id, p.name, p.price_cents, COALESCE(p.description, ''),
	COALESCE(p.image_filename, ''), p.category_id, p.style_id,
	COALESCE(c.name, ''), COALESCE(s.name, '')
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN styles s ON s.id = p.style_id`

func scanProduct(row interface{ Scan(...any) error }) (models.Product, error) {
	var (
		p          models.Product
		catID, sID sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Description, &p.ImageFilename,
		&catID, &sID, &p.CategoryName, &p.StyleName)
	p.CategoryID = idPtr(catID)
	p.StyleID = idPtr(sID)
	return p, err
}

// ListProducts returns products newest first.
func ListProducts(ctx context.Context, q database.Querier, f ProductFilter) ([]models.Product, error) {
	var (
		where []string
		args  []any
	)
	if f.CategoryID != nil {
		where = append(where, "p.category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.StyleID != nil {
		where = append(where, "p.style_id = ?")
		args = append(args, *f.StyleID)
	}
	query := productSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.id DESC"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProduct loads a product together with its variants.
func GetProduct(ctx context.Context, q database.Querier, id int64) (*models.Product, error) {
	p, err := scanProduct(q.QueryRowContext(ctx, productSelect+" WHERE p.id = ?", id))
	if err != nil {
		return nil, notFound(err)
	}
	if p.Variants, err = ListVariants(ctx, q, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func CreateProduct(ctx context.Context, q database.Querier, p *models.Product) (int64, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return 0, ErrNameRequired
	}
	id, err := database.InsertID(ctx, q,
		`INSERT INTO products (name, price_cents, description, image_filename, category_id, style_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, p.PriceCents, p.Description, nullString(p.ImageFilename),
		nullID(p.CategoryID), nullID(p.StyleID))
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	p.ID = id
	return id, nil
}

func UpdateProduct(ctx context.Context, q database.Querier, p *models.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return ErrNameRequired
	}
	_, err := q.ExecContext(ctx,
		`UPDATE products SET name = ?, price_cents = ?, description = ?, image_filename = ?,
		category_id = ?, style_id = ? WHERE id = ?`,
		p.Name, p.PriceCents, p.Description, nullString(p.ImageFilename),
		nullID(p.CategoryID), nullID(p.StyleID), p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// DeleteProduct removes the product and its variants.
func DeleteProduct(ctx context.Context, q database.Querier, id int64) error {
	var exists int
	err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM products WHERE id = ?", id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("find product: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	if _, err := q.ExecContext(ctx, "DELETE FROM variants WHERE product_id = ?", id); err != nil {
		return fmt.Errorf("delete variants: %w", err)
	}
	if _, err := q.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func CountProducts(ctx context.Context, q database.Querier) (int, error) {
	return count(ctx, q, "SELECT COUNT(*) FROM products")
}
