package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/01moynul/stitchshop/internal/database"
	"github.com/01moynul/stitchshop/internal/models"
)

const categoryColumns = `id, name, COALESCE(description, ''), COALESCE(image_filename, '')`

func scanCategory(row interface{ Scan(...any) error }) (models.Category, error) {
	var cat models.Category
	err := row.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.ImageFilename)
	return cat, err
}

// ListCategories returns every category, newest first.
func ListCategories(ctx context.Context, q database.Querier) ([]models.Category, error) {
	return queryCategories(ctx, q, "SELECT "+categoryColumns+" FROM categories ORDER BY id DESC")
}

// ListCategoriesByName is the ordering used by admin dropdowns.
func ListCategoriesByName(ctx context.Context, q database.Querier) ([]models.Category, error) {
	return queryCategories(ctx, q, "SELECT "+categoryColumns+" FROM categories ORDER BY name ASC")
}

func queryCategories(ctx context.Context, q database.Querier, query string) ([]models.Category, error) {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	cats := []models.Category{}
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, cat)
	}
	return cats, rows.Err()
}

func GetCategory(ctx context.Context, q database.Querier, id int64) (*models.Category, error) {
	row := q.QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM categories WHERE id = ?", id)
	cat, err := scanCategory(row)
	if err != nil {
		return nil, notFound(err)
	}
	return &cat, nil
}

// categoryNameTaken reports whether another category (not excludeID) already
// uses name. Comparison is case-sensitive.
func categoryNameTaken(ctx context.Context, q database.Querier, name string, excludeID int64) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM categories WHERE name = ? AND id <> ?", name, excludeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check category name: %w", err)
	}
	return n > 0, nil
}

// CreateCategory inserts cat and returns its id.
func CreateCategory(ctx context.Context, q database.Querier, cat *models.Category) (int64, error) {
	cat.Name = strings.TrimSpace(cat.Name)
	if cat.Name == "" {
		return 0, ErrNameRequired
	}
	taken, err := categoryNameTaken(ctx, q, cat.Name, 0)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, ErrDuplicateName
	}

	id, err := database.InsertID(ctx, q,
		"INSERT INTO categories (name, description, image_filename) VALUES (?, ?, ?)",
		cat.Name, cat.Description, nullString(cat.ImageFilename))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, ErrDuplicateName
		}
		return 0, fmt.Errorf("insert category: %w", err)
	}
	cat.ID = id
	return id, nil
}

// UpdateCategory writes name, description and image of cat.ID.
func UpdateCategory(ctx context.Context, q database.Querier, cat *models.Category) error {
	cat.Name = strings.TrimSpace(cat.Name)
	if cat.Name == "" {
		return ErrNameRequired
	}
	taken, err := categoryNameTaken(ctx, q, cat.Name, cat.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateName
	}

	_, err = q.ExecContext(ctx,
		"UPDATE categories SET name = ?, description = ?, image_filename = ? WHERE id = ?",
		cat.Name, cat.Description, nullString(cat.ImageFilename), cat.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category and its styles. Products that pointed at
// either are kept with their references cleared.
func DeleteCategory(ctx context.Context, q database.Querier, id int64) error {
	if _, err := GetCategory(ctx, q, id); err != nil {
		return err
	}

	steps := []struct {
		what  string
		query string
	}{
		{"detach products from category", "UPDATE products SET category_id = NULL WHERE category_id = ?"},
		{"detach products from styles", "UPDATE products SET style_id = NULL WHERE style_id IN (SELECT id FROM styles WHERE category_id = ?)"},
		{"delete styles", "DELETE FROM styles WHERE category_id = ?"},
		{"delete category", "DELETE FROM categories WHERE id = ?"},
	}
	for _, s := range steps {
		if _, err := q.ExecContext(ctx, s.query, id); err != nil {
			return fmt.Errorf("%s: %w", s.what, err)
		}
	}
	return nil
}

func CountCategories(ctx context.Context, q database.Querier) (int, error) {
	return count(ctx, q, "SELECT COUNT(*) FROM categories")
}

func count(ctx context.Context, q database.Querier, query string, args ...any) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
