package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/01moynul/stitchshop/internal/database"
	"github.com/01moynul/stitchshop/internal/models"
)

const styleSelect = `SELECT s.id, s.category_id, s.name, COALESCE(s.description, ''),
	COALESCE(s.image_filename, ''), COALESCE(c.name, '')
	FROM styles s LEFT JOIN categories c ON c.id = s.category_id`

func scanStyle(row interface{ Scan(...any) error }) (models.Style, error) {
	var s models.Style
	err := row.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Description, &s.ImageFilename, &s.CategoryName)
	return s, err
}

func queryStyles(ctx context.Context, q database.Querier, query string, args ...any) ([]models.Style, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list styles: %w", err)
	}
	defer rows.Close()

	styles := []models.Style{}
	for rows.Next() {
		s, err := scanStyle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan style: %w", err)
		}
		styles = append(styles, s)
	}
	return styles, rows.Err()
}

// ListStylesByCategory returns the styles of one category, newest first.
func ListStylesByCategory(ctx context.Context, q database.Querier, categoryID int64) ([]models.Style, error) {
	return queryStyles(ctx, q, styleSelect+" WHERE s.category_id = ? ORDER BY s.id DESC", categoryID)
}

// ListStylesByName returns every style for admin dropdowns.
func ListStylesByName(ctx context.Context, q database.Querier) ([]models.Style, error) {
	return queryStyles(ctx, q, styleSelect+" ORDER BY s.name ASC, s.id ASC")
}

func GetStyle(ctx context.Context, q database.Querier, id int64) (*models.Style, error) {
	s, err := scanStyle(q.QueryRowContext(ctx, styleSelect+" WHERE s.id = ?", id))
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// CreateStyle inserts s under s.CategoryID, which must exist.
func CreateStyle(ctx context.Context, q database.Querier, s *models.Style) (int64, error) {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return 0, ErrNameRequired
	}
	if _, err := GetCategory(ctx, q, s.CategoryID); err != nil {
		return 0, err
	}

	id, err := database.InsertID(ctx, q,
		"INSERT INTO styles (category_id, name, description, image_filename) VALUES (?, ?, ?, ?)",
		s.CategoryID, s.Name, s.Description, nullString(s.ImageFilename))
	if err != nil {
		return 0, fmt.Errorf("insert style: %w", err)
	}
	s.ID = id
	return id, nil
}

func UpdateStyle(ctx context.Context, q database.Querier, s *models.Style) error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return ErrNameRequired
	}
	_, err := q.ExecContext(ctx,
		"UPDATE styles SET name = ?, description = ?, image_filename = ? WHERE id = ?",
		s.Name, s.Description, nullString(s.ImageFilename), s.ID)
	if err != nil {
		return fmt.Errorf("update style: %w", err)
	}
	return nil
}

// DeleteStyle detaches its products and removes the style. It returns the
// category id so callers can redirect back to the list.
func DeleteStyle(ctx context.Context, q database.Querier, id int64) (int64, error) {
	s, err := GetStyle(ctx, q, id)
	if err != nil {
		return 0, err
	}
	if _, err := q.ExecContext(ctx, "UPDATE products SET style_id = NULL WHERE style_id = ?", id); err != nil {
		return 0, fmt.Errorf("detach products from style: %w", err)
	}
	if _, err := q.ExecContext(ctx, "DELETE FROM styles WHERE id = ?", id); err != nil {
		return 0, fmt.Errorf("delete style: %w", err)
	}
	return s.CategoryID, nil
}

func CountStyles(ctx context.Context, q database.Querier) (int, error) {
	return count(ctx, q, "SELECT COUNT(*) FROM styles")
}
