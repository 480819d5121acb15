package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/01moynul/stitchshop/internal/database"
	"github.com/01moynul/stitchshop/internal/models"
)

const fabricColumns = `id, name, COALESCE(origin, ''), price_cents, COALESCE(size, ''),
	COALESCE(description, ''), COALESCE(image_filename, ''), COALESCE(ref_image_filename, ''),
	is_clearance, clearance_price_cents`

func scanFabric(row interface{ Scan(...any) error }) (models.Fabric, error) {
	var (
		f  models.Fabric
		cp sql.NullInt64
	)
	err := row.Scan(&f.ID, &f.Name, &f.Origin, &f.PriceCents, &f.Size, &f.Description,
		&f.ImageFilename, &f.RefImageFilename, &f.IsClearance, &cp)
	f.ClearancePriceCents = idPtr(cp)
	return f, err
}

// ListFabrics returns fabrics newest first with their reference images.
func ListFabrics(ctx context.Context, q database.Querier, clearanceOnly bool) ([]models.Fabric, error) {
	query := "SELECT " + fabricColumns + " FROM fabrics"
	var args []any
	if clearanceOnly {
		query += " WHERE is_clearance = ?"
		args = append(args, true)
	}
	query += " ORDER BY id DESC"

	fabrics, err := queryFabrics(ctx, q, query, args...)
	if err != nil {
		return nil, err
	}
	// Rows are closed by now; SQLite runs on a single connection.
	for i := range fabrics {
		if fabrics[i].RefImages, err = ListFabricRefs(ctx, q, fabrics[i].ID); err != nil {
			return nil, err
		}
	}
	return fabrics, nil
}

func queryFabrics(ctx context.Context, q database.Querier, query string, args ...any) ([]models.Fabric, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list fabrics: %w", err)
	}
	defer rows.Close()

	fabrics := []models.Fabric{}
	for rows.Next() {
		f, err := scanFabric(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fabric: %w", err)
		}
		fabrics = append(fabrics, f)
	}
	return fabrics, rows.Err()
}

func GetFabric(ctx context.Context, q database.Querier, id int64) (*models.Fabric, error) {
	f, err := scanFabric(q.QueryRowContext(ctx, "SELECT "+fabricColumns+" FROM fabrics WHERE id = ?", id))
	if err != nil {
		return nil, notFound(err)
	}
	if f.RefImages, err = ListFabricRefs(ctx, q, f.ID); err != nil {
		return nil, err
	}
	return &f, nil
}

func CreateFabric(ctx context.Context, q database.Querier, f *models.Fabric) (int64, error) {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return 0, ErrNameRequired
	}
	id, err := database.InsertID(ctx, q,
		`INSERT INTO fabrics (name, origin, price_cents, size, description, image_filename,
		ref_image_filename, is_clearance, clearance_price_cents)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Name, f.Origin, f.PriceCents, f.Size, f.Description, nullString(f.ImageFilename),
		nullString(f.RefImageFilename), f.IsClearance, nullID(f.ClearancePriceCents))
	if err != nil {
		return 0, fmt.Errorf("insert fabric: %w", err)
	}
	f.ID = id
	return id, nil
}

func UpdateFabric(ctx context.Context, q database.Querier, f *models.Fabric) error {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return ErrNameRequired
	}
	_, err := q.ExecContext(ctx,
		`UPDATE fabrics SET name = ?, origin = ?, price_cents = ?, size = ?, description = ?,
		image_filename = ?, ref_image_filename = ?, is_clearance = ?, clearance_price_cents = ?
		WHERE id = ?`,
		f.Name, f.Origin, f.PriceCents, f.Size, f.Description, nullString(f.ImageFilename),
		nullString(f.RefImageFilename), f.IsClearance, nullID(f.ClearancePriceCents), f.ID)
	if err != nil {
		return fmt.Errorf("update fabric: %w", err)
	}
	return nil
}

// DeleteFabric removes the fabric and its reference rows. It returns every
// filename the fabric owned; the caller removes the files after commit.
func DeleteFabric(ctx context.Context, q database.Querier, id int64) ([]string, error) {
	f, err := GetFabric(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if _, err := q.ExecContext(ctx, "DELETE FROM fabric_refs WHERE fabric_id = ?", id); err != nil {
		return nil, fmt.Errorf("delete fabric refs: %w", err)
	}
	if _, err := q.ExecContext(ctx, "DELETE FROM fabrics WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("delete fabric: %w", err)
	}
	return f.ImageFilenames(), nil
}

func ListFabricRefs(ctx context.Context, q database.Querier, fabricID int64) ([]models.FabricRef, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, fabric_id, filename FROM fabric_refs WHERE fabric_id = ? ORDER BY id ASC", fabricID)
	if err != nil {
		return nil, fmt.Errorf("list fabric refs: %w", err)
	}
	defer rows.Close()

	refs := []models.FabricRef{}
	for rows.Next() {
		var r models.FabricRef
		if err := rows.Scan(&r.ID, &r.FabricID, &r.Filename); err != nil {
			return nil, fmt.Errorf("scan fabric ref: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

func AddFabricRef(ctx context.Context, q database.Querier, fabricID int64, filename string) (int64, error) {
	id, err := database.InsertID(ctx, q,
		"INSERT INTO fabric_refs (fabric_id, filename) VALUES (?, ?)", fabricID, filename)
	if err != nil {
		return 0, fmt.Errorf("insert fabric ref: %w", err)
	}
	return id, nil
}

// DeleteFabricRef removes refID only if it belongs to fabricID and returns
// its filename.
func DeleteFabricRef(ctx context.Context, q database.Querier, fabricID, refID int64) (string, error) {
	var filename string
	err := q.QueryRowContext(ctx,
		"SELECT filename FROM fabric_refs WHERE id = ? AND fabric_id = ?", refID, fabricID).Scan(&filename)
	if err != nil {
		return "", notFound(err)
	}
	if _, err := q.ExecContext(ctx, "DELETE FROM fabric_refs WHERE id = ?", refID); err != nil {
		return "", fmt.Errorf("delete fabric ref: %w", err)
	}
	return filename, nil
}

func CountFabrics(ctx context.Context, q database.Querier, clearanceOnly bool) (int, error) {
	if clearanceOnly {
		return count(ctx, q, "SELECT COUNT(*) FROM fabrics WHERE is_clearance = ?", true)
	}
	return count(ctx, q, "SELECT COUNT(*) FROM fabrics")
}
