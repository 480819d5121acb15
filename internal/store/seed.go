package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/01moynul/stitchshop/internal/database"
	"github.com/01moynul/stitchshop/internal/models"
)

// Seed turns every site toggle on and, for an empty catalog, inserts a small
// demo data set. It is safe to run repeatedly.
func Seed(ctx context.Context, db *database.DB) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := SaveFlags(ctx, tx, models.DefaultFlags()); err != nil {
		return err
	}

	// 1. --- Categories, styles and a demo product ---
	n, err := CountCategories(ctx, tx)
	if err != nil {
		return err
	}
	if n == 0 {
		bib := &models.Category{Name: "圍兜兜", Description: "手作寶寶圍兜兜"}
		hair := &models.Category{Name: "髮飾", Description: "手作髮飾"}
		for _, c := range []*models.Category{bib, hair} {
			if _, err := CreateCategory(ctx, tx, c); err != nil {
				return fmt.Errorf("seed category %q: %w", c.Name, err)
			}
		}

		var round int64
		for i, name := range []string{"圓型", "花型", "360度型"} {
			id, err := CreateStyle(ctx, tx, &models.Style{CategoryID: bib.ID, Name: name})
			if err != nil {
				return fmt.Errorf("seed style %q: %w", name, err)
			}
			if i == 0 {
				round = id
			}
		}

		_, err = CreateProduct(ctx, tx, &models.Product{
			Name:        "示範圍兜 - 圓型 A",
			PriceCents:  39000,
			Description: "棉紗布圍兜，親膚吸水。",
			CategoryID:  &bib.ID,
			StyleID:     &round,
		})
		if err != nil {
			return fmt.Errorf("seed product: %w", err)
		}
		slog.Info("seeded demo categories", "categories", 2, "styles", 3, "products", 1)
	}

	// 2. --- Fabrics ---
	n, err = CountFabrics(ctx, tx, false)
	if err != nil {
		return err
	}
	if n == 0 {
		clearance := int64(19900)
		fabrics := []*models.Fabric{
			{Name: "示範布料 - 小花棉布", Origin: "台灣", PriceCents: 25000, Size: "幅寬150cm", Description: "柔軟親膚。"},
			{Name: "示範布料 - 條紋棉麻", Origin: "日本", PriceCents: 32000, Size: "幅寬140cm", Description: "透氣挺度佳。",
				IsClearance: true, ClearancePriceCents: &clearance},
		}
		for _, f := range fabrics {
			if _, err := CreateFabric(ctx, tx, f); err != nil {
				return fmt.Errorf("seed fabric %q: %w", f.Name, err)
			}
		}
		slog.Info("seeded demo fabrics", "fabrics", len(fabrics))
	}

	return tx.Commit()
}
