package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/stitchshop/internal/database"
	"github.com/01moynul/stitchshop/internal/models"
)

func setupDB(t *testing.T) (context.Context, *database.DB) {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenDB(ctx, "sqlite://")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.EnsureSchema(ctx, db))
	return ctx, db
}

func ptr(v int64) *int64 { return &v }

func TestCategoryDuplicateName(t *testing.T) {
	ctx, db := setupDB(t)

	_, err := CreateCategory(ctx, db, &models.Category{Name: "Bibs"})
	require.NoError(t, err)

	_, err = CreateCategory(ctx, db, &models.Category{Name: "Bibs"})
	assert.ErrorIs(t, err, ErrDuplicateName)

	// Case-sensitive.
	_, err = CreateCategory(ctx, db, &models.Category{Name: "bibs"})
	assert.NoError(t, err)

	_, err = CreateCategory(ctx, db, &models.Category{Name: "   "})
	assert.ErrorIs(t, err, ErrNameRequired)

	n, err := CountCategories(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestUpdateCategoryExcludesSelf(t *testing.T) {
	ctx, db := setupDB(t)

	a := &models.Category{Name: "A"}
	b := &models.Category{Name: "B"}
	_, err := CreateCategory(ctx, db, a)
	require.NoError(t, err)
	_, err = CreateCategory(ctx, db, b)
	require.NoError(t, err)

	a.Description = "same name, new text"
	assert.NoError(t, UpdateCategory(ctx, db, a))

	b.Name = "A"
	assert.ErrorIs(t, UpdateCategory(ctx, db, b), ErrDuplicateName)

	got, err := GetCategory(ctx, db, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)
}

func TestDeleteCategoryOrphansProducts(t *testing.T) {
	ctx, db := setupDB(t)

	cat := &models.Category{Name: "Bibs"}
	_, err := CreateCategory(ctx, db, cat)
	require.NoError(t, err)
	style := &models.Style{CategoryID: cat.ID, Name: "Round"}
	_, err = CreateStyle(ctx, db, style)
	require.NoError(t, err)

	byCat := &models.Product{Name: "P1", CategoryID: &cat.ID}
	byStyle := &models.Product{Name: "P2", StyleID: &style.ID}
	both := &models.Product{Name: "P3", CategoryID: &cat.ID, StyleID: &style.ID}
	for _, p := range []*models.Product{byCat, byStyle, both} {
		_, err := CreateProduct(ctx, db, p)
		require.NoError(t, err)
	}

	tx, err := db.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, DeleteCategory(ctx, tx, cat.ID))
	require.NoError(t, tx.Commit())

	_, err = GetCategory(ctx, db, cat.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = GetStyle(ctx, db, style.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	products, err := ListProducts(ctx, db, ProductFilter{})
	require.NoError(t, err)
	require.Len(t, products, 3)
	for _, p := range products {
		assert.Nil(t, p.CategoryID, p.Name)
		assert.Nil(t, p.StyleID, p.Name)
	}

	assert.ErrorIs(t, DeleteCategory(ctx, db, cat.ID), ErrNotFound)
}

func TestDeleteStyleKeepsProducts(t *testing.T) {
	ctx, db := setupDB(t)

	cat := &models.Category{Name: "Bibs"}
	_, err := CreateCategory(ctx, db, cat)
	require.NoError(t, err)
	style := &models.Style{CategoryID: cat.ID, Name: "Round"}
	_, err = CreateStyle(ctx, db, style)
	require.NoError(t, err)
	p := &models.Product{Name: "P", CategoryID: &cat.ID, StyleID: &style.ID}
	_, err = CreateProduct(ctx, db, p)
	require.NoError(t, err)

	catID, err := DeleteStyle(ctx, db, style.ID)
	require.NoError(t, err)
	assert.Equal(t, cat.ID, catID)

	got, err := GetProduct(ctx, db, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.StyleID)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, cat.ID, *got.CategoryID)
	assert.Equal(t, "Bibs", got.CategoryName)
}

func TestCreateStyleRequiresCategory(t *testing.T) {
	ctx, db := setupDB(t)
	_, err := CreateStyle(ctx, db, &models.Style{CategoryID: 42, Name: "Round"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProductsFilterAndOrder(t *testing.T) {
	ctx, db := setupDB(t)

	cat := &models.Category{Name: "Bibs"}
	_, err := CreateCategory(ctx, db, cat)
	require.NoError(t, err)
	for _, name := range []string{"first", "second", "third"} {
		_, err := CreateProduct(ctx, db, &models.Product{Name: name, CategoryID: &cat.ID})
		require.NoError(t, err)
	}
	_, err = CreateProduct(ctx, db, &models.Product{Name: "loose"})
	require.NoError(t, err)

	products, err := ListProducts(ctx, db, ProductFilter{CategoryID: &cat.ID})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "third", products[0].Name)
	assert.Equal(t, "first", products[2].Name)

	all, err := ListProducts(ctx, db, ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := ListProducts(ctx, db, ProductFilter{StyleID: ptr(99)})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteProductRemovesVariants(t *testing.T) {
	ctx, db := setupDB(t)

	p := &models.Product{Name: "P", PriceCents: 39000}
	_, err := CreateProduct(ctx, db, p)
	require.NoError(t, err)
	_, err = CreateVariant(ctx, db, &models.Variant{ProductID: p.ID, SKU: "A", Stock: 3})
	require.NoError(t, err)

	got, err := GetProduct(ctx, db, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Variants, 1)
	assert.Equal(t, "{}", got.Variants[0].AttributesJSON)

	require.NoError(t, DeleteProduct(ctx, db, p.ID))
	n, err := CountVariants(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, DeleteProduct(ctx, db, p.ID), ErrNotFound)
}

func TestVariantRejectsInvalidAttributes(t *testing.T) {
	ctx, db := setupDB(t)

	p := &models.Product{Name: "P"}
	_, err := CreateProduct(ctx, db, p)
	require.NoError(t, err)

	_, err = CreateVariant(ctx, db, &models.Variant{ProductID: p.ID, AttributesJSON: "{bad"})
	assert.ErrorIs(t, err, ErrInvalidAttributes)

	v := &models.Variant{ProductID: p.ID, SKU: "S", AttributesJSON: `{"color":"red"}`}
	_, err = CreateVariant(ctx, db, v)
	require.NoError(t, err)

	edit := *v
	edit.AttributesJSON = "not json"
	assert.ErrorIs(t, UpdateVariant(ctx, db, &edit), ErrInvalidAttributes)

	got, err := GetVariant(ctx, db, v.ID)
	require.NoError(t, err)
	assert.Equal(t, `{"color":"red"}`, got.AttributesJSON)

	pid, err := DeleteVariant(ctx, db, v.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, pid)
}

func TestFabricsAndRefs(t *testing.T) {
	ctx, db := setupDB(t)

	plain := &models.Fabric{Name: "Cotton", PriceCents: 25000, ImageFilename: "main.png"}
	_, err := CreateFabric(ctx, db, plain)
	require.NoError(t, err)
	sale := &models.Fabric{Name: "Linen", PriceCents: 32000, IsClearance: true, ClearancePriceCents: ptr(19900)}
	_, err = CreateFabric(ctx, db, sale)
	require.NoError(t, err)

	for _, name := range []string{"r1.png", "r2.png"} {
		_, err := AddFabricRef(ctx, db, plain.ID, name)
		require.NoError(t, err)
	}

	all, err := ListFabrics(ctx, db, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Linen", all[0].Name)
	assert.Len(t, all[1].RefImages, 2)
	assert.Nil(t, all[1].ClearancePriceCents)

	clearance, err := ListFabrics(ctx, db, true)
	require.NoError(t, err)
	require.Len(t, clearance, 1)
	require.NotNil(t, clearance[0].ClearancePriceCents)
	assert.Equal(t, int64(19900), *clearance[0].ClearancePriceCents)

	n, err := CountFabrics(ctx, db, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A ref can only be removed through its own fabric.
	_, err = DeleteFabricRef(ctx, db, sale.ID, all[1].RefImages[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	files, err := DeleteFabric(ctx, db, plain.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"main.png", "r1.png", "r2.png"}, files)

	refs, err := ListFabricRefs(ctx, db, plain.ID)
	require.NoError(t, err)
	assert.Empty(t, refs)

	_, err = DeleteFabric(ctx, db, plain.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFlags(t *testing.T) {
	ctx, db := setupDB(t)

	on, err := GetFlag(ctx, db, models.FlagPublicShopfront, true)
	require.NoError(t, err)
	assert.True(t, on)
	on, err = GetFlag(ctx, db, models.FlagPublicShopfront, false)
	require.NoError(t, err)
	assert.False(t, on)

	require.NoError(t, SetFlag(ctx, db, models.FlagPublicShopfront, false))
	require.NoError(t, SetFlag(ctx, db, models.FlagPublicShopfront, false))
	on, err = GetFlag(ctx, db, models.FlagPublicShopfront, true)
	require.NoError(t, err)
	assert.False(t, on)

	flags, err := LoadFlags(ctx, db)
	require.NoError(t, err)
	assert.False(t, flags.PublicShopfront)
	assert.True(t, flags.PublicFabricsChoose)

	flags.PublicShopfront = true
	flags.ShowHomeFabricsClearance = false
	require.NoError(t, SaveFlags(ctx, db, flags))
	got, err := LoadFlags(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, flags, got)
}

func TestFlagReadErrorFailsClosed(t *testing.T) {
	ctx, db := setupDB(t)
	require.NoError(t, SetFlag(ctx, db, models.FlagPublicShopfront, true))

	_, err := db.ExecContext(ctx, "DROP TABLE site_settings")
	require.NoError(t, err)

	on, err := GetFlag(ctx, db, models.FlagPublicShopfront, true)
	assert.Error(t, err)
	assert.False(t, on)

	flags, err := LoadFlags(ctx, db)
	assert.Error(t, err)
	assert.Equal(t, models.Flags{}, flags)
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx, db := setupDB(t)

	require.NoError(t, SetFlag(ctx, db, models.FlagPublicFabricsChoose, false))
	require.NoError(t, Seed(ctx, db))
	require.NoError(t, Seed(ctx, db))

	flags, err := LoadFlags(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultFlags(), flags)

	counts := map[string]func() (int, error){
		"categories": func() (int, error) { return CountCategories(ctx, db) },
		"styles":     func() (int, error) { return CountStyles(ctx, db) },
		"products":   func() (int, error) { return CountProducts(ctx, db) },
		"fabrics":    func() (int, error) { return CountFabrics(ctx, db, false) },
	}
	want := map[string]int{"categories": 2, "styles": 3, "products": 1, "fabrics": 2}
	for name, fn := range counts {
		n, err := fn()
		require.NoError(t, err)
		assert.Equal(t, want[name], n, name)
	}

	products, err := ListProducts(ctx, db, ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, "390.00", products[0].PriceDisplay())
}
