package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/stitchshop/internal/auth"
	"github.com/01moynul/stitchshop/internal/database"
	"github.com/01moynul/stitchshop/internal/models"
	"github.com/01moynul/stitchshop/internal/store"
)

// --- Product Handlers ---

// AdminProducts handles GET /admin/products?category_id=&style_id=
func (h *Handlers) AdminProducts(c *gin.Context) {
	ctx := c.Request.Context()
	filter := store.ProductFilter{
		CategoryID: optionalID(c.Query("category_id")),
		StyleID:    optionalID(c.Query("style_id")),
	}

	products, err := store.ListProducts(ctx, h.DB, filter)
	if err != nil {
		h.serverError(c, err)
		return
	}
	data, err := h.productFormData(ctx)
	if err != nil {
		h.serverError(c, err)
		return
	}
	data["Products"] = products

	// The filter banner shows names; an unknown id simply shows nothing.
	if filter.CategoryID != nil {
		if cat, err := store.GetCategory(ctx, h.DB, *filter.CategoryID); err == nil {
			data["CurrentCategory"] = cat
		}
	}
	if filter.StyleID != nil {
		if style, err := store.GetStyle(ctx, h.DB, *filter.StyleID); err == nil {
			data["CurrentStyle"] = style
		}
	}
	h.render(c, http.StatusOK, "admin_products.html", data)
}

// productFormData loads the dropdown choices, sorted by name.
func (h *Handlers) productFormData(ctx context.Context) (gin.H, error) {
	categories, err := store.ListCategoriesByName(ctx, h.DB)
	if err != nil {
		return nil, err
	}
	styles, err := store.ListStylesByName(ctx, h.DB)
	if err != nil {
		return nil, err
	}
	return gin.H{"Categories": categories, "Styles": styles}, nil
}

// Warnings for parent ids that do not exist; shown only once the save commits.
const (
	warnCategoryMissing = "找不到指定的類別，商品已設為未分類"
	warnStyleMissing    = "找不到指定的款式，商品已設為未分類"
)

// resolveParents reads category_id and style_id from the form. Blank means
// none; an id that does not exist is dropped and reported in warnings.
func resolveParents(c *gin.Context, tx database.Querier) (categoryID, styleID *int64, warnings []string, err error) {
	ctx := c.Request.Context()

	if raw := strings.TrimSpace(c.PostForm("category_id")); raw != "" {
		id := optionalID(raw)
		if id != nil {
			_, err = store.GetCategory(ctx, tx, *id)
		}
		switch {
		case id == nil || errors.Is(err, store.ErrNotFound):
			warnings = append(warnings, warnCategoryMissing)
		case err != nil:
			return nil, nil, nil, err
		default:
			categoryID = id
		}
	}

	if raw := strings.TrimSpace(c.PostForm("style_id")); raw != "" {
		id := optionalID(raw)
		err = nil
		if id != nil {
			_, err = store.GetStyle(ctx, tx, *id)
		}
		switch {
		case id == nil || errors.Is(err, store.ErrNotFound):
			warnings = append(warnings, warnStyleMissing)
		case err != nil:
			return nil, nil, nil, err
		default:
			styleID = id
		}
	}
	return categoryID, styleID, warnings, nil
}

func (h *Handlers) flashWarnings(c *gin.Context, warnings []string) {
	for _, w := range warnings {
		h.flash(c, auth.FlashWarning, w)
	}
}

// NewProductForm handles GET /admin/products/new
func (h *Handlers) NewProductForm(c *gin.Context) {
	data, err := h.productFormData(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	data["Product"] = nil
	h.render(c, http.StatusOK, "admin_product_form.html", data)
}

// CreateProduct handles POST /admin/products/new
// A price that cannot be parsed is stored as 0.
func (h *Handlers) CreateProduct(c *gin.Context) {
	ctx := c.Request.Context()
	p := &models.Product{
		Name:        strings.TrimSpace(c.PostForm("name")),
		PriceCents:  models.ParseCents(c.PostForm("price")),
		Description: strings.TrimSpace(c.PostForm("description")),
	}
	p.ImageFilename = h.saveImage(c, "image")

	var warnings []string
	err := h.withTx(ctx, func(tx *database.Tx) error {
		var err error
		if p.CategoryID, p.StyleID, warnings, err = resolveParents(c, tx); err != nil {
			return err
		}
		_, err = store.CreateProduct(ctx, tx, p)
		return err
	})
	if err != nil {
		h.removeFiles(ctx, p.ImageFilename)
		h.flashError(c, err, "商品")
		h.redirect(c, "/admin/products/new")
		return
	}
	h.flashWarnings(c, warnings)
	h.flashRedirect(c, auth.FlashSuccess, "已新增商品", "/admin/products")
}

// EditProductForm handles GET /admin/products/:id/edit
func (h *Handlers) EditProductForm(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	p, err := store.GetProduct(ctx, h.DB, id)
	if err != nil {
		h.flashError(c, err, "商品")
		h.redirect(c, "/admin/products")
		return
	}
	data, err := h.productFormData(ctx)
	if err != nil {
		h.serverError(c, err)
		return
	}
	data["Product"] = p
	h.render(c, http.StatusOK, "admin_product_form.html", data)
}

// UpdateProduct handles POST /admin/products/:id/edit
// A price that parses to 0 keeps the current price.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	image := h.saveImage(c, "image")

	var warnings []string
	err := h.withTx(ctx, func(tx *database.Tx) error {
		p, err := store.GetProduct(ctx, tx, id)
		if err != nil {
			return err
		}
		p.Name = strings.TrimSpace(c.PostForm("name"))
		if cents := models.ParseCents(c.PostForm("price")); cents != 0 {
			p.PriceCents = cents
		}
		p.Description = strings.TrimSpace(c.PostForm("description"))
		if image != "" {
			p.ImageFilename = image
		}
		if p.CategoryID, p.StyleID, warnings, err = resolveParents(c, tx); err != nil {
			return err
		}
		return store.UpdateProduct(ctx, tx, p)
	})
	switch {
	case err == nil:
		h.flashWarnings(c, warnings)
		h.flashRedirect(c, auth.FlashSuccess, "商品已更新", "/admin/products")
	case errors.Is(err, store.ErrNameRequired):
		h.removeFiles(ctx, image)
		h.flashError(c, err, "商品")
		h.redirect(c, fmt.Sprintf("/admin/products/%d/edit", id))
	default:
		h.removeFiles(ctx, image)
		h.flashError(c, err, "商品")
		h.redirect(c, "/admin/products")
	}
}

// DeleteProduct handles POST /admin/products/:id/delete
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	err := h.withTx(ctx, func(tx *database.Tx) error {
		return store.DeleteProduct(ctx, tx, id)
	})
	if err != nil {
		h.flashError(c, err, "商品")
		h.redirect(c, "/admin/products")
		return
	}
	h.flashRedirect(c, auth.FlashInfo, "已刪除商品", "/admin/products")
}

// --- Variant Handlers ---

func variantsURL(productID int64) string {
	return fmt.Sprintf("/admin/products/%d/variants", productID)
}

// parseStock reads the stock field; anything that is not an integer is 0.
func parseStock(text string) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return n
}

// AdminVariants handles GET /admin/products/:id/variants
func (h *Handlers) AdminVariants(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	p, err := store.GetProduct(c.Request.Context(), h.DB, id)
	if err != nil {
		h.flashError(c, err, "商品")
		h.redirect(c, "/admin/products")
		return
	}
	h.render(c, http.StatusOK, "admin_variants.html", gin.H{"Product": p, "Variants": p.Variants})
}

// CreateVariant handles POST /admin/products/:id/variants
func (h *Handlers) CreateVariant(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	v := &models.Variant{
		ProductID:      id,
		SKU:            c.PostForm("sku"),
		Stock:          parseStock(c.PostForm("stock")),
		AttributesJSON: c.PostForm("attributes_json"),
	}

	err := h.withTx(ctx, func(tx *database.Tx) error {
		if _, err := store.GetProduct(ctx, tx, id); err != nil {
			return err
		}
		_, err := store.CreateVariant(ctx, tx, v)
		return err
	})
	switch {
	case err == nil:
		h.flashRedirect(c, auth.FlashSuccess, "已新增規格/尺寸", variantsURL(id))
	case errors.Is(err, store.ErrNotFound):
		h.flashError(c, err, "商品")
		h.redirect(c, "/admin/products")
	default:
		h.flashError(c, err, "規格")
		h.redirect(c, variantsURL(id))
	}
}

// EditVariantForm handles GET /admin/variants/:id/edit
func (h *Handlers) EditVariantForm(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	v, err := store.GetVariant(ctx, h.DB, id)
	if err != nil {
		h.flashError(c, err, "規格")
		h.redirect(c, "/admin/products")
		return
	}
	p, err := store.GetProduct(ctx, h.DB, v.ProductID)
	if err != nil {
		h.flashError(c, err, "商品")
		h.redirect(c, "/admin/products")
		return
	}
	h.render(c, http.StatusOK, "admin_variant_form.html", gin.H{"Variant": v, "Product": p})
}

// UpdateVariant handles POST /admin/variants/:id/edit
// Invalid attribute JSON leaves the stored variant unchanged.
func (h *Handlers) UpdateVariant(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var productID int64
	err := h.withTx(ctx, func(tx *database.Tx) error {
		v, err := store.GetVariant(ctx, tx, id)
		if err != nil {
			return err
		}
		productID = v.ProductID
		v.SKU = c.PostForm("sku")
		v.Stock = parseStock(c.PostForm("stock"))
		v.AttributesJSON = c.PostForm("attributes_json")
		return store.UpdateVariant(ctx, tx, v)
	})
	switch {
	case err == nil:
		h.flashRedirect(c, auth.FlashSuccess, "規格已更新", variantsURL(productID))
	case errors.Is(err, store.ErrNotFound):
		h.flashError(c, err, "規格")
		h.redirect(c, "/admin/products")
	default:
		h.flashError(c, err, "規格")
		h.redirect(c, variantsURL(productID))
	}
}

// DeleteVariant handles POST /admin/variants/:id/delete
func (h *Handlers) DeleteVariant(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	var productID int64
	err := h.withTx(ctx, func(tx *database.Tx) error {
		var err error
		productID, err = store.DeleteVariant(ctx, tx, id)
		return err
	})
	if err != nil {
		h.flashError(c, err, "規格")
		h.redirect(c, "/admin/products")
		return
	}
	h.flashRedirect(c, auth.FlashInfo, "已刪除規格", variantsURL(productID))
}
