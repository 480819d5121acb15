package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/stitchshop/internal/models"
	"github.com/01moynul/stitchshop/internal/store"
)

// publicAllowed reports whether a visitor may see a section guarded by the
// flag key. Admins always may. A flag that cannot be read counts as off.
func (h *Handlers) publicAllowed(c *gin.Context, key string) bool {
	if h.Sessions.IsAdmin(c) {
		return true
	}
	on, err := store.GetFlag(c.Request.Context(), h.DB, key, models.FlagDefault)
	if err != nil {
		h.Log.ErrorContext(c.Request.Context(), "failed to read site flag", "flag", key, "error", err)
		return false
	}
	return on
}

// Home handles GET /
func (h *Handlers) Home(c *gin.Context) {
	// 1. Closed shopfront: visitors get the maintenance page.
	if !h.publicAllowed(c, models.FlagPublicShopfront) {
		h.render(c, http.StatusForbidden, "site_closed.html", nil)
		return
	}

	ctx := c.Request.Context()

	// 2. Categories plus the counts for the fabric entry cards.
	categories, err := store.ListCategories(ctx, h.DB)
	if err != nil {
		h.serverError(c, err)
		return
	}
	fabricCount, err := store.CountFabrics(ctx, h.DB, false)
	if err != nil {
		h.serverError(c, err)
		return
	}
	clearanceCount, err := store.CountFabrics(ctx, h.DB, true)
	if err != nil {
		h.serverError(c, err)
		return
	}

	h.render(c, http.StatusOK, "categories.html", gin.H{
		"Categories":     categories,
		"FabricCount":    fabricCount,
		"ClearanceCount": clearanceCount,
	})
}

// CategoryDetail handles GET /category/:id
func (h *Handlers) CategoryDetail(c *gin.Context) {
	if !h.publicAllowed(c, models.FlagPublicShopfront) {
		h.NotFound(c)
		return
	}
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	category, err := store.GetCategory(ctx, h.DB, id)
	if err != nil {
		h.flashError(c, err, "類別")
		h.redirect(c, "/")
		return
	}
	styles, err := store.ListStylesByCategory(ctx, h.DB, id)
	if err != nil {
		h.serverError(c, err)
		return
	}
	products, err := store.ListProducts(ctx, h.DB, store.ProductFilter{CategoryID: &id})
	if err != nil {
		h.serverError(c, err)
		return
	}

	h.render(c, http.StatusOK, "category_detail.html", gin.H{
		"Category": category,
		"Styles":   styles,
		"Products": products,
	})
}

// StyleDetail handles GET /style/:id
func (h *Handlers) StyleDetail(c *gin.Context) {
	if !h.publicAllowed(c, models.FlagPublicShopfront) {
		h.NotFound(c)
		return
	}
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	style, err := store.GetStyle(ctx, h.DB, id)
	if err != nil {
		h.flashError(c, err, "款式")
		h.redirect(c, "/")
		return
	}
	products, err := store.ListProducts(ctx, h.DB, store.ProductFilter{StyleID: &id})
	if err != nil {
		h.serverError(c, err)
		return
	}

	h.render(c, http.StatusOK, "style_detail.html", gin.H{
		"Style":    style,
		"Products": products,
	})
}

// ProductDetail handles GET /product/:id
func (h *Handlers) ProductDetail(c *gin.Context) {
	if !h.publicAllowed(c, models.FlagPublicShopfront) {
		h.NotFound(c)
		return
	}
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	product, err := store.GetProduct(c.Request.Context(), h.DB, id)
	if err != nil {
		h.flashError(c, err, "商品")
		h.redirect(c, "/")
		return
	}
	h.render(c, http.StatusOK, "product_detail.html", gin.H{"Product": product})
}

// FabricsChoose handles GET /fabrics/choose
func (h *Handlers) FabricsChoose(c *gin.Context) {
	h.fabricList(c, models.FlagPublicFabricsChoose, false, "fabrics_choose.html")
}

// FabricsClearance handles GET /fabrics/clearance
func (h *Handlers) FabricsClearance(c *gin.Context) {
	h.fabricList(c, models.FlagPublicFabricsClearance, true, "fabrics_clearance.html")
}

func (h *Handlers) fabricList(c *gin.Context, flag string, clearanceOnly bool, tmpl string) {
	if !h.publicAllowed(c, flag) {
		h.NotFound(c)
		return
	}
	fabrics, err := store.ListFabrics(c.Request.Context(), h.DB, clearanceOnly)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, tmpl, gin.H{"Fabrics": fabrics})
}

// serverError logs err and renders a generic failure page.
func (h *Handlers) serverError(c *gin.Context, err error) {
	h.Log.ErrorContext(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
	c.Error(err)
	h.render(c, http.StatusInternalServerError, "error.html", gin.H{
		"Status":  http.StatusInternalServerError,
		"Message": "系統發生錯誤，請稍後再試",
	})
}
