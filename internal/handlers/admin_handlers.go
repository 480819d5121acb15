package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/stitchshop/internal/auth"
	"github.com/01moynul/stitchshop/internal/database"
	"github.com/01moynul/stitchshop/internal/models"
	"github.com/01moynul/stitchshop/internal/store"
)

// DashboardCounts is the per-entity summary on the admin home page.
type DashboardCounts struct {
	Categories int
	Styles     int
	Products   int
	Variants   int
	Fabrics    int
	Clearance  int
}

func loadCounts(ctx context.Context, q database.Querier) (DashboardCounts, error) {
	var (
		counts DashboardCounts
		err    error
	)
	steps := []struct {
		dst *int
		fn  func() (int, error)
	}{
		{&counts.Categories, func() (int, error) { return store.CountCategories(ctx, q) }},
		{&counts.Styles, func() (int, error) { return store.CountStyles(ctx, q) }},
		{&counts.Products, func() (int, error) { return store.CountProducts(ctx, q) }},
		{&counts.Variants, func() (int, error) { return store.CountVariants(ctx, q) }},
		{&counts.Fabrics, func() (int, error) { return store.CountFabrics(ctx, q, false) }},
		{&counts.Clearance, func() (int, error) { return store.CountFabrics(ctx, q, true) }},
	}
	for _, s := range steps {
		if *s.dst, err = s.fn(); err != nil {
			return counts, err
		}
	}
	return counts, nil
}

// Dashboard handles GET /admin
func (h *Handlers) Dashboard(c *gin.Context) {
	counts, err := loadCounts(c.Request.Context(), h.DB)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin_dashboard.html", gin.H{"Counts": counts})
}

// SettingsForm handles GET /admin/settings
func (h *Handlers) SettingsForm(c *gin.Context) {
	flags, err := store.LoadFlags(c.Request.Context(), h.DB)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin_settings.html", gin.H{"Settings": flags})
}

// SaveSettings handles POST /admin/settings
// An unchecked box is absent from the form, which turns the flag off.
func (h *Handlers) SaveSettings(c *gin.Context) {
	var flags models.Flags
	for _, key := range models.FlagKeys {
		flags.Set(key, c.PostForm(key) != "")
	}

	err := h.withTx(c.Request.Context(), func(tx *database.Tx) error {
		return store.SaveFlags(c.Request.Context(), tx, flags)
	})
	if err != nil {
		h.flashError(c, err, "設定")
		h.redirect(c, "/admin/settings")
		return
	}
	h.Log.InfoContext(c.Request.Context(), "site settings saved", "flags", flags)
	h.flashRedirect(c, auth.FlashSuccess, "設定已儲存", "/admin/settings")
}
