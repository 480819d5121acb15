package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/stitchshop/internal/auth"
	"github.com/01moynul/stitchshop/internal/database"
	"github.com/01moynul/stitchshop/internal/models"
	"github.com/01moynul/stitchshop/internal/store"
)

// --- Category Handlers ---

// AdminCategories handles GET /admin/categories
func (h *Handlers) AdminCategories(c *gin.Context) {
	categories, err := store.ListCategories(c.Request.Context(), h.DB)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin_categories.html", gin.H{"Categories": categories})
}

// NewCategoryForm handles GET /admin/categories/new
func (h *Handlers) NewCategoryForm(c *gin.Context) {
	h.render(c, http.StatusOK, "admin_category_form.html", gin.H{"Category": nil})
}

// CreateCategory handles POST /admin/categories/new
func (h *Handlers) CreateCategory(c *gin.Context) {
	ctx := c.Request.Context()
	cat := &models.Category{
		Name:        strings.TrimSpace(c.PostForm("name")),
		Description: strings.TrimSpace(c.PostForm("description")),
	}
	cat.ImageFilename = h.saveImage(c, "image")

	err := h.withTx(ctx, func(tx *database.Tx) error {
		_, err := store.CreateCategory(ctx, tx, cat)
		return err
	})
	if err != nil {
		h.removeFiles(ctx, cat.ImageFilename)
		h.flashError(c, err, "類別")
		h.redirect(c, "/admin/categories/new")
		return
	}
	h.flashRedirect(c, auth.FlashSuccess, "已新增類別", "/admin/categories")
}

// EditCategoryForm handles GET /admin/categories/:id/edit
func (h *Handlers) EditCategoryForm(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	cat, err := store.GetCategory(c.Request.Context(), h.DB, id)
	if err != nil {
		h.flashError(c, err, "類別")
		h.redirect(c, "/admin/categories")
		return
	}
	h.render(c, http.StatusOK, "admin_category_form.html", gin.H{"Category": cat})
}

// UpdateCategory handles POST /admin/categories/:id/edit
// A blank name keeps the current one.
func (h *Handlers) UpdateCategory(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	image := h.saveImage(c, "image")

	err := h.withTx(ctx, func(tx *database.Tx) error {
		cat, err := store.GetCategory(ctx, tx, id)
		if err != nil {
			return err
		}
		if name := strings.TrimSpace(c.PostForm("name")); name != "" {
			cat.Name = name
		}
		cat.Description = strings.TrimSpace(c.PostForm("description"))
		if image != "" {
			cat.ImageFilename = image
		}
		return store.UpdateCategory(ctx, tx, cat)
	})
	switch {
	case err == nil:
		h.flashRedirect(c, auth.FlashSuccess, "類別已更新", "/admin/categories")
	case errors.Is(err, store.ErrDuplicateName):
		h.removeFiles(ctx, image)
		h.flashError(c, err, "類別")
		h.redirect(c, fmt.Sprintf("/admin/categories/%d/edit", id))
	default:
		h.removeFiles(ctx, image)
		h.flashError(c, err, "類別")
		h.redirect(c, "/admin/categories")
	}
}

// DeleteCategory handles POST /admin/categories/:id/delete
// Styles go with the category; products stay, unassigned.
func (h *Handlers) DeleteCategory(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	err := h.withTx(ctx, func(tx *database.Tx) error {
		return store.DeleteCategory(ctx, tx, id)
	})
	if err != nil {
		h.flashError(c, err, "類別")
		h.redirect(c, "/admin/categories")
		return
	}
	h.Log.InfoContext(ctx, "category deleted", "category_id", id)
	h.flashRedirect(c, auth.FlashInfo, "已刪除類別", "/admin/categories")
}

// --- Style Handlers ---

func stylesURL(categoryID int64) string {
	return fmt.Sprintf("/admin/categories/%d/styles", categoryID)
}

// AdminStyles handles GET /admin/categories/:id/styles
func (h *Handlers) AdminStyles(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	cat, err := store.GetCategory(ctx, h.DB, id)
	if err != nil {
		h.flashError(c, err, "類別")
		h.redirect(c, "/admin/categories")
		return
	}
	styles, err := store.ListStylesByCategory(ctx, h.DB, id)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin_styles.html", gin.H{"Category": cat, "Styles": styles})
}

// CreateStyle handles POST /admin/categories/:id/styles
func (h *Handlers) CreateStyle(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	style := &models.Style{
		CategoryID:  id,
		Name:        strings.TrimSpace(c.PostForm("name")),
		Description: strings.TrimSpace(c.PostForm("description")),
	}
	style.ImageFilename = h.saveImage(c, "image")

	err := h.withTx(ctx, func(tx *database.Tx) error {
		_, err := store.CreateStyle(ctx, tx, style)
		return err
	})
	switch {
	case err == nil:
		h.flashRedirect(c, auth.FlashSuccess, "已新增款式", stylesURL(id))
	case errors.Is(err, store.ErrNotFound):
		h.removeFiles(ctx, style.ImageFilename)
		h.flashError(c, err, "類別")
		h.redirect(c, "/admin/categories")
	default:
		h.removeFiles(ctx, style.ImageFilename)
		h.flashError(c, err, "款式")
		h.redirect(c, stylesURL(id))
	}
}

// EditStyleForm handles GET /admin/styles/:id/edit
func (h *Handlers) EditStyleForm(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	style, err := store.GetStyle(c.Request.Context(), h.DB, id)
	if err != nil {
		h.flashError(c, err, "款式")
		h.redirect(c, "/admin/categories")
		return
	}
	h.render(c, http.StatusOK, "admin_style_form.html", gin.H{"Style": style})
}

// UpdateStyle handles POST /admin/styles/:id/edit
func (h *Handlers) UpdateStyle(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	image := h.saveImage(c, "image")

	var categoryID int64
	err := h.withTx(ctx, func(tx *database.Tx) error {
		style, err := store.GetStyle(ctx, tx, id)
		if err != nil {
			return err
		}
		categoryID = style.CategoryID
		style.Name = strings.TrimSpace(c.PostForm("name"))
		style.Description = strings.TrimSpace(c.PostForm("description"))
		if image != "" {
			style.ImageFilename = image
		}
		return store.UpdateStyle(ctx, tx, style)
	})
	switch {
	case err == nil:
		h.flashRedirect(c, auth.FlashSuccess, "款式已更新", stylesURL(categoryID))
	case errors.Is(err, store.ErrNotFound):
		h.removeFiles(ctx, image)
		h.flashError(c, err, "款式")
		h.redirect(c, "/admin/categories")
	default:
		h.removeFiles(ctx, image)
		h.flashError(c, err, "款式")
		h.redirect(c, fmt.Sprintf("/admin/styles/%d/edit", id))
	}
}

// DeleteStyle handles POST /admin/styles/:id/delete
func (h *Handlers) DeleteStyle(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	var categoryID int64
	err := h.withTx(ctx, func(tx *database.Tx) error {
		var err error
		categoryID, err = store.DeleteStyle(ctx, tx, id)
		return err
	})
	if err != nil {
		h.flashError(c, err, "款式")
		h.redirect(c, "/admin/categories")
		return
	}
	h.flashRedirect(c, auth.FlashInfo, "已刪除款式", stylesURL(categoryID))
}
