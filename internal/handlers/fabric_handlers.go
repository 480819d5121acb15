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

func fabricEditURL(id int64) string {
	return fmt.Sprintf("/admin/fabrics/%d/edit", id)
}

// fabricFields copies the text fields of the fabric form into f. A blank
// clearance price clears it; it is never stored as 0 for blank input.
func fabricFields(c *gin.Context, f *models.Fabric) {
	f.Name = strings.TrimSpace(c.PostForm("name"))
	f.Origin = strings.TrimSpace(c.PostForm("origin"))
	f.Size = strings.TrimSpace(c.PostForm("size"))
	f.Description = strings.TrimSpace(c.PostForm("description"))
	f.IsClearance = c.PostForm("is_clearance") != ""

	f.ClearancePriceCents = nil
	if text := strings.TrimSpace(c.PostForm("clearance_price")); text != "" {
		cents := models.ParseCents(text)
		f.ClearancePriceCents = &cents
	}
}

// AdminFabrics handles GET /admin/fabrics
func (h *Handlers) AdminFabrics(c *gin.Context) {
	fabrics, err := store.ListFabrics(c.Request.Context(), h.DB, false)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin_fabrics.html", gin.H{"Fabrics": fabrics})
}

// NewFabricForm handles GET /admin/fabrics/new
func (h *Handlers) NewFabricForm(c *gin.Context) {
	h.render(c, http.StatusOK, "admin_fabric_form.html", gin.H{"Fabric": nil})
}

// CreateFabric handles POST /admin/fabrics/new
func (h *Handlers) CreateFabric(c *gin.Context) {
	ctx := c.Request.Context()

	// 1. Form fields and files
	f := &models.Fabric{PriceCents: models.ParseCents(c.PostForm("price"))}
	fabricFields(c, f)
	f.ImageFilename = h.saveImage(c, "image")
	refs := h.saveImages(c, "ref_images")

	// 2. Fabric row and its reference rows in one transaction
	err := h.withTx(ctx, func(tx *database.Tx) error {
		id, err := store.CreateFabric(ctx, tx, f)
		if err != nil {
			return err
		}
		for _, name := range refs {
			if _, err := store.AddFabricRef(ctx, tx, id, name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		h.removeFiles(ctx, append(refs, f.ImageFilename)...)
		h.flashError(c, err, "布料")
		h.redirect(c, "/admin/fabrics/new")
		return
	}
	h.flashRedirect(c, auth.FlashSuccess, "已新增布料紀錄", "/admin/fabrics")
}

// EditFabricForm handles GET /admin/fabrics/:id/edit
func (h *Handlers) EditFabricForm(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	f, err := store.GetFabric(c.Request.Context(), h.DB, id)
	if err != nil {
		h.flashError(c, err, "布料")
		h.redirect(c, "/admin/fabrics")
		return
	}
	h.render(c, http.StatusOK, "admin_fabric_form.html", gin.H{"Fabric": f})
}

// UpdateFabric handles POST /admin/fabrics/:id/edit
// A price that parses to 0 keeps the current price. New reference images
// are appended to the existing ones.
func (h *Handlers) UpdateFabric(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	image := h.saveImage(c, "image")
	refs := h.saveImages(c, "ref_images")

	err := h.withTx(ctx, func(tx *database.Tx) error {
		f, err := store.GetFabric(ctx, tx, id)
		if err != nil {
			return err
		}
		fabricFields(c, f)
		if cents := models.ParseCents(c.PostForm("price")); cents != 0 {
			f.PriceCents = cents
		}
		if image != "" {
			f.ImageFilename = image
		}
		if err := store.UpdateFabric(ctx, tx, f); err != nil {
			return err
		}
		for _, name := range refs {
			if _, err := store.AddFabricRef(ctx, tx, id, name); err != nil {
				return err
			}
		}
		return nil
	})
	switch {
	case err == nil:
		h.flashRedirect(c, auth.FlashSuccess, "布料已更新", "/admin/fabrics")
	case errors.Is(err, store.ErrNameRequired):
		h.removeFiles(ctx, append(refs, image)...)
		h.flashError(c, err, "布料")
		h.redirect(c, fabricEditURL(id))
	default:
		h.removeFiles(ctx, append(refs, image)...)
		h.flashError(c, err, "布料")
		h.redirect(c, "/admin/fabrics")
	}
}

// DeleteFabric handles POST /admin/fabrics/:id/delete
// Image files are removed after the commit; a missing file is not an error.
func (h *Handlers) DeleteFabric(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var files []string
	err := h.withTx(ctx, func(tx *database.Tx) error {
		var err error
		files, err = store.DeleteFabric(ctx, tx, id)
		return err
	})
	if err != nil {
		h.flashError(c, err, "布料")
		h.redirect(c, "/admin/fabrics")
		return
	}
	h.removeFiles(ctx, files...)
	h.Log.InfoContext(ctx, "fabric deleted", "fabric_id", id, "files", len(files))
	h.flashRedirect(c, auth.FlashInfo, "已刪除布料", "/admin/fabrics")
}

// DeleteFabricRef handles POST /admin/fabrics/:id/refs/:ref_id/delete
func (h *Handlers) DeleteFabricRef(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	refID, ok := h.paramID(c, "ref_id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var filename string
	err := h.withTx(ctx, func(tx *database.Tx) error {
		var err error
		filename, err = store.DeleteFabricRef(ctx, tx, id, refID)
		return err
	})
	if err != nil {
		h.flashError(c, err, "參考作品圖片")
		h.redirect(c, fabricEditURL(id))
		return
	}
	h.removeFiles(ctx, filename)
	h.flashRedirect(c, auth.FlashInfo, "已刪除參考作品圖片", fabricEditURL(id))
}
