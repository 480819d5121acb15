package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/stitchshop/internal/auth"
	"github.com/01moynul/stitchshop/internal/database"
	"github.com/01moynul/stitchshop/internal/store"
	"github.com/01moynul/stitchshop/internal/uploads"
)

// render injects the site flags, admin state and pending notices into every
// page. Flags are read on every call so toggles apply immediately; if they
// cannot be read the page renders with every toggle off.
func (h *Handlers) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	flags, err := store.LoadFlags(c.Request.Context(), h.DB)
	if err != nil {
		h.Log.ErrorContext(c.Request.Context(), "failed to load site flags", "error", err)
	}
	data["Flags"] = flags
	data["IsAdmin"] = h.Sessions.IsAdmin(c)
	data["Flashes"] = h.Sessions.PopFlashes(c)
	c.HTML(status, name, data)
}

func (h *Handlers) flash(c *gin.Context, category, message string) {
	h.Sessions.AddFlash(c, category, message)
}

func (h *Handlers) redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

func (h *Handlers) flashRedirect(c *gin.Context, category, message, location string) {
	h.flash(c, category, message)
	h.redirect(c, location)
}

// NotFound renders the shared 404 page.
func (h *Handlers) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "error.html", gin.H{
		"Status":  http.StatusNotFound,
		"Message": "找不到頁面",
	})
}

// paramID reads a positive integer path parameter. Anything else is a 404,
// matching how an integer route segment behaves.
func (h *Handlers) paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		h.NotFound(c)
		return 0, false
	}
	return id, true
}

// optionalID parses an optional id from form or query text. Blank, zero or
// malformed input is nil.
func optionalID(text string) *int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// withTx runs fn in one transaction and commits if it succeeds. fn must use
// only tx: SQLite has a single connection, so touching h.DB inside would block.
func (h *Handlers) withTx(ctx context.Context, fn func(tx *database.Tx) error) error {
	tx, err := h.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// flashError turns a store error into a notice. what names the entity in
// not-found messages.
func (h *Handlers) flashError(c *gin.Context, err error, what string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.flash(c, auth.FlashWarning, "找不到"+what)
	case errors.Is(err, store.ErrDuplicateName):
		h.flash(c, auth.FlashDanger, "此"+what+"名稱已存在，請換一個。")
	case errors.Is(err, store.ErrNameRequired):
		h.flash(c, auth.FlashDanger, "請輸入"+what+"名稱")
	case errors.Is(err, store.ErrInvalidAttributes):
		h.flash(c, auth.FlashDanger, "屬性 JSON 格式錯誤，請修正後再送出。")
	default:
		h.Log.ErrorContext(c.Request.Context(), "request failed",
			"path", c.Request.URL.Path, "error", err)
		h.flash(c, auth.FlashDanger, "操作失敗，請稍後再試")
	}
}

// saveImage stores the single file in field, if any. It returns "" when no
// usable file was sent.
func (h *Handlers) saveImage(c *gin.Context, field string) string {
	fh, err := c.FormFile(field)
	if err != nil {
		return ""
	}
	name, err := h.Uploads.Save(fh)
	switch {
	case err == nil:
		h.Metrics.Upload("saved")
		return name
	case errors.Is(err, uploads.ErrNoFile):
		return ""
	case errors.Is(err, uploads.ErrExtensionNotAllowed):
		h.Metrics.Upload("rejected")
		h.flash(c, auth.FlashWarning, "圖片格式不支援，僅接受 png、jpg、jpeg、gif、webp")
	default:
		h.Metrics.Upload("failed")
		h.Log.ErrorContext(c.Request.Context(), "failed to save upload", "file", fh.Filename, "error", err)
	}
	return ""
}

// saveImages stores every file in a multi-file field, skipping failures.
func (h *Handlers) saveImages(c *gin.Context, field string) []string {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	// Browsers send an empty part when nothing was picked.
	var files []*multipart.FileHeader
	for _, fh := range form.File[field] {
		if fh != nil && fh.Filename != "" {
			files = append(files, fh)
		}
	}
	saved := h.Uploads.SaveAll(files)
	for range saved {
		h.Metrics.Upload("saved")
	}
	for i := len(saved); i < len(files); i++ {
		h.Metrics.Upload("rejected")
	}
	return saved
}

// removeFiles deletes uploads best-effort; failures are only logged.
func (h *Handlers) removeFiles(ctx context.Context, names ...string) {
	for _, name := range names {
		if name == "" {
			continue
		}
		if err := h.Uploads.Remove(name); err != nil {
			h.Log.DebugContext(ctx, "could not remove upload", "file", name, "error", err)
		}
	}
}
