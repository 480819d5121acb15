package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ServeUpload handles GET /uploads/*filename
// Only plain file names inside the upload folder are served.
func (h *Handlers) ServeUpload(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filename"), "/")
	path, ok := h.Uploads.Path(name)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	c.File(path)
}
