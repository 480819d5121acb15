package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/stitchshop/internal/auth"
)

// LoginForm handles GET /admin/login
func (h *Handlers) LoginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "admin_login.html", nil)
}

// Login handles POST /admin/login
func (h *Handlers) Login(c *gin.Context) {
	// 1. Compare against the shared admin password
	if !h.Sessions.CheckPassword(c.PostForm("password")) {
		h.Log.WarnContext(c.Request.Context(), "admin login failed", "client_ip", c.ClientIP())
		h.flash(c, auth.FlashDanger, "密碼錯誤")
		h.render(c, http.StatusOK, "admin_login.html", nil)
		return
	}

	// 2. Hand out the capability token
	if err := h.Sessions.Login(c); err != nil {
		h.serverError(c, err)
		return
	}
	h.Log.InfoContext(c.Request.Context(), "admin logged in", "client_ip", c.ClientIP())
	h.flashRedirect(c, auth.FlashSuccess, "已登入管理後台", "/admin")
}

// Logout handles GET /admin/logout
func (h *Handlers) Logout(c *gin.Context) {
	h.Sessions.Logout(c)
	h.flashRedirect(c, auth.FlashInfo, "已登出", "/admin/login")
}
