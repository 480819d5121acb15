package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/stitchshop/internal/auth"
)

// SessionMiddleware resolves the admin capability once per request and
// stores it on the context as "isAdmin".
func SessionMiddleware(s *auth.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.IsAdmin(c)
		c.Next()
	}
}

// AdminRequired sends anyone without the admin capability to the login page
// with a warning.
func AdminRequired(s *auth.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.IsAdmin(c) {
			s.AddFlash(c, auth.FlashWarning, "請先登入管理後台")
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
