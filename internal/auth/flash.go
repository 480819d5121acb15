package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Flash categories used by the templates for styling.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type flashClaims struct {
	Flashes []Flash `json:"flashes"`
	jwt.RegisteredClaims
}

const contextFlashKey = "flashes"

// pending returns the request's flash queue, seeded from the incoming cookie
// on first use.
func (s *Sessions) pending(c *gin.Context) *[]Flash {
	if v, ok := c.Get(contextFlashKey); ok {
		if p, ok := v.(*[]Flash); ok {
			return p
		}
	}
	var queue []Flash
	if raw, err := c.Cookie(FlashCookie); err == nil && raw != "" {
		var claims flashClaims
		if s.parse(raw, &claims) == nil {
			queue = claims.Flashes
		}
	}
	c.Set(contextFlashKey, &queue)
	return &queue
}

// AddFlash queues a notice and rewrites the flash cookie so it survives a
// redirect.
func (s *Sessions) AddFlash(c *gin.Context, category, message string) {
	p := s.pending(c)
	*p = append(*p, Flash{Category: category, Message: message})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, flashClaims{Flashes: *p}).SignedString(s.secret)
	if err != nil {
		return
	}
	setCookie(c, FlashCookie, token, 0)
}

// PopFlashes returns every queued notice and clears the cookie.
func (s *Sessions) PopFlashes(c *gin.Context) []Flash {
	p := s.pending(c)
	out := *p
	*p = nil
	if len(out) > 0 {
		setCookie(c, FlashCookie, "", -1)
	}
	return out
}
