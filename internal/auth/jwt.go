package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionCookie = "shop_session"
	FlashCookie   = "shop_flash"

	// RoleAdmin is the only capability a session token can carry.
	RoleAdmin = "admin"

	contextAdminKey = "isAdmin"
)

var ErrInvalidToken = errors.New("invalid token")

// sessionClaims is the payload of the admin capability token. It has no
// expiry; the cookie lives for the browser session.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Sessions issues and checks the admin capability token and the signed
// flash cookie. Both are HS256 JWTs signed with the same secret.
type Sessions struct {
	secret   []byte
	password password
}

// NewSessions hashes the shared admin password once at start-up.
func NewSessions(secret, adminPassword string) (*Sessions, error) {
	if secret == "" {
		return nil, errors.New("session secret must not be empty")
	}
	s := &Sessions{secret: []byte(secret)}
	if err := s.password.Set(adminPassword); err != nil {
		return nil, err
	}
	return s, nil
}

// CheckPassword compares candidate against the configured admin password.
func (s *Sessions) CheckPassword(candidate string) bool {
	ok, err := s.password.Matches(candidate)
	return err == nil && ok
}

// GenerateToken signs a new admin capability token.
func (s *Sessions) GenerateToken() (string, error) {
	claims := sessionClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateToken returns the role carried by a token signed with our secret.
func (s *Sessions) ValidateToken(tokenString string) (string, error) {
	var claims sessionClaims
	if err := s.parse(tokenString, &claims); err != nil {
		return "", err
	}
	if claims.Role == "" {
		return "", ErrInvalidToken
	}
	return claims.Role, nil
}

func (s *Sessions) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Reject anything not signed with HMAC, e.g. "none".
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

func setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", false, true)
}

// Login marks the current client as admin.
func (s *Sessions) Login(c *gin.Context) error {
	token, err := s.GenerateToken()
	if err != nil {
		return err
	}
	setCookie(c, SessionCookie, token, 0)
	c.Set(contextAdminKey, true)
	return nil
}

// Logout drops the admin capability.
func (s *Sessions) Logout(c *gin.Context) {
	setCookie(c, SessionCookie, "", -1)
	c.Set(contextAdminKey, false)
}

// IsAdmin reports whether the request carries a valid admin token. The
// result is cached on the context.
func (s *Sessions) IsAdmin(c *gin.Context) bool {
	if v, ok := c.Get(contextAdminKey); ok {
		isAdmin, _ := v.(bool)
		return isAdmin
	}
	isAdmin := false
	if raw, err := c.Cookie(SessionCookie); err == nil && raw != "" {
		role, err := s.ValidateToken(raw)
		isAdmin = err == nil && role == RoleAdmin
	}
	c.Set(contextAdminKey, isAdmin)
	return isAdmin
}
