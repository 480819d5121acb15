package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newSessions(t *testing.T) *Sessions {
	t.Helper()
	s, err := NewSessions("test-secret", "admin123")
	require.NoError(t, err)
	return s
}

func TestCheckPassword(t *testing.T) {
	s := newSessions(t)
	assert.True(t, s.CheckPassword("admin123"))
	assert.False(t, s.CheckPassword("admin1234"))
	assert.False(t, s.CheckPassword(""))

	_, err := NewSessions("", "x")
	assert.Error(t, err)
}

func TestCheckPasswordLongerThanBcryptLimit(t *testing.T) {
	long := strings.Repeat("p", 100)
	s, err := NewSessions("test-secret", long)
	require.NoError(t, err)

	assert.True(t, s.CheckPassword(long))
	// Differs only after byte 72, which bcrypt alone would ignore.
	assert.False(t, s.CheckPassword(strings.Repeat("p", 99)+"q"))
}

func TestTokenRoundTrip(t *testing.T) {
	s := newSessions(t)
	token, err := s.GenerateToken()
	require.NoError(t, err)

	role, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	other, err := NewSessions("other-secret", "admin123")
	require.NoError(t, err)
	_, err = other.ValidateToken(token)
	assert.Error(t, err)

	_, err = s.ValidateToken("garbage")
	assert.Error(t, err)
}

func TestValidateTokenRejectsUnsigned(t *testing.T) {
	s := newSessions(t)
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"role": RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.Error(t, err)
}

// cookiesFrom returns the last value set for each cookie name.
func cookiesFrom(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, ck := range rec.Result().Cookies() {
		out[ck.Name] = ck
	}
	return out
}

func TestLoginLogoutAndIsAdmin(t *testing.T) {
	s := newSessions(t)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	assert.False(t, s.IsAdmin(c))
	require.NoError(t, s.Login(c))
	assert.True(t, s.IsAdmin(c))

	session := cookiesFrom(rec)[SessionCookie]
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	// A fresh request carrying the cookie is admin.
	rec2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(rec2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/admin", nil)
	c2.Request.AddCookie(session)
	assert.True(t, s.IsAdmin(c2))

	s.Logout(c2)
	assert.False(t, s.IsAdmin(c2))
	cleared := cookiesFrom(rec2)[SessionCookie]
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

func TestFlashesSurviveRedirect(t *testing.T) {
	s := newSessions(t)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/categories/new", nil)
	s.AddFlash(c, FlashWarning, "first")
	s.AddFlash(c, FlashSuccess, "second")

	flash := cookiesFrom(rec)[FlashCookie]
	require.NotNil(t, flash)

	rec2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(rec2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/admin/categories", nil)
	c2.Request.AddCookie(flash)

	got := s.PopFlashes(c2)
	assert.Equal(t, []Flash{{FlashWarning, "first"}, {FlashSuccess, "second"}}, got)
	assert.Empty(t, s.PopFlashes(c2))
	assert.Empty(t, cookiesFrom(rec2)[FlashCookie].Value)
}

func TestTamperedFlashCookieIsIgnored(t *testing.T) {
	s := newSessions(t)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: FlashCookie, Value: "not-a-token"})
	assert.Empty(t, s.PopFlashes(c))
}
