package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/formation-enrollment/internal/utils"
)

const testSecret = "test-secret"

func runProtected(t *testing.T, authHeader string, mw ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()

	h := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 3, "USER", 15)
	require.NoError(t, err)

	rec := runProtected(t, "Bearer "+tok.Token, JWTAuth(testSecret))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	rec := runProtected(t, "", JWTAuth(testSecret))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsForgedToken(t *testing.T) {
	tok, err := utils.NewAccessToken("another-secret", 3, "USER", 15)
	require.NoError(t, err)

	rec := runProtected(t, "Bearer "+tok.Token, JWTAuth(testSecret))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleBlocksWrongRole(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 3, "USER", 15)
	require.NoError(t, err)

	rec := runProtected(t, "Bearer "+tok.Token, JWTAuth(testSecret), RequireRole("ADMIN"))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = runProtected(t, "Bearer "+tok.Token, JWTAuth(testSecret), RequireRole("USER", "ADMIN"))
	require.Equal(t, http.StatusOK, rec.Code)
}
