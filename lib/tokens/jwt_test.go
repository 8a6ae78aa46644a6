package tokens

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surau-digital/surauhub/db/models"
)

var secret = []byte("SECRET")

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	token, err := GenerateAccessToken(secret, 60, &models.User{ID: 7, Username: "imam", Role: "head_imam"})
	require.NoError(t, err)

	claims, err := ParseAccessToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.ID)
	assert.Equal(t, "head_imam", claims.Role)

	_, err = ParseAccessToken([]byte("other"), token)
	assert.Error(t, err)

	expired, err := GenerateAccessToken(secret, -60, &models.User{ID: 7})
	require.NoError(t, err)
	_, err = ParseAccessToken(secret, expired)
	assert.Error(t, err)
}

func TestMiddlewareAndRoles(t *testing.T) {
	e := echo.New()
	g := e.Group("", Middleware(secret, "session"))
	g.GET("/read", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("Role").(string))
	})
	g.GET("/write", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RequireRoles("admin", "bendahari"))

	token, err := GenerateAccessToken(secret, 60, &models.User{ID: 3, Username: "staf", Role: "staff"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/read", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/read", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := serve(e, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "staff", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/read", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	assert.Equal(t, http.StatusOK, serve(e, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/read", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/write", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, serve(e, req).Code)
}

func TestAdminTokenMiddleware(t *testing.T) {
	e := echo.New()
	e.POST("/open", func(c echo.Context) error { return c.NoContent(http.StatusCreated) }, AdminTokenMiddleware("rahsia"))
	e.POST("/closed", func(c echo.Context) error { return c.NoContent(http.StatusCreated) }, AdminTokenMiddleware(""))

	req := httptest.NewRequest(http.MethodPost, "/open", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer rahsia")
	assert.Equal(t, http.StatusCreated, serve(e, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/open", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer salah")
	assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/closed", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer ")
	assert.Equal(t, http.StatusForbidden, serve(e, req).Code)
}
