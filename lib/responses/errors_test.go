package responses

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestUnauthorizedErrorsNotAllowedForSentry(t *testing.T) {
	isAllowed := isErrAllowedForSentry(echo.NewHTTPError(http.StatusUnauthorized, "bad auth"))
	assert.False(t, isAllowed)
}

func TestServerHTTPErrorsAllowedForSentry(t *testing.T) {
	isAllowed := isErrAllowedForSentry(echo.NewHTTPError(http.StatusBadGateway, "upstream"))
	assert.True(t, isAllowed)
}

func TestNonHTTPErrorsAllowedForSentry(t *testing.T) {
	isAllowed := isErrAllowedForSentry(errors.New("random error"))
	assert.True(t, isAllowed)
}

func TestHTTPErrorHandlerShapesBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	HTTPErrorHandler(echo.NewHTTPError(http.StatusNotFound, "no such route"), c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := map[string]interface{}{}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "no such route", body["error"])
}

func TestHTTPErrorHandlerHidesInternalErrors(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	HTTPErrorHandler(errors.New("pq: relation does not exist"), c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation")
}
