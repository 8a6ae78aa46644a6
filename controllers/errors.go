package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/surau-digital/surauhub/lib/responses"
	"github.com/surau-digital/surauhub/lib/service"
)

// serviceError answers known service errors with their status code. Anything
// else is handed to the HTTP error handler as a 500.
func serviceError(c echo.Context, err error) error {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		return c.JSON(http.StatusBadRequest, responses.NewError(http.StatusBadRequest, validation.Msg))
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, responses.NotFoundError)
	case errors.Is(err, service.ErrDuplicateStatement), errors.Is(err, service.ErrDuplicateMember):
		return c.JSON(http.StatusBadRequest, responses.NewError(http.StatusBadRequest, err.Error()))
	case errors.Is(err, service.ErrBadCredentials):
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	case errors.Is(err, service.ErrAccountDeactivated):
		return c.JSON(http.StatusUnauthorized, responses.AccountDeactivatedError)
	}
	return err
}

func userID(c echo.Context) int64 {
	id, _ := c.Get("UserID").(int64)
	return id
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, responses.Data(data))
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, responses.Data(data))
}
