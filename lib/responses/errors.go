package responses

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Success        bool   `json:"success"`
	Error          string `json:"error"`
	HttpStatusCode int    `json:"-"`
}

// DataResponse wraps every successful payload.
type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func Data(data interface{}) DataResponse {
	return DataResponse{Success: true, Data: data}
}

func NewError(status int, message string) ErrorResponse {
	return ErrorResponse{Error: message, HttpStatusCode: status}
}

var GeneralServerError = ErrorResponse{
	Error:          "Something went wrong. Please try again later",
	HttpStatusCode: http.StatusInternalServerError,
}

var BadArgumentsError = ErrorResponse{
	Error:          "Bad arguments",
	HttpStatusCode: http.StatusBadRequest,
}

var BadAuthError = ErrorResponse{
	Error:          "bad auth",
	HttpStatusCode: http.StatusUnauthorized,
}

var UnauthenticatedError = ErrorResponse{
	Error:          "authentication required",
	HttpStatusCode: http.StatusUnauthorized,
}

var ForbiddenError = ErrorResponse{
	Error:          "you are not allowed to do this",
	HttpStatusCode: http.StatusForbidden,
}

var NotFoundError = ErrorResponse{
	Error:          "not found",
	HttpStatusCode: http.StatusNotFound,
}

var AccountDeactivatedError = ErrorResponse{
	Error:          "Account has been deactivated. Please contact the administrator.",
	HttpStatusCode: http.StatusUnauthorized,
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil && isErrAllowedForSentry(err) {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("UserID", c.Get("UserID"))
			hub.CaptureException(err)
		})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		message := http.StatusText(he.Code)
		if he.Message != nil {
			message = fmt.Sprint(he.Message)
		}
		c.JSON(he.Code, NewError(he.Code, message))
		return
	}
	c.JSON(http.StatusInternalServerError, GeneralServerError)
}

// client errors are not worth an exception report
func isErrAllowedForSentry(err error) bool {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code >= http.StatusInternalServerError
	}
	return true
}
