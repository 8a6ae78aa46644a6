package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/surau-digital/surauhub/db/models"
	"github.com/surau-digital/surauhub/lib/responses"
	"github.com/surau-digital/surauhub/lib/service"
)

// AuthController : AuthController struct
type AuthController struct {
	svc *service.SurauService
}

func NewAuthController(svc *service.SurauService) *AuthController {
	return &AuthController{
		svc: svc,
	}
}

type AuthRequestBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponseBody struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

// Login godoc
// @Summary      Sign in
// @Description  Exchanges a username and password for a session token. The token is also set as a cookie.
// @Accept       json
// @Produce      json
// @Tags         Auth
// @Param        credentials  body      AuthRequestBody  true  "Username and password"
// @Success      200          {object}  AuthResponseBody
// @Failure      400          {object}  responses.ErrorResponse
// @Failure      401          {object}  responses.ErrorResponse
// @Failure      500          {object}  responses.ErrorResponse
// @Router       /api/auth/login [post]
func (controller *AuthController) Login(c echo.Context) error {
	var body AuthRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load auth user request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	if body.Username == "" || body.Password == "" {
		// To support Swagger we also look in the Form data
		params, err := c.FormParams()
		if err != nil {
			return err
		}
		username := params.Get("username")
		password := params.Get("password")
		if username != "" && password != "" {
			body.Username = username
			body.Password = password
		}
	}

	token, user, err := controller.svc.GenerateToken(c.Request().Context(), body.Username, body.Password)
	if err != nil {
		c.Logger().Infof("Login failed for %q: %v", body.Username, err)
		return serviceError(c, err)
	}

	c.SetCookie(controller.cookie(token, time.Now().Add(time.Duration(controller.svc.Config.JWTAccessTokenExpiry)*time.Second)))
	return ok(c, &AuthResponseBody{
		AccessToken: token,
		User:        user,
	})
}

// Logout godoc
// @Summary      Sign out
// @Description  Clears the session cookie
// @Produce      json
// @Tags         Auth
// @Success      200  {object}  responses.DataResponse
// @Failure      401  {object}  responses.ErrorResponse
// @Router       /api/auth/logout [post]
// @Security     OAuth2Password
func (controller *AuthController) Logout(c echo.Context) error {
	cookie := controller.cookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	c.SetCookie(cookie)
	return ok(c, map[string]string{"message": "signed out"})
}

// Me godoc
// @Summary      Current user
// @Description  Returns the signed in user
// @Produce      json
// @Tags         Auth
// @Success      200  {object}  models.User
// @Failure      401  {object}  responses.ErrorResponse
// @Router       /api/auth/me [get]
// @Security     OAuth2Password
func (controller *AuthController) Me(c echo.Context) error {
	user, err := controller.svc.FindUser(c.Request().Context(), userID(c))
	if err != nil {
		return serviceError(c, err)
	}
	if user.Deactivated {
		return c.JSON(http.StatusUnauthorized, responses.AccountDeactivatedError)
	}
	return ok(c, user)
}

func (controller *AuthController) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     controller.svc.Config.SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   controller.svc.Config.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
