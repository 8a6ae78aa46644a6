package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/surau-digital/surauhub/lib/responses"
	"github.com/surau-digital/surauhub/lib/service"
)

// UserController : user administration
type UserController struct {
	svc *service.SurauService
}

func NewUserController(svc *service.SurauService) *UserController {
	return &UserController{svc: svc}
}

type CreateUserRequestBody struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"`
	Role     string `json:"role" validate:"required,oneof=admin bendahari head_imam staff"`
}

type UpdateUserRequestBody struct {
	Deactivated *bool `json:"deactivated" validate:"required"`
}

// CreateUser godoc
// @Summary      Create an account
// @Description  Create a staff account with a role
// @Accept       json
// @Produce      json
// @Tags         Users
// @Param        account  body      CreateUserRequestBody  true  "Create User"
// @Success      201      {object}  models.User
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      401      {object}  responses.ErrorResponse
// @Failure      403      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /api/users [post]
// @Security     OAuth2Password
func (controller *UserController) CreateUser(c echo.Context) error {
	var body CreateUserRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create user request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid create user request body error: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	user, err := controller.svc.CreateUser(c.Request().Context(), body.Username, body.Password, body.Name, body.Role)
	if err != nil {
		c.Logger().Errorf("Failed to create user: %v", err)
		return serviceError(c, err)
	}
	return created(c, user)
}

// ListUsers godoc
// @Summary      List accounts
// @Produce      json
// @Tags         Users
// @Success      200  {object}  []models.User
// @Failure      401  {object}  responses.ErrorResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Router       /api/users [get]
// @Security     OAuth2Password
func (controller *UserController) ListUsers(c echo.Context) error {
	users, err := controller.svc.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, users)
}

// UpdateUser godoc
// @Summary      Activate or deactivate an account
// @Accept       json
// @Produce      json
// @Tags         Users
// @Param        id       path      int                    true  "User ID"
// @Param        account  body      UpdateUserRequestBody  true  "Update User"
// @Success      200      {object}  models.User
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /api/users/{id} [put]
// @Security     OAuth2Password
func (controller *UserController) UpdateUser(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	var body UpdateUserRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load update user request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if id == userID(c) && *body.Deactivated {
		return c.JSON(http.StatusBadRequest, responses.NewError(http.StatusBadRequest, "you cannot deactivate your own account"))
	}
	user, err := controller.svc.SetUserDeactivated(c.Request().Context(), id, *body.Deactivated)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, user)
}
