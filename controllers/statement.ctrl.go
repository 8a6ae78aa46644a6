package controllers

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/surau-digital/surauhub/lib/responses"
	"github.com/surau-digital/surauhub/lib/service"
)

// StatementController : bank statement uploads
type StatementController struct {
	svc *service.SurauService
}

func NewStatementController(svc *service.SurauService) *StatementController {
	return &StatementController{svc: svc}
}

type UploadStatementForm struct {
	Month          int    `form:"month" validate:"required,min=1,max=12"`
	Year           int    `form:"year" validate:"required,min=2000,max=2100"`
	OpeningBalance string `form:"opening_balance" validate:"omitempty,numeric"`
}

type UpdateStatementRequestBody struct {
	OpeningBalance     string `json:"opening_balance" validate:"omitempty,numeric"`
	ClosingBalanceBank string `json:"closing_balance_bank" validate:"omitempty,numeric"`
}

// Upload godoc
// @Summary      Upload a bank statement
// @Description  Imports a bank statement CSV for one month. Rows with an unreadable date are skipped and reported.
// @Accept       mpfd
// @Produce      json
// @Tags         Financial
// @Param        file             formData  file    true   "Statement CSV"
// @Param        month            formData  int     true   "Month"
// @Param        year             formData  int     true   "Year"
// @Param        opening_balance  formData  string  false  "Opening balance"
// @Success      201              {object}  service.StatementImportResult
// @Failure      400              {object}  responses.ErrorResponse
// @Failure      401              {object}  responses.ErrorResponse
// @Failure      403              {object}  responses.ErrorResponse
// @Failure      500              {object}  responses.ErrorResponse
// @Router       /api/financial/statements [post]
// @Security     OAuth2Password
func (controller *StatementController) Upload(c echo.Context) error {
	var form UploadStatementForm
	if err := c.Bind(&form); err != nil {
		c.Logger().Errorf("Failed to load statement upload form: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&form); err != nil {
		c.Logger().Errorf("Invalid statement upload form: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	opening, err := optionalDecimal(form.OpeningBalance)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.NewError(http.StatusBadRequest, "file is required"))
	}
	if ext := filepath.Ext(fileHeader.Filename); ext != ".csv" && ext != ".CSV" {
		return c.JSON(http.StatusBadRequest, responses.NewError(http.StatusBadRequest, "only CSV statements are accepted"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	result, err := controller.svc.ImportStatement(c.Request().Context(), service.StatementUpload{
		Month:          form.Month,
		Year:           form.Year,
		OpeningBalance: opening,
		FileName:       fileHeader.Filename,
		Content:        file,
		UploadedBy:     userID(c),
	})
	if err != nil {
		c.Logger().Errorf("Failed to import statement %d/%d: %v", form.Month, form.Year, err)
		return serviceError(c, err)
	}
	return created(c, result)
}

// List godoc
// @Summary      List bank statements
// @Produce      json
// @Tags         Financial
// @Param        year  query     int  false  "Year"
// @Success      200   {object}  []models.BankStatement
// @Failure      401   {object}  responses.ErrorResponse
// @Failure      403   {object}  responses.ErrorResponse
// @Router       /api/financial/statements [get]
// @Security     OAuth2Password
func (controller *StatementController) List(c echo.Context) error {
	year := 0
	if raw := c.QueryParam("year"); raw != "" {
		var err error
		if year, err = strconv.Atoi(raw); err != nil {
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
	}
	statements, err := controller.svc.ListStatements(c.Request().Context(), year)
	if err != nil {
		return err
	}
	return ok(c, statements)
}

// Get godoc
// @Summary      Get a bank statement with its transactions
// @Produce      json
// @Tags         Financial
// @Param        id   path      int  true  "Statement ID"
// @Success      200  {object}  models.BankStatement
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /api/financial/statements/{id} [get]
// @Security     OAuth2Password
func (controller *StatementController) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	stmt, err := controller.svc.FindStatement(c.Request().Context(), id, true)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, stmt)
}

// Update godoc
// @Summary      Set the opening and bank closing balance of a statement
// @Accept       json
// @Produce      json
// @Tags         Financial
// @Param        id         path      int                         true  "Statement ID"
// @Param        balances   body      UpdateStatementRequestBody  true  "Balances, empty clears"
// @Success      200        {object}  models.BankStatement
// @Failure      400        {object}  responses.ErrorResponse
// @Failure      404        {object}  responses.ErrorResponse
// @Router       /api/financial/statements/{id} [put]
// @Security     OAuth2Password
func (controller *StatementController) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	var body UpdateStatementRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load update statement request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	opening, err := optionalDecimal(body.OpeningBalance)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	closing, err := optionalDecimal(body.ClosingBalanceBank)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	stmt, err := controller.svc.UpdateStatementBalances(c.Request().Context(), id, service.StatementBalances{
		OpeningBalance:     opening,
		ClosingBalanceBank: closing,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, stmt)
}

// Delete godoc
// @Summary      Delete a bank statement and its transactions
// @Produce      json
// @Tags         Financial
// @Param        id   path      int  true  "Statement ID"
// @Success      200  {object}  responses.DataResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /api/financial/statements/{id} [delete]
// @Security     OAuth2Password
func (controller *StatementController) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := controller.svc.DeleteStatement(c.Request().Context(), id, userID(c)); err != nil {
		return serviceError(c, err)
	}
	return ok(c, map[string]int64{"deleted": id})
}

// Download godoc
// @Summary      Download the uploaded statement file
// @Produce      octet-stream
// @Tags         Financial
// @Param        id   path      int  true  "Statement ID"
// @Success      200  {file}    file
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /api/financial/statements/{id}/file [get]
// @Security     OAuth2Password
func (controller *StatementController) Download(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	stmt, file, err := controller.svc.StatementFile(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	defer file.Close()
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+strconv.Quote(stmt.FileName))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().WriteHeader(http.StatusOK)
	_, err = io.Copy(c.Response(), file)
	return err
}
