package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/surau-digital/surauhub/lib/responses"
	"github.com/surau-digital/surauhub/lib/service"
)

// NotaController : notes to the annual financial statement
type NotaController struct {
	svc *service.SurauService
}

func NewNotaController(svc *service.SurauService) *NotaController {
	return &NotaController{svc: svc}
}

// WithNotaKind stores the note kind served by a route group on the context.
func WithNotaKind(kind string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("NotaKind", kind)
			return next(c)
		}
	}
}

func notaKind(c echo.Context) string {
	kind, _ := c.Get("NotaKind").(string)
	return kind
}

type GenerateNotaRequestBody struct {
	Tahun int `json:"tahun" validate:"required,min=2000,max=2100"`
}

type NotaRowRequestBody struct {
	Tahun         int             `json:"tahun" validate:"omitempty,min=2000,max=2100"`
	Perkara       string          `json:"perkara" validate:"required"`
	JumlahSemasa  decimal.Decimal `json:"jumlah_semasa"`
	JumlahSebelum decimal.Decimal `json:"jumlah_sebelum"`
	Catatan       string          `json:"catatan"`
	Turutan       int             `json:"turutan" validate:"min=0"`
}

func (body *NotaRowRequestBody) input() service.NotaRowInput {
	return service.NotaRowInput{
		Tahun:         body.Tahun,
		Perkara:       body.Perkara,
		JumlahSemasa:  body.JumlahSemasa,
		JumlahSebelum: body.JumlahSebelum,
		Catatan:       body.Catatan,
		Turutan:       body.Turutan,
	}
}

// Kinds godoc
// @Summary      Note kinds
// @Produce      json
// @Tags         Notes
// @Success      200  {object}  []service.NotaKind
// @Router       /api/financial/nota [get]
// @Security     OAuth2Password
func (controller *NotaController) Kinds(c echo.Context) error {
	return ok(c, service.NotaKinds())
}

// Get godoc
// @Summary      Rows of one note for a year
// @Produce      json,application/pdf
// @Tags         Notes
// @Param        kind    path      string  true   "aset, khidmat-sosial, pentadbiran, hasil-sewaan or sumbangan-khas"
// @Param        tahun   query     int     true   "Year"
// @Param        format  query     string  false  "json or pdf"
// @Success      200     {object}  service.Nota
// @Failure      400     {object}  responses.ErrorResponse
// @Router       /api/financial/nota-{kind} [get]
// @Security     OAuth2Password
func (controller *NotaController) Get(c echo.Context) error {
	params, valid := bindYear(c)
	if !valid {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	nota, err := controller.svc.GetNota(c.Request().Context(), notaKind(c), params.Tahun)
	if err != nil {
		return serviceError(c, err)
	}
	if params.Format == "pdf" {
		content, err := controller.svc.NotaPDF(nota)
		if err != nil {
			return err
		}
		return pdfAttachment(c, fmt.Sprintf("nota-%s-%d.pdf", nota.Kind, nota.Tahun), content)
	}
	return ok(c, nota)
}

// Generate godoc
// @Summary      Generate a note from the categorized transactions
// @Description  Replaces the auto generated rows of the year. Rows edited by hand are kept.
// @Accept       json
// @Produce      json
// @Tags         Notes
// @Param        kind  path      string                   true  "Note kind"
// @Param        body  body      GenerateNotaRequestBody  true  "Year"
// @Success      200   {object}  service.Nota
// @Failure      400   {object}  responses.ErrorResponse
// @Router       /api/financial/nota-{kind} [post]
// @Security     OAuth2Password
func (controller *NotaController) Generate(c echo.Context) error {
	var body GenerateNotaRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load generate nota request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	nota, err := controller.svc.GenerateNota(c.Request().Context(), notaKind(c), body.Tahun, userID(c))
	if err != nil {
		c.Logger().Errorf("Failed to generate nota %s/%d: %v", notaKind(c), body.Tahun, err)
		return serviceError(c, err)
	}
	return ok(c, nota)
}

// CreateRow godoc
// @Summary      Add a row by hand
// @Accept       json
// @Produce      json
// @Tags         Notes
// @Param        kind  path      string              true  "Note kind"
// @Param        body  body      NotaRowRequestBody  true  "Row"
// @Success      201   {object}  models.NotaRow
// @Failure      400   {object}  responses.ErrorResponse
// @Router       /api/financial/nota-{kind}/rows [post]
// @Security     OAuth2Password
func (controller *NotaController) CreateRow(c echo.Context) error {
	var body NotaRowRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load nota row request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil || body.Tahun == 0 {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	row, err := controller.svc.CreateNotaRow(c.Request().Context(), notaKind(c), body.input())
	if err != nil {
		return serviceError(c, err)
	}
	return created(c, row)
}

// UpdateRow godoc
// @Summary      Edit a row
// @Description  The row becomes manual and is no longer touched by generation
// @Accept       json
// @Produce      json
// @Tags         Notes
// @Param        kind  path      string              true  "Note kind"
// @Param        id    path      int                 true  "Row ID"
// @Param        body  body      NotaRowRequestBody  true  "Row"
// @Success      200   {object}  models.NotaRow
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      404   {object}  responses.ErrorResponse
// @Router       /api/financial/nota-{kind}/{id} [put]
// @Security     OAuth2Password
func (controller *NotaController) UpdateRow(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	var body NotaRowRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load nota row request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	row, err := controller.svc.UpdateNotaRow(c.Request().Context(), notaKind(c), id, body.input())
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, row)
}

// DeleteRow godoc
// @Summary      Delete one row
// @Produce      json
// @Tags         Notes
// @Param        kind  path      string  true  "Note kind"
// @Param        id    path      int     true  "Row ID"
// @Success      200   {object}  responses.DataResponse
// @Failure      404   {object}  responses.ErrorResponse
// @Router       /api/financial/nota-{kind}/{id} [delete]
// @Security     OAuth2Password
func (controller *NotaController) DeleteRow(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := controller.svc.DeleteNotaRow(c.Request().Context(), notaKind(c), id); err != nil {
		return serviceError(c, err)
	}
	return ok(c, map[string]int64{"deleted": id})
}

// DeleteYear godoc
// @Summary      Delete every row of a year
// @Produce      json
// @Tags         Notes
// @Param        kind   path      string  true  "Note kind"
// @Param        tahun  query     int     true  "Year"
// @Success      200    {object}  responses.DataResponse
// @Failure      400    {object}  responses.ErrorResponse
// @Router       /api/financial/nota-{kind} [delete]
// @Security     OAuth2Password
func (controller *NotaController) DeleteYear(c echo.Context) error {
	tahun, err := strconv.Atoi(c.QueryParam("tahun"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	deleted, err := controller.svc.DeleteNotaYear(c.Request().Context(), notaKind(c), tahun)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, map[string]int64{"deleted": deleted})
}
