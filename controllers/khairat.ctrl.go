package controllers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/surau-digital/surauhub/lib/responses"
	"github.com/surau-digital/surauhub/lib/service"
)

// KhairatController : death-benefit scheme membership
type KhairatController struct {
	svc *service.SurauService
}

func NewKhairatController(svc *service.SurauService) *KhairatController {
	return &KhairatController{svc: svc}
}

type DependentRequestBody struct {
	Nama     string `json:"nama" validate:"required"`
	NoKp     string `json:"no_kp"`
	Hubungan string `json:"hubungan" validate:"required"`
}

type KhairatApplicationRequestBody struct {
	Nama       string                 `json:"nama" validate:"required"`
	NoKp       string                 `json:"no_kp" validate:"required"`
	NoTelefon  string                 `json:"no_telefon"`
	Alamat     string                 `json:"alamat"`
	Dependents []DependentRequestBody `json:"dependents" validate:"dive"`
}

type ReplaceDependentsRequestBody struct {
	Dependents []DependentRequestBody `json:"dependents" validate:"dive"`
}

type RejectKhairatRequestBody struct {
	Reason string `json:"reason" validate:"required"`
}

type ListKhairatParams struct {
	Status string `query:"status" validate:"omitempty,oneof=pending approved rejected"`
	Search string `query:"search"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

func dependentInputs(bodies []DependentRequestBody) []service.DependentInput {
	inputs := make([]service.DependentInput, 0, len(bodies))
	for _, d := range bodies {
		inputs = append(inputs, service.DependentInput{Nama: d.Nama, NoKp: d.NoKp, Hubungan: d.Hubungan})
	}
	return inputs
}

// Apply godoc
// @Summary      Apply for khairat membership
// @Description  Public application form. The member stays pending until approved.
// @Accept       json
// @Produce      json
// @Tags         Khairat
// @Param        application  body      KhairatApplicationRequestBody  true  "Application"
// @Success      201          {object}  models.KhairatMember
// @Failure      400          {object}  responses.ErrorResponse
// @Failure      500          {object}  responses.ErrorResponse
// @Router       /api/khairat/apply [post]
func (controller *KhairatController) Apply(c echo.Context) error {
	var body KhairatApplicationRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load khairat application: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid khairat application: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	member, err := controller.svc.ApplyKhairat(c.Request().Context(), service.KhairatApplication{
		Nama:       body.Nama,
		NoKp:       body.NoKp,
		NoTelefon:  body.NoTelefon,
		Alamat:     body.Alamat,
		Dependents: dependentInputs(body.Dependents),
	})
	if err != nil {
		return serviceError(c, err)
	}
	return created(c, member)
}

// List godoc
// @Summary      List khairat members
// @Produce      json
// @Tags         Khairat
// @Param        status  query     string  false  "pending, approved or rejected"
// @Param        search  query     string  false  "Name, identity card or member number"
// @Param        limit   query     int     false  "Page size"
// @Param        offset  query     int     false  "Offset"
// @Success      200     {object}  ListResponse
// @Failure      400     {object}  responses.ErrorResponse
// @Router       /api/khairat [get]
// @Security     OAuth2Password
func (controller *KhairatController) List(c echo.Context) error {
	var params ListKhairatParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&params); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	members, total, err := controller.svc.ListKhairat(c.Request().Context(), service.KhairatFilter{
		Status: params.Status,
		Search: params.Search,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, ListResponse{Items: members, Total: total})
}

// Get godoc
// @Summary      Get a khairat member with dependents
// @Produce      json
// @Tags         Khairat
// @Param        id   path      int  true  "Member ID"
// @Success      200  {object}  models.KhairatMember
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /api/khairat/{id} [get]
// @Security     OAuth2Password
func (controller *KhairatController) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	member, err := controller.svc.FindKhairat(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, member)
}

// Approve godoc
// @Summary      Approve a pending application
// @Produce      json
// @Tags         Khairat
// @Param        id   path      int  true  "Member ID"
// @Success      200  {object}  models.KhairatMember
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /api/khairat/{id}/approve [post]
// @Security     OAuth2Password
func (controller *KhairatController) Approve(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	member, err := controller.svc.ApproveKhairat(c.Request().Context(), id, userID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, member)
}

// Reject godoc
// @Summary      Reject a pending application
// @Accept       json
// @Produce      json
// @Tags         Khairat
// @Param        id    path      int                       true  "Member ID"
// @Param        body  body      RejectKhairatRequestBody  true  "Reason"
// @Success      200   {object}  models.KhairatMember
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      404   {object}  responses.ErrorResponse
// @Router       /api/khairat/{id}/reject [post]
// @Security     OAuth2Password
func (controller *KhairatController) Reject(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	var body RejectKhairatRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.NewError(http.StatusBadRequest, "reason is required"))
	}
	member, err := controller.svc.RejectKhairat(c.Request().Context(), id, body.Reason, userID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, member)
}

// ReplaceDependents godoc
// @Summary      Replace the dependents of a member
// @Accept       json
// @Produce      json
// @Tags         Khairat
// @Param        id    path      int                           true  "Member ID"
// @Param        body  body      ReplaceDependentsRequestBody  true  "Dependents"
// @Success      200   {object}  models.KhairatMember
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      404   {object}  responses.ErrorResponse
// @Router       /api/khairat/{id}/dependents [put]
// @Security     OAuth2Password
func (controller *KhairatController) ReplaceDependents(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	var body ReplaceDependentsRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	member, err := controller.svc.ReplaceDependents(c.Request().Context(), id, dependentInputs(body.Dependents))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, member)
}

// Delete godoc
// @Summary      Delete a member and the dependents
// @Produce      json
// @Tags         Khairat
// @Param        id   path      int  true  "Member ID"
// @Success      200  {object}  responses.DataResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /api/khairat/{id} [delete]
// @Security     OAuth2Password
func (controller *KhairatController) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := controller.svc.DeleteKhairat(c.Request().Context(), id); err != nil {
		return serviceError(c, err)
	}
	return ok(c, map[string]int64{"deleted": id})
}

// Upload godoc
// @Summary      Import members from an Excel sheet
// @Description  Rows that cannot be read are skipped and reported. The import is a single transaction.
// @Accept       mpfd
// @Produce      json
// @Tags         Khairat
// @Param        file  formData  file  true  "Excel workbook (.xlsx)"
// @Success      200   {object}  service.KhairatImportResult
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      500   {object}  responses.ErrorResponse
// @Router       /api/khairat/upload-excel [post]
// @Security     OAuth2Password
func (controller *KhairatController) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.NewError(http.StatusBadRequest, "file is required"))
	}
	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".xlsx" && ext != ".xlsm" {
		return c.JSON(http.StatusBadRequest, responses.NewError(http.StatusBadRequest, "only .xlsx workbooks are accepted"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	result, err := controller.svc.ImportKhairat(c.Request().Context(), file, fileHeader.Filename, userID(c))
	if err != nil {
		c.Logger().Errorf("Failed to import khairat workbook %s: %v", fileHeader.Filename, err)
		return serviceError(c, err)
	}
	return ok(c, result)
}
