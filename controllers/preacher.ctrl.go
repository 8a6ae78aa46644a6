package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/surau-digital/surauhub/lib/responses"
	"github.com/surau-digital/surauhub/lib/service"
)

// PreacherController : preachers and the talk schedule
type PreacherController struct {
	svc *service.SurauService
}

func NewPreacherController(svc *service.SurauService) *PreacherController {
	return &PreacherController{svc: svc}
}

type CreatePreacherRequestBody struct {
	Nama      string `json:"nama" validate:"required"`
	NoTelefon string `json:"no_telefon"`
	Bidang    string `json:"bidang"`
}

type UpdatePreacherRequestBody struct {
	Active *bool `json:"active" validate:"required"`
}

type ScheduleParams struct {
	Tahun int `query:"tahun" validate:"required,min=2000,max=2100"`
	Bulan int `query:"bulan" validate:"omitempty,min=1,max=12"`
}

type ScheduleEntry struct {
	// Tarikh is YYYY-MM-DD
	Tarikh     string `json:"tarikh" validate:"required"`
	Slot       string `json:"slot" validate:"required"`
	PreacherID int64  `json:"preacher_id" validate:"required"`
	Topik      string `json:"topik"`
	Catatan    string `json:"catatan"`
}

type BulkScheduleRequestBody struct {
	Schedules []ScheduleEntry `json:"schedules" validate:"required,min=1,dive"`
}

// ListPreachers godoc
// @Summary      List preachers
// @Produce      json
// @Tags         Preachers
// @Param        active  query     bool  false  "Only active preachers"
// @Success      200     {object}  []models.Preacher
// @Router       /api/preachers [get]
// @Security     OAuth2Password
func (controller *PreacherController) ListPreachers(c echo.Context) error {
	preachers, err := controller.svc.ListPreachers(c.Request().Context(), c.QueryParam("active") == "true")
	if err != nil {
		return err
	}
	return ok(c, preachers)
}

// CreatePreacher godoc
// @Summary      Add a preacher
// @Accept       json
// @Produce      json
// @Tags         Preachers
// @Param        preacher  body      CreatePreacherRequestBody  true  "Preacher"
// @Success      201       {object}  models.Preacher
// @Failure      400       {object}  responses.ErrorResponse
// @Router       /api/preachers [post]
// @Security     OAuth2Password
func (controller *PreacherController) CreatePreacher(c echo.Context) error {
	var body CreatePreacherRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create preacher request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	preacher, err := controller.svc.CreatePreacher(c.Request().Context(), body.Nama, body.NoTelefon, body.Bidang)
	if err != nil {
		return serviceError(c, err)
	}
	return created(c, preacher)
}

// UpdatePreacher godoc
// @Summary      Activate or deactivate a preacher
// @Accept       json
// @Produce      json
// @Tags         Preachers
// @Param        id    path      int                        true  "Preacher ID"
// @Param        body  body      UpdatePreacherRequestBody  true  "Active flag"
// @Success      200   {object}  models.Preacher
// @Failure      404   {object}  responses.ErrorResponse
// @Router       /api/preachers/{id} [put]
// @Security     OAuth2Password
func (controller *PreacherController) UpdatePreacher(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	var body UpdatePreacherRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	preacher, err := controller.svc.SetPreacherActive(c.Request().Context(), id, *body.Active)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, preacher)
}

// ListSchedules godoc
// @Summary      Talk schedule of a month or a year
// @Produce      json
// @Tags         Preachers
// @Param        tahun  query     int  true   "Year"
// @Param        bulan  query     int  false  "Month, whole year when left out"
// @Success      200    {object}  []models.PreacherSchedule
// @Failure      400    {object}  responses.ErrorResponse
// @Router       /api/preacher-schedules [get]
// @Security     OAuth2Password
func (controller *PreacherController) ListSchedules(c echo.Context) error {
	var params ScheduleParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&params); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	schedules, err := controller.svc.ListSchedules(c.Request().Context(), params.Tahun, params.Bulan)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, schedules)
}

// BulkSchedules godoc
// @Summary      Create or overwrite many schedule slots
// @Description  All entries are written in one transaction. A taken slot is overwritten.
// @Accept       json
// @Produce      json
// @Tags         Preachers
// @Param        body  body      BulkScheduleRequestBody  true  "Schedule entries"
// @Success      200   {object}  []models.PreacherSchedule
// @Failure      400   {object}  responses.ErrorResponse
// @Router       /api/preacher-schedules/bulk [post]
// @Security     OAuth2Password
func (controller *PreacherController) BulkSchedules(c echo.Context) error {
	var body BulkScheduleRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load schedule request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid schedule request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	inputs := make([]service.ScheduleInput, 0, len(body.Schedules))
	for _, entry := range body.Schedules {
		tarikh, err := time.Parse("2006-01-02", entry.Tarikh)
		if err != nil {
			return c.JSON(http.StatusBadRequest, responses.NewError(http.StatusBadRequest, "tarikh must be YYYY-MM-DD"))
		}
		inputs = append(inputs, service.ScheduleInput{
			Tarikh:     tarikh,
			Slot:       entry.Slot,
			PreacherID: entry.PreacherID,
			Topik:      entry.Topik,
			Catatan:    entry.Catatan,
		})
	}
	schedules, err := controller.svc.UpsertSchedules(c.Request().Context(), inputs)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, schedules)
}

// DeleteSchedule godoc
// @Summary      Delete one schedule slot
// @Produce      json
// @Tags         Preachers
// @Param        id   path      int  true  "Schedule ID"
// @Success      200  {object}  responses.DataResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /api/preacher-schedules/{id} [delete]
// @Security     OAuth2Password
func (controller *PreacherController) DeleteSchedule(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := controller.svc.DeleteSchedule(c.Request().Context(), id); err != nil {
		return serviceError(c, err)
	}
	return ok(c, map[string]int64{"deleted": id})
}
