package controllers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/surau-digital/surauhub/lib/responses"
	"github.com/surau-digital/surauhub/lib/service"
)

// ReportController : financial reports, as JSON or PDF
type ReportController struct {
	svc *service.SurauService
}

func NewReportController(svc *service.SurauService) *ReportController {
	return &ReportController{svc: svc}
}

func bindPeriod(c echo.Context) (*PeriodParams, bool) {
	var params PeriodParams
	if err := c.Bind(&params); err != nil {
		return nil, false
	}
	if err := c.Validate(&params); err != nil {
		return nil, false
	}
	return &params, true
}

func bindYear(c echo.Context) (*YearParams, bool) {
	var params YearParams
	if err := c.Bind(&params); err != nil {
		return nil, false
	}
	if err := c.Validate(&params); err != nil {
		return nil, false
	}
	return &params, true
}

// BukuTunai godoc
// @Summary      Cash book for one month
// @Description  Opening balance, attributed transactions with running balance and closing balance
// @Produce      json,application/pdf
// @Tags         Reports
// @Param        tahun   query     int     true   "Year"
// @Param        bulan   query     int     true   "Month"
// @Param        format  query     string  false  "json or pdf"
// @Success      200     {object}  service.BukuTunai
// @Failure      400     {object}  responses.ErrorResponse
// @Failure      401     {object}  responses.ErrorResponse
// @Failure      403     {object}  responses.ErrorResponse
// @Router       /api/financial/buku-tunai [get]
// @Security     OAuth2Password
func (controller *ReportController) BukuTunai(c echo.Context) error {
	params, valid := bindPeriod(c)
	if !valid {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	report, err := controller.svc.BukuTunai(c.Request().Context(), params.Tahun, params.Bulan)
	if err != nil {
		return serviceError(c, err)
	}
	if params.Format == "pdf" {
		content, err := controller.svc.BukuTunaiPDF(report)
		if err != nil {
			return err
		}
		return pdfAttachment(c, fmt.Sprintf("buku-tunai-%d-%02d.pdf", params.Tahun, params.Bulan), content)
	}
	return ok(c, report)
}

// PenyesuaianBank godoc
// @Summary      Bank reconciliation for one month
// @Produce      json,application/pdf
// @Tags         Reports
// @Param        tahun   query     int     true   "Year"
// @Param        bulan   query     int     true   "Month"
// @Param        format  query     string  false  "json or pdf"
// @Success      200     {object}  service.PenyesuaianBank
// @Failure      400     {object}  responses.ErrorResponse
// @Router       /api/financial/penyesuaian-bank [get]
// @Security     OAuth2Password
func (controller *ReportController) PenyesuaianBank(c echo.Context) error {
	params, valid := bindPeriod(c)
	if !valid {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	report, err := controller.svc.PenyesuaianBank(c.Request().Context(), params.Tahun, params.Bulan)
	if err != nil {
		return serviceError(c, err)
	}
	if params.Format == "pdf" {
		content, err := controller.svc.PenyesuaianBankPDF(report)
		if err != nil {
			return err
		}
		return pdfAttachment(c, fmt.Sprintf("penyesuaian-bank-%d-%02d.pdf", params.Tahun, params.Bulan), content)
	}
	return ok(c, report)
}

// PenyataTahunan godoc
// @Summary      Annual financial statement
// @Description  Receipts and payments by category for the year and the year before, with the monthly carry-forward table
// @Produce      json,application/pdf
// @Tags         Reports
// @Param        tahun   query     int     true   "Year"
// @Param        format  query     string  false  "json or pdf"
// @Success      200     {object}  service.PenyataTahunan
// @Failure      400     {object}  responses.ErrorResponse
// @Router       /api/financial/penyata-tahunan [get]
// @Security     OAuth2Password
func (controller *ReportController) PenyataTahunan(c echo.Context) error {
	params, valid := bindYear(c)
	if !valid {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	report, err := controller.svc.PenyataTahunan(c.Request().Context(), params.Tahun)
	if err != nil {
		return serviceError(c, err)
	}
	if params.Format == "pdf" {
		content, err := controller.svc.PenyataTahunanPDF(report)
		if err != nil {
			return err
		}
		return pdfAttachment(c, fmt.Sprintf("penyata-tahunan-%d.pdf", params.Tahun), content)
	}
	return ok(c, report)
}

// OpeningBalance godoc
// @Summary      Opening balance of a month
// @Description  The balance used to open the month, with the carried forward value it is checked against
// @Produce      json
// @Tags         Reports
// @Param        tahun  query     int  true  "Year"
// @Param        bulan  query     int  true  "Month"
// @Success      200    {object}  service.OpeningBalance
// @Failure      400    {object}  responses.ErrorResponse
// @Router       /api/financial/opening-balance [get]
// @Security     OAuth2Password
func (controller *ReportController) OpeningBalance(c echo.Context) error {
	params, valid := bindPeriod(c)
	if !valid {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	balance, err := controller.svc.OpeningBalance(c.Request().Context(), params.Tahun, params.Bulan)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, balance)
}

// MonthlyBalances godoc
// @Summary      Carry-forward table for a year
// @Produce      json
// @Tags         Reports
// @Param        tahun  query     int  true  "Year"
// @Success      200    {object}  MonthlyBalancesResponse
// @Failure      400    {object}  responses.ErrorResponse
// @Router       /api/financial/monthly-balances [get]
// @Security     OAuth2Password
func (controller *ReportController) MonthlyBalances(c echo.Context) error {
	params, valid := bindYear(c)
	if !valid {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	months, warnings, err := controller.svc.MonthlyBalances(c.Request().Context(), params.Tahun)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, MonthlyBalancesResponse{Tahun: params.Tahun, Months: months, Warnings: warnings})
}
