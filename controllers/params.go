package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/surau-digital/surauhub/lib/accounting"
)

// PeriodParams are the query parameters of the monthly reports.
type PeriodParams struct {
	Tahun  int    `query:"tahun" validate:"required,min=2000,max=2100"`
	Bulan  int    `query:"bulan" validate:"required,min=1,max=12"`
	Format string `query:"format" validate:"omitempty,oneof=json pdf"`
}

// YearParams are the query parameters of the annual reports and notes.
type YearParams struct {
	Tahun  int    `query:"tahun" validate:"required,min=2000,max=2100"`
	Format string `query:"format" validate:"omitempty,oneof=json pdf"`
}

type ListResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", c.Param("id"))
	}
	return id, nil
}

// optionalDecimal parses a form value, an empty value gives an invalid NullDecimal.
func optionalDecimal(value string) (decimal.NullDecimal, error) {
	if value == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func pdfAttachment(c echo.Context, name string, content []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "application/pdf", content)
}

type MonthlyBalancesResponse struct {
	Tahun    int                       `json:"tahun"`
	Months   []accounting.MonthBalance `json:"months"`
	Warnings []string                  `json:"warnings"`
}
