package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/surau-digital/surauhub/lib/responses"
	"github.com/surau-digital/surauhub/lib/service"
)

// TransactionController : categorization of statement lines
type TransactionController struct {
	svc *service.SurauService
}

func NewTransactionController(svc *service.SurauService) *TransactionController {
	return &TransactionController{svc: svc}
}

type ListTransactionsParams struct {
	StatementID int64  `query:"statement_id"`
	Year        int    `query:"year" validate:"omitempty,min=2000,max=2100"`
	Month       int    `query:"month" validate:"omitempty,min=1,max=12"`
	Type        string `query:"type" validate:"omitempty,oneof=uncategorized penerimaan pembayaran"`
	Search      string `query:"search"`
	Limit       int    `query:"limit" validate:"omitempty,min=1,max=1000"`
	Offset      int    `query:"offset" validate:"omitempty,min=0"`
}

type CategorizeRequestBody struct {
	TransactionType string `json:"transaction_type" validate:"required,oneof=uncategorized penerimaan pembayaran"`
	Category        string `json:"category"`
	SubCategory     string `json:"sub_category"`
	BulanPerkiraan  string `json:"bulan_perkiraan" validate:"omitempty,oneof=bulan_semasa bulan_depan bulan_sebelum"`
	Notes           string `json:"notes"`
}

// List godoc
// @Summary      List transactions
// @Produce      json
// @Tags         Financial
// @Param        statement_id  query     int     false  "Statement ID"
// @Param        year          query     int     false  "Transaction year"
// @Param        month         query     int     false  "Transaction month"
// @Param        type          query     string  false  "uncategorized, penerimaan or pembayaran"
// @Param        search        query     string  false  "Text in description, counterparty or payment details"
// @Param        limit         query     int     false  "Page size"
// @Param        offset        query     int     false  "Offset"
// @Success      200           {object}  ListResponse
// @Failure      400           {object}  responses.ErrorResponse
// @Router       /api/financial/transactions [get]
// @Security     OAuth2Password
func (controller *TransactionController) List(c echo.Context) error {
	var params ListTransactionsParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&params); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	transactions, total, err := controller.svc.ListTransactions(c.Request().Context(), service.TransactionFilter{
		StatementID: params.StatementID,
		Year:        params.Year,
		Month:       params.Month,
		Type:        params.Type,
		Search:      params.Search,
		Limit:       params.Limit,
		Offset:      params.Offset,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, ListResponse{Items: transactions, Total: total})
}

// Categorize godoc
// @Summary      Categorize a transaction
// @Description  Sets the type, category and accounting month of a transaction
// @Accept       json
// @Produce      json
// @Tags         Financial
// @Param        id    path      int                    true  "Transaction ID"
// @Param        body  body      CategorizeRequestBody  true  "Categorization"
// @Success      200   {object}  models.Transaction
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      404   {object}  responses.ErrorResponse
// @Router       /api/financial/transactions/{id} [put]
// @Security     OAuth2Password
func (controller *TransactionController) Categorize(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	var body CategorizeRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load categorize request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid categorize request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	transaction, err := controller.svc.CategorizeTransaction(c.Request().Context(), id, service.TransactionCategorization{
		TransactionType: body.TransactionType,
		Category:        body.Category,
		SubCategory:     body.SubCategory,
		BulanPerkiraan:  body.BulanPerkiraan,
		Notes:           body.Notes,
	}, userID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, transaction)
}

// Categories godoc
// @Summary      Category catalogue
// @Description  Default categories merged with those already in use
// @Produce      json
// @Tags         Financial
// @Success      200  {object}  service.CategoryCatalogue
// @Router       /api/financial/categories [get]
// @Security     OAuth2Password
func (controller *TransactionController) Categories(c echo.Context) error {
	catalogue, err := controller.svc.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, catalogue)
}
