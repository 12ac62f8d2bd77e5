package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/spendsmart/expense-api/internal/api/metrics"
	"github.com/spendsmart/expense-api/internal/core/domain"
	"github.com/spendsmart/expense-api/internal/core/ports"
)

// ExpenseHandler handles HTTP requests for expense operations.
type ExpenseHandler struct {
	service ports.ExpenseService
}

func NewExpenseHandler(service ports.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// List handles GET /v1/expenses.
//
// @Summary      List the caller's expenses (filtered, paginated)
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        page      query  int     false  "Page number (default 1)"
// @Param        limit     query  int     false  "Page size (default 10, max 100)"
// @Param        category  query  string  false  "Exact category match"
// @Param        month     query  string  false  "Calendar month filter (YYYY-MM)"
// @Param        sort      query  string  false  "Sort by date: asc or desc (default desc)"
// @Success      200  {object}  listExpensesResponse
// @Failure      400  {object}  validationErrorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/expenses [get]
func (h *ExpenseHandler) List(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	// Non-numeric page/limit values are normalized to the service defaults.
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), ports.ListExpensesInput{
		UserID:   userID,
		Category: c.QueryParam("category"),
		Month:    c.QueryParam("month"),
		Sort:     c.QueryParam("sort"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, validationErrorResponse{Errors: ve.Fields})
		}
		return err
	}

	return c.JSON(http.StatusOK, toListResponse(result))
}

// Create handles POST /v1/expenses.
//
// @Summary      Create a new expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      expenseRequest  true  "Expense fields"
// @Success      201   {object}  expenseResponse
// @Failure      400   {object}  validationErrorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/expenses [post]
func (h *ExpenseHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req expenseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	expense, err := h.service.Create(c.Request().Context(), userID, toExpenseInput(req))
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, validationErrorResponse{Errors: ve.Fields})
		}
		return err
	}

	metrics.ExpensesCreatedTotal.WithLabelValues(expense.Category).Inc()
	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// Update handles PUT /v1/expenses/:id — full replacement of all fields.
//
// @Summary      Update an expense (owner only)
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Expense id"
// @Param        body  body      expenseRequest  true  "Replacement fields"
// @Success      200   {object}  expenseResponse
// @Failure      400   {object}  validationErrorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/expenses/{id} [put]
func (h *ExpenseHandler) Update(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req expenseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	expense, err := h.service.Update(c.Request().Context(), userID, c.Param("id"), toExpenseInput(req))
	if err != nil {
		return h.mutationError(c, err)
	}

	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// Delete handles DELETE /v1/expenses/:id.
//
// @Summary      Delete an expense (owner only)
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Expense id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return h.mutationError(c, err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "expense deleted"})
}

// Export handles GET /v1/expenses/export — the whole matching set as CSV,
// same filters as List but no pagination.
//
// @Summary      Export the caller's expenses as CSV
// @Tags         expenses
// @Produce      text/csv
// @Security     BearerAuth
// @Param        category  query  string  false  "Exact category match"
// @Param        month     query  string  false  "Calendar month filter (YYYY-MM)"
// @Param        sort      query  string  false  "Sort by date: asc or desc (default desc)"
// @Success      200  {string}  string  "CSV attachment expenses.csv"
// @Failure      500  {object}  errorResponse
// @Router       /v1/expenses/export [get]
func (h *ExpenseHandler) Export(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	data, err := h.service.ExportCSV(c.Request().Context(), ports.ExportExpensesInput{
		UserID:   userID,
		Category: c.QueryParam("category"),
		Month:    c.QueryParam("month"),
		Sort:     c.QueryParam("sort"),
	})
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, validationErrorResponse{Errors: ve.Fields})
		}
		return err
	}

	metrics.CSVExportsTotal.Inc()
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="expenses.csv"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}

// mutationError maps the guard failures shared by Update and Delete.
func (h *ExpenseHandler) mutationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrExpenseNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "expense not found"})
	case errors.Is(err, domain.ErrForbidden):
		return c.JSON(http.StatusForbidden, errorResponse{Error: "not authorized to modify this expense"})
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, validationErrorResponse{Errors: ve.Fields})
	}
	return err
}
