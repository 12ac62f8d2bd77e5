package handler

import (
	"time"

	"github.com/spendsmart/expense-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// validationErrorResponse carries the per-field error list on 400 responses.
type validationErrorResponse struct {
	Errors []domain.FieldError `json:"errors"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Request / Response types ---

// expenseRequest is the full editable field set, used for both create and
// full update. Constraint checks run in the service's validation layer.
type expenseRequest struct {
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Note     string  `json:"note"`
}

// expenseResponse is the transport view of one expense. Date carries no
// time-of-day and is rendered as a plain calendar date.
type expenseResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Date      string    `json:"date"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listExpensesResponse struct {
	Data       []expenseResponse  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
