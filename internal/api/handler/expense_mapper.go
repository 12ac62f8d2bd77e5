package handler

import (
	"github.com/spendsmart/expense-api/internal/core/domain"
	"github.com/spendsmart/expense-api/internal/core/ports"
)

const dateLayout = "2006-01-02"

// --- Request → Service input ---

func toExpenseInput(req expenseRequest) ports.ExpenseInput {
	return ports.ExpenseInput{
		Title:    req.Title,
		Amount:   req.Amount,
		Category: req.Category,
		Date:     req.Date,
		Note:     req.Note,
	}
}

// --- Service result → HTTP response ---

func toExpenseResponse(e *domain.Expense) expenseResponse {
	return expenseResponse{
		ID:        e.ID,
		Title:     e.Title,
		Amount:    e.Amount,
		Category:  e.Category,
		Date:      e.Date.UTC().Format(dateLayout),
		Note:      e.Note,
		CreatedAt: e.CreatedAt.UTC(),
		UpdatedAt: e.UpdatedAt.UTC(),
	}
}

func toListResponse(r *ports.ListExpensesResult) listExpensesResponse {
	data := make([]expenseResponse, 0, len(r.Expenses))
	for _, e := range r.Expenses {
		data = append(data, toExpenseResponse(e))
	}
	return listExpensesResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}
