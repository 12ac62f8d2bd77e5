package ports

import (
	"context"

	"github.com/spendsmart/expense-api/internal/core/domain"
)

// ExpenseInput carries the full set of user-editable expense fields, as
// received from the client. Date is the raw calendar-date string; it is
// validated and parsed by the service before any domain object is built.
type ExpenseInput struct {
	Title    string  `validate:"required,min=3"`
	Amount   float64 `validate:"required,gt=0"`
	Category string  `validate:"required,min=2"`
	Date     string  `validate:"required,datetime=2006-01-02"`
	Note     string  `validate:"omitempty"`
}

// ListExpensesInput carries all parameters for the list endpoint.
// Month is "YYYY-MM"; Sort is "asc" or "desc" (default desc).
type ListExpensesInput struct {
	UserID   string
	Category string
	Month    string
	Sort     string
	Page     int
	Limit    int
}

// ListExpensesResult is one page of expenses plus pagination metadata.
type ListExpensesResult struct {
	Expenses   []*domain.Expense
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// ExportExpensesInput carries the filter parameters for CSV export. It takes
// the same category/month/sort filters as listing but no pagination: the
// entire matching set is exported.
type ExportExpensesInput struct {
	UserID   string
	Category string
	Month    string
	Sort     string
}

// ExpenseService defines the use-case operations on expenses. All methods
// scope access to the given userID; mutations additionally require ownership.
type ExpenseService interface {
	Create(ctx context.Context, userID string, input ExpenseInput) (*domain.Expense, error)
	List(ctx context.Context, input ListExpensesInput) (*ListExpensesResult, error)
	Update(ctx context.Context, userID, id string, input ExpenseInput) (*domain.Expense, error)
	Delete(ctx context.Context, userID, id string) error
	// ExportCSV renders the matching expenses as CSV with a fixed column set:
	// title, amount, category, date.
	ExportCSV(ctx context.Context, input ExportExpensesInput) ([]byte, error)
}
