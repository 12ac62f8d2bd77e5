package ports

import (
	"context"
	"time"

	"github.com/spendsmart/expense-api/internal/core/domain"
)

// ListExpensesFilter carries all query parameters for listing expenses.
// UserID is always set by the service layer from the authenticated identity;
// it is never taken from request input.
type ListExpensesFilter struct {
	UserID     string    // mandatory: owner equality filter
	Category   string    // optional: exact match
	MonthStart time.Time // optional: date >= MonthStart
	MonthEnd   time.Time // optional: date < MonthEnd (half-open interval)
	SortAsc    bool      // sort by date; default is descending
	Page       int       // 1-based; ignored by FindAll
	Limit      int       // rows per page; ignored by FindAll
}

// CategoryTotal is one grouped aggregation row: sum of amounts per category.
type CategoryTotal struct {
	Category string
	Total    float64
}

// MonthlyTotal is one grouped aggregation row keyed by calendar month.
// Formatting and ordering of the month key are owned by the service layer.
type MonthlyTotal struct {
	Year  int
	Month int
	Total float64
}

// ExpenseRepository defines persistence operations for expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, e *domain.Expense) (*domain.Expense, error)
	FindByID(ctx context.Context, id string) (*domain.Expense, error)
	// Update replaces all mutable fields of the expense with the given id.
	Update(ctx context.Context, id string, e *domain.Expense) (*domain.Expense, error)
	Delete(ctx context.Context, id string) error
	// List returns a page of expenses matching filter and the total count
	// ignoring pagination.
	List(ctx context.Context, filter ListExpensesFilter) ([]*domain.Expense, int64, error)
	// FindAll returns the entire sorted matching set (used by CSV export).
	FindAll(ctx context.Context, filter ListExpensesFilter) ([]*domain.Expense, error)
	// DeleteByUser removes every expense owned by userID (cascade on user delete).
	DeleteByUser(ctx context.Context, userID string) error

	Count(ctx context.Context) (int64, error)
	TotalsByCategory(ctx context.Context) ([]CategoryTotal, error)
	MonthlyTotals(ctx context.Context) ([]MonthlyTotal, error)
}
