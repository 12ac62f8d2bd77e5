package ports

import (
	"context"

	"github.com/spendsmart/expense-api/internal/core/domain"
)

// CategoryStat is the per-category aggregate exposed to admins.
type CategoryStat struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// MonthlyStat is the per-month aggregate; Month is zero-padded "YYYY-MM".
type MonthlyStat struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// StatsResult is the full cross-user statistics document.
type StatsResult struct {
	TotalUsers         int64          `json:"total_users"`
	TotalExpenses      int64          `json:"total_expenses"`
	ExpensesByCategory []CategoryStat `json:"expenses_by_category"`
	MonthlyTrends      []MonthlyStat  `json:"monthly_trends"`
}

// AdminService defines administrative operations. Role enforcement happens in
// the transport layer (RBAC middleware); these methods assume an admin caller.
type AdminService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	// DeleteUser removes the user and cascades deletion of their expenses.
	// The two deletes are not wrapped in a transaction.
	DeleteUser(ctx context.Context, id string) error
	Stats(ctx context.Context) (*StatsResult, error)
}
