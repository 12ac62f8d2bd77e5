package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/spendsmart/expense-api/internal/core/domain"
	"github.com/spendsmart/expense-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return nil, domain.ErrUserExists
		}
	}
	clone := *u
	if clone.ID == "" {
		clone.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	r.users[clone.ID] = &clone
	return &clone, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		clone.PasswordHash = ""
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

type stubStatsCache struct {
	stored *ports.StatsResult
	getErr error
	setErr error
	gets   int
	sets   int
}

func (c *stubStatsCache) Get(_ context.Context) (*ports.StatsResult, error) {
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.stored, nil
}

func (c *stubStatsCache) Set(_ context.Context, stats *ports.StatsResult) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.stored = stats
	return nil
}

func expenseOn(userID, category string, amount float64, date string) *domain.Expense {
	d, _ := time.ParseInLocation("2006-01-02", date, time.UTC)
	return &domain.Expense{UserID: userID, Category: category, Amount: amount, Date: d, Title: "seeded"}
}

// ---------------------------------------------------------------------------
// Stats tests
// ---------------------------------------------------------------------------

func TestAdminService_Stats_Counts(t *testing.T) {
	users := newStubUserRepo(
		&domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser},
		&domain.User{ID: "u2", Username: "bob", Role: domain.RoleAdmin},
	)
	expenses := newStubExpenseRepo()
	_, _ = expenses.Create(context.Background(), expenseOn("u1", "food", 10, "2024-01-15"))
	_, _ = expenses.Create(context.Background(), expenseOn("u2", "food", 20, "2024-01-20"))

	svc := NewAdminService(users, expenses, nil, discardLogger)
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalUsers != 2 {
		t.Errorf("total_users = %d, want 2", stats.TotalUsers)
	}
	if stats.TotalExpenses != 2 {
		t.Errorf("total_expenses = %d, want 2", stats.TotalExpenses)
	}
}

func TestAdminService_Stats_CategoryTotalsSorted(t *testing.T) {
	users := newStubUserRepo()
	expenses := newStubExpenseRepo()
	_, _ = expenses.Create(context.Background(), expenseOn("u1", "food", 10, "2024-01-15"))
	_, _ = expenses.Create(context.Background(), expenseOn("u2", "food", 20, "2024-02-15"))
	_, _ = expenses.Create(context.Background(), expenseOn("u1", "transport", 5, "2024-03-15"))

	svc := NewAdminService(users, expenses, nil, discardLogger)
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []ports.CategoryStat{
		{Category: "food", Total: 30},
		{Category: "transport", Total: 5},
	}
	if len(stats.ExpensesByCategory) != len(want) {
		t.Fatalf("got %d categories, want %d", len(stats.ExpensesByCategory), len(want))
	}
	for i, w := range want {
		if stats.ExpensesByCategory[i] != w {
			t.Errorf("category[%d] = %+v, want %+v", i, stats.ExpensesByCategory[i], w)
		}
	}
}

func TestAdminService_Stats_MonthlyTrendsGroupedAndPadded(t *testing.T) {
	users := newStubUserRepo()
	expenses := newStubExpenseRepo()
	_, _ = expenses.Create(context.Background(), expenseOn("u1", "food", 10, "2024-01-15"))
	_, _ = expenses.Create(context.Background(), expenseOn("u1", "food", 20, "2024-01-20"))
	_, _ = expenses.Create(context.Background(), expenseOn("u1", "food", 7, "2024-03-02"))
	_, _ = expenses.Create(context.Background(), expenseOn("u1", "food", 1, "2023-11-30"))

	svc := NewAdminService(users, expenses, nil, discardLogger)
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []ports.MonthlyStat{
		{Month: "2023-11", Total: 1},
		{Month: "2024-01", Total: 30},
		{Month: "2024-03", Total: 7},
	}
	if len(stats.MonthlyTrends) != len(want) {
		t.Fatalf("got %d months, want %d: %+v", len(stats.MonthlyTrends), len(want), stats.MonthlyTrends)
	}
	for i, w := range want {
		if stats.MonthlyTrends[i] != w {
			t.Errorf("month[%d] = %+v, want %+v", i, stats.MonthlyTrends[i], w)
		}
	}
}

func TestAdminService_Stats_ServedFromCache(t *testing.T) {
	cached := &ports.StatsResult{TotalUsers: 99}
	cache := &stubStatsCache{stored: cached}

	svc := NewAdminService(newStubUserRepo(), newStubExpenseRepo(), cache, discardLogger)
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalUsers != 99 {
		t.Errorf("expected cached result, got %+v", stats)
	}
	if cache.sets != 0 {
		t.Error("cache hit must not recompute and rewrite")
	}
}

func TestAdminService_Stats_CacheFailureIsNonFatal(t *testing.T) {
	cache := &stubStatsCache{getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	users := newStubUserRepo(&domain.User{ID: "u1"})

	svc := NewAdminService(users, newStubExpenseRepo(), cache, discardLogger)
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("cache failure must not fail the request: %v", err)
	}
	if stats.TotalUsers != 1 {
		t.Errorf("total_users = %d, want 1", stats.TotalUsers)
	}
}

// ---------------------------------------------------------------------------
// User management tests
// ---------------------------------------------------------------------------

func TestAdminService_ListUsers_OmitsCredentials(t *testing.T) {
	users := newStubUserRepo(&domain.User{ID: "u1", Username: "alice", PasswordHash: "secret"})

	svc := NewAdminService(users, newStubExpenseRepo(), nil, discardLogger)
	list, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d users, want 1", len(list))
	}
	if list[0].PasswordHash != "" {
		t.Error("password hash must not be returned")
	}
}

func TestAdminService_DeleteUser_CascadesToExpenses(t *testing.T) {
	users := newStubUserRepo(&domain.User{ID: "u1"}, &domain.User{ID: "u2"})
	expenses := newStubExpenseRepo()
	_, _ = expenses.Create(context.Background(), expenseOn("u1", "food", 10, "2024-01-15"))
	_, _ = expenses.Create(context.Background(), expenseOn("u1", "food", 20, "2024-01-16"))
	kept, _ := expenses.Create(context.Background(), expenseOn("u2", "food", 5, "2024-01-17"))

	svc := NewAdminService(users, expenses, nil, discardLogger)
	if err := svc.DeleteUser(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := users.users["u1"]; ok {
		t.Error("user not deleted")
	}
	if n, _ := expenses.Count(context.Background()); n != 1 {
		t.Errorf("expected only the other user's expense to remain, have %d", n)
	}
	if _, err := expenses.FindByID(context.Background(), kept.ID); err != nil {
		t.Error("cascade must not touch other users' expenses")
	}
}

func TestAdminService_DeleteUser_MissingUserIsIdempotent(t *testing.T) {
	svc := NewAdminService(newStubUserRepo(), newStubExpenseRepo(), nil, discardLogger)
	if err := svc.DeleteUser(context.Background(), "ghost"); err != nil {
		t.Fatalf("deleting an absent user should succeed, got %v", err)
	}
}
