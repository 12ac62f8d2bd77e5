package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/spendsmart/expense-api/internal/api/metrics"
	"github.com/spendsmart/expense-api/internal/core/domain"
	"github.com/spendsmart/expense-api/internal/core/ports"
)

// StatsCache abstracts the stats result cache (Redis). Get returns (nil, nil)
// on a cache miss.
type StatsCache interface {
	Get(ctx context.Context) (*ports.StatsResult, error)
	Set(ctx context.Context, stats *ports.StatsResult) error
}

type adminService struct {
	users    ports.UserRepository
	expenses ports.ExpenseRepository
	cache    StatsCache
	log      zerolog.Logger
}

// NewAdminService returns an AdminService implementation. cache may be nil,
// in which case stats are recomputed on every call.
func NewAdminService(users ports.UserRepository, expenses ports.ExpenseRepository, cache StatsCache, log zerolog.Logger) ports.AdminService {
	return &adminService{users: users, expenses: expenses, cache: cache, log: log}
}

// ListUsers returns all users. Credential material never leaves the
// repository layer.
func (s *adminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list users")
		return nil, err
	}
	return users, nil
}

// DeleteUser removes the user, then all expenses they own. The two deletes
// are separate operations, not a transaction: a failure between them leaves
// orphaned expenses, so the call is not safe to retry blindly.
func (s *adminService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if err := s.expenses.DeleteByUser(ctx, id); err != nil {
		return fmt.Errorf("delete user expenses: %w", err)
	}

	metrics.UsersDeletedTotal.Inc()
	s.log.Info().Str("user_id", id).Msg("user and owned expenses deleted")
	return nil
}

// Stats computes the cross-user aggregates. Results are cached briefly; cache
// failures are logged and never fail the request. Any aggregation step
// failing aborts the whole computation, so partial results are never returned.
func (s *adminService) Stats(ctx context.Context) (*ports.StatsResult, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("stats cache read failed, recomputing")
		} else if cached != nil {
			metrics.StatsCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		} else {
			metrics.StatsCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: count users: %w", err)
	}
	totalExpenses, err := s.expenses.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: count expenses: %w", err)
	}

	byCategory, err := s.expenses.TotalsByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: totals by category: %w", err)
	}
	monthly, err := s.expenses.MonthlyTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: monthly totals: %w", err)
	}

	result := &ports.StatsResult{
		TotalUsers:         totalUsers,
		TotalExpenses:      totalExpenses,
		ExpensesByCategory: categoryStats(byCategory),
		MonthlyTrends:      monthlyStats(monthly),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, result); err != nil {
			s.log.Warn().Err(err).Msg("stats cache write failed")
		}
	}

	return result, nil
}

// categoryStats sorts category totals ascending by category name so the
// output is deterministic across calls.
func categoryStats(totals []ports.CategoryTotal) []ports.CategoryStat {
	out := make([]ports.CategoryStat, 0, len(totals))
	for _, t := range totals {
		out = append(out, ports.CategoryStat{Category: t.Category, Total: t.Total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// monthlyStats formats each (year, month) group as zero-padded "YYYY-MM" and
// sorts ascending by year then month.
func monthlyStats(totals []ports.MonthlyTotal) []ports.MonthlyStat {
	sorted := make([]ports.MonthlyTotal, len(totals))
	copy(sorted, totals)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year < sorted[j].Year
		}
		return sorted[i].Month < sorted[j].Month
	})

	out := make([]ports.MonthlyStat, 0, len(sorted))
	for _, t := range sorted {
		out = append(out, ports.MonthlyStat{
			Month: fmt.Sprintf("%04d-%02d", t.Year, t.Month),
			Total: t.Total,
		})
	}
	return out
}
