package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/spendsmart/expense-api/internal/core/domain"
	"github.com/spendsmart/expense-api/internal/core/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// csvColumns is the fixed export column set, in order.
var csvColumns = []string{"title", "amount", "category", "date"}

type ExpenseService struct {
	repo   ports.ExpenseRepository
	logger zerolog.Logger
}

func NewExpenseService(repo ports.ExpenseRepository, logger zerolog.Logger) *ExpenseService {
	return &ExpenseService{repo: repo, logger: logger}
}

// Create validates the input and persists a new expense owned by userID.
func (s *ExpenseService) Create(ctx context.Context, userID string, input ports.ExpenseInput) (*domain.Expense, error) {
	if err := validateExpenseInput(input); err != nil {
		return nil, err
	}

	date, err := time.ParseInLocation(dateLayout, input.Date, time.UTC)
	if err != nil {
		// Unreachable after validation; kept so a tag change cannot persist garbage.
		return nil, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "date", Message: "date must be a valid date (YYYY-MM-DD)"},
		}}
	}

	expense := &domain.Expense{
		UserID:   userID,
		Title:    input.Title,
		Amount:   input.Amount,
		Category: input.Category,
		Date:     date,
		Note:     input.Note,
	}

	created, err := s.repo.Create(ctx, expense)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create expense")
		return nil, err
	}

	s.logger.Info().Str("expense_id", created.ID).Str("user_id", userID).Str("category", created.Category).Msg("expense created")
	return created, nil
}

// List returns one page of the caller's expenses. The owner filter comes from
// the authenticated identity only; request input cannot widen it.
func (s *ExpenseService) List(ctx context.Context, input ports.ListExpensesInput) (*ports.ListExpensesResult, error) {
	filter, err := buildFilter(input.UserID, input.Category, input.Month, input.Sort)
	if err != nil {
		return nil, err
	}

	// Out-of-range paging values are clamped to defaults rather than rejected;
	// limit is additionally capped at maxLimit.
	filter.Page = input.Page
	if filter.Page < 1 {
		filter.Page = defaultPage
	}
	filter.Limit = input.Limit
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}

	expenses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("failed to list expenses")
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return &ports.ListExpensesResult{
		Expenses:   expenses,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// Update replaces all mutable fields of the expense. The existence and
// ownership checks run in full before validation or any write, matching the
// guard order of delete.
func (s *ExpenseService) Update(ctx context.Context, userID, id string, input ports.ExpenseInput) (*domain.Expense, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, domain.ErrForbidden
	}

	if err := validateExpenseInput(input); err != nil {
		return nil, err
	}
	date, err := time.ParseInLocation(dateLayout, input.Date, time.UTC)
	if err != nil {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "date", Message: "date must be a valid date (YYYY-MM-DD)"},
		}}
	}

	updated, err := s.repo.Update(ctx, id, &domain.Expense{
		UserID:   existing.UserID,
		Title:    input.Title,
		Amount:   input.Amount,
		Category: input.Category,
		Date:     date,
		Note:     input.Note,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("expense_id", id).Msg("failed to update expense")
		return nil, err
	}

	s.logger.Info().Str("expense_id", id).Str("user_id", userID).Msg("expense updated")
	return updated, nil
}

// Delete removes the expense after the existence and ownership checks pass.
func (s *ExpenseService) Delete(ctx context.Context, userID, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("expense_id", id).Msg("failed to delete expense")
		return err
	}

	s.logger.Info().Str("expense_id", id).Str("user_id", userID).Msg("expense deleted")
	return nil
}

// ExportCSV renders the caller's entire matching expense set as CSV. Columns
// are fixed (title, amount, category, date); values containing commas, quotes
// or newlines are escaped by the encoder.
func (s *ExpenseService) ExportCSV(ctx context.Context, input ports.ExportExpensesInput) ([]byte, error) {
	filter, err := buildFilter(input.UserID, input.Category, input.Month, input.Sort)
	if err != nil {
		return nil, err
	}

	expenses, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("failed to export expenses")
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvColumns); err != nil {
		return nil, err
	}
	for _, e := range expenses {
		row := []string{
			e.Title,
			strconv.FormatFloat(e.Amount, 'f', -1, 64),
			e.Category,
			e.Date.UTC().Format(dateLayout),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", input.UserID).Int("rows", len(expenses)).Msg("expenses exported")
	return buf.Bytes(), nil
}

// buildFilter assembles the repository filter shared by List and ExportCSV.
// A month value "YYYY-MM" becomes the half-open interval
// [first of month, first of next month); AddDate handles year rollover.
func buildFilter(userID, category, month, sort string) (ports.ListExpensesFilter, error) {
	filter := ports.ListExpensesFilter{
		UserID:   userID,
		Category: category,
		SortAsc:  sort == "asc",
	}

	if month != "" {
		start, err := time.ParseInLocation(monthLayout, month, time.UTC)
		if err != nil {
			return filter, &domain.ValidationError{Fields: []domain.FieldError{
				{Field: "month", Message: "month must be formatted as YYYY-MM"},
			}}
		}
		filter.MonthStart = start
		filter.MonthEnd = start.AddDate(0, 1, 0)
	}

	return filter, nil
}
