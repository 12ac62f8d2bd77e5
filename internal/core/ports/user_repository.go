package ports

import (
	"context"

	"github.com/spendsmart/expense-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// List returns all users without credential material.
	List(ctx context.Context) ([]*domain.User, error)
	// Delete removes the user with the given id. Deleting an absent user is
	// not an error (the operation is idempotent, matching cascade semantics).
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
