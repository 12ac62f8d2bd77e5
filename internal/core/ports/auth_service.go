package ports

import (
	"context"

	"github.com/spendsmart/expense-api/internal/core/domain"
)

// AuthService implements registration and login. Token issuance is HS256 JWT
// carrying user_id and role claims.
type AuthService interface {
	Register(ctx context.Context, username, email, password, role string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
