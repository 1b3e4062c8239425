package ports

import (
	"context"

	"github.com/abejanet/abejanet/internal/core/domain"
)

// UserRepository defines the persistence surface the auth flow needs.
// Accounts are created by an out-of-band registration process; this core
// only reads them.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
