package ports

import "github.com/abejanet/abejanet/internal/core/domain"

// TokenService issues and verifies signed session tokens.
type TokenService interface {
	// Issue produces a signed token embedding the user identity and role.
	Issue(userID int64, role domain.Role) (string, error)
	// Verify checks signature and expiry. Failures are typed:
	// domain.ErrTokenExpired for a stale token, domain.ErrTokenInvalid for
	// anything malformed or tampered with.
	Verify(token string) (*domain.Claims, error)
}
