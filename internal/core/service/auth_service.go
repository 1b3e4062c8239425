package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/abejanet/abejanet/internal/core/domain"
	"github.com/abejanet/abejanet/internal/core/ports"
)

// AuthService validates credentials against the user store and issues
// session tokens.
type AuthService struct {
	repo   ports.UserRepository
	tokens ports.TokenService
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

// Login authenticates email/password against an active account and returns
// a signed session token plus the matched user. Failures are typed:
// domain.ErrInvalidCredentials when nothing matches,
// domain.ErrInactiveAccount when the account matched but is disabled.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	// Upstream reports a disabled account before checking the password, so a
	// deactivated user sees "inactive" rather than "wrong password".
	if !user.IsActive {
		return "", nil, domain.ErrInactiveAccount
	}

	if !VerifyPassword(user.Password, password) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// VerifyPassword checks a candidate password against what the row stores.
// Current rows hold a bcrypt hash. Legacy rows imported from the first
// deployment store the password in the clear; until that backfill migration
// lands they are matched with a constant-time compare instead of being
// silently rejected.
func VerifyPassword(stored, candidate string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}
