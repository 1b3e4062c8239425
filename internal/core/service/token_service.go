package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/abejanet/abejanet/internal/core/domain"
)

const defaultTokenTTL = time.Hour

// TokenService signs and verifies HS256 session tokens carrying
// {userId, rol}. Tokens expire after ttl; there is no refresh or
// revocation path — an expired token forces a fresh login.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService fails fast when no secret is configured so the server
// refuses to boot rather than signing with a guessable default.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, domain.ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (s *TokenService) Issue(userID int64, role domain.Role) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"userId": userID,
		"rol":    string(role),
		"iat":    now.Unix(),
		"exp":    now.Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) Verify(token string) (*domain.Claims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenInvalid
	}

	// MapClaims decodes JSON numbers as float64.
	rawID, ok := claims["userId"].(float64)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	role, _ := claims["rol"].(string)
	if role == "" {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.Claims{UserID: int64(rawID), Role: domain.Role(role)}, nil
}
