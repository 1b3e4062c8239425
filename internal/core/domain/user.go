package domain

import "errors"

// Role is the permission class assigned to an account. The string values
// match the `roles.nombre` column so tokens and DB rows agree verbatim.
type Role string

const (
	RoleAdmin Role = "administrador"
	RoleUser  Role = "user"
)

// Known reports whether the role is one the platform understands.
func (r Role) Known() bool {
	return r == RoleAdmin || r == RoleUser
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account is inactive")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrMissingSecret      = errors.New("signing secret not configured")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// User models an account row from usuarios joined with its role name.
// Password holds whatever the row stores: a bcrypt hash for current rows,
// cleartext for legacy ones (see service.VerifyPassword).
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"correo_electronico"`
	Password string `json:"-"`
	Role     Role   `json:"rol"`
	IsActive bool   `json:"-"`
}

// Claims is the decoded payload of a session token.
type Claims struct {
	UserID int64
	Role   Role
}
