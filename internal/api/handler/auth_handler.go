package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abejanet/abejanet/internal/api/metrics"
	"github.com/abejanet/abejanet/internal/core/domain"
	"github.com/abejanet/abejanet/internal/core/ports"
)

// LoginThrottle limits repeated failed logins per account. A nil throttle
// disables the check entirely.
type LoginThrottle interface {
	// Allow reports whether another attempt for this email may proceed.
	Allow(ctx context.Context, email string) bool
	// RecordFailure notes a failed attempt for this email.
	RecordFailure(ctx context.Context, email string)
	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, email string)
}

type AuthHandler struct {
	authService ports.AuthService
	throttle    LoginThrottle
}

func NewAuthHandler(authService ports.AuthService, throttle LoginThrottle) *AuthHandler {
	return &AuthHandler{authService: authService, throttle: throttle}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    int64       `json:"id"`
	Email string      `json:"correo_electronico"`
	Role  domain.Role `json:"rol"`
}

type loginResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Token   string        `json:"token,omitempty"`
	User    *userResponse `json:"user,omitempty"`
}

// Login authenticates a user and returns a signed session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  loginResponse
// @Failure      401   {object}  loginResponse
// @Failure      403   {object}  loginResponse
// @Failure      429   {object}  loginResponse
// @Failure      500   {object}  loginResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, loginResponse{Success: false, Message: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, loginResponse{Success: false, Message: err.Error()})
	}

	ctx := c.Request().Context()

	if h.throttle != nil && !h.throttle.Allow(ctx, req.Email) {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		return c.JSON(http.StatusTooManyRequests, loginResponse{
			Success: false,
			Message: "Demasiados intentos. Intente de nuevo más tarde.",
		})
	}

	token, user, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInactiveAccount):
			metrics.LoginsTotal.WithLabelValues("inactive").Inc()
			return c.JSON(http.StatusForbidden, loginResponse{
				Success: false,
				Message: "Usuario inactivo. Contacte al administrador.",
			})
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
			if h.throttle != nil {
				h.throttle.RecordFailure(ctx, req.Email)
			}
			return c.JSON(http.StatusUnauthorized, loginResponse{
				Success: false,
				Message: "Credenciales incorrectas o usuario no encontrado.",
			})
		case errors.Is(err, domain.ErrMissingSecret):
			metrics.LoginsTotal.WithLabelValues("error").Inc()
			return c.JSON(http.StatusInternalServerError, loginResponse{
				Success: false,
				Message: "Error de configuración del servidor.",
			})
		default:
			metrics.LoginsTotal.WithLabelValues("error").Inc()
			return err
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	if h.throttle != nil {
		h.throttle.Reset(ctx, req.Email)
	}

	return c.JSON(http.StatusOK, loginResponse{
		Success: true,
		Message: "Login exitoso",
		Token:   token,
		User:    &userResponse{ID: user.ID, Email: user.Email, Role: user.Role},
	})
}
