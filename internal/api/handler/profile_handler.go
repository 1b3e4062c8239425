package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abejanet/abejanet/internal/api/middleware"
	"github.com/abejanet/abejanet/internal/core/domain"
)

type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

type profileResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Profile profile `json:"perfil"`
}

type profile struct {
	ID   int64       `json:"id"`
	Role domain.Role `json:"rol"`
}

// AdminProfile returns the authenticated administrator's profile. The Auth
// and RequireRole middleware have already vetted the token and role; this
// only echoes the claims back.
//
// @Summary      Administrator profile
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/perfil [get]
func (h *ProfileHandler) AdminProfile(c echo.Context) error {
	userID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{
		Success: true,
		Message: "Datos del perfil del administrador obtenidos con éxito.",
		Profile: profile{ID: userID, Role: role},
	})
}

// ctxClaims extracts the claims injected by the Auth middleware. An empty
// role means the middleware never ran on this route; fail closed with 401.
func ctxClaims(c echo.Context) (int64, domain.Role, error) {
	role, _ := c.Get(middleware.CtxRole).(domain.Role)
	if role == "" {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	userID, _ := c.Get(middleware.CtxUserID).(int64)
	return userID, role, nil
}
