package handler

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// rowQuerier is the slice of pgxpool.Pool the health handler needs.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type HealthHandler struct {
	db rowQuerier
}

func NewHealthHandler(db rowQuerier) *HealthHandler {
	return &HealthHandler{db: db}
}

// Liveness is the static online marker — is the process alive?
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string  "API online"
// @Router       / [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.String(http.StatusOK, "API online")
}

// TestDB runs a trivial query through the pool to prove the database is
// reachable.
//
// @Summary      Database connectivity probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Failure      500  {object}  map[string]string
// @Router       /test-db [get]
func (h *HealthHandler) TestDB(c echo.Context) error {
	var one int
	if err := h.db.QueryRow(c.Request().Context(), "SELECT 1").Scan(&one); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
