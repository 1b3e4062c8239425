package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abejanet/abejanet/internal/core/domain"
)

// UserRepository reads accounts from the usuarios/roles tables. The schema
// is owned by the registration side; this core never writes to it.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const findByEmailSQL = `
SELECT u.id, u.correo_electronico, u.contrasena, r.nombre AS rol, u.esta_activo
FROM usuarios u
JOIN roles r ON u.rol_id = r.id
WHERE u.correo_electronico = $1`

// FindByEmail fetches a user and its role name by email. The password
// column comes back verbatim; matching happens in the service layer, never
// in SQL.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, findByEmailSQL, email).
		Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}
