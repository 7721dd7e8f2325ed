package auth

import (
	"context"

	"puntoventa/internal/core/id"
)

// Repository defines persistence operations for users.
// Email lookups are global: the email resolves the empresa, not the
// other way around.
type Repository interface {
	Crear(ctx context.Context, u *Usuario) error
	ObtenerPorEmail(ctx context.Context, email string) (*Usuario, error)
	ObtenerPorID(ctx context.Context, empresaID, usuarioID id.ID) (*Usuario, error)
}
