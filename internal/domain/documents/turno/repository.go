package turno

import (
	"context"

	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
)

// TotalesMovimientos aggregates a shift's deposits and withdrawals.
type TotalesMovimientos struct {
	Ingresos types.Money
	Retiros  types.Money
}

// Repository defines persistence operations for shifts.
// Every call is scoped by empresaID.
type Repository interface {
	// Crear inserts a new open shift. Returns a duplicate error when
	// the register already has an open shift (partial unique index).
	Crear(ctx context.Context, t *Turno) error

	// ObtenerPorID returns the shift without movements.
	ObtenerPorID(ctx context.Context, empresaID, turnoID id.ID) (*Turno, error)

	// ObtenerParaActualizar returns the shift holding a row lock.
	// Must be called inside a transaction.
	ObtenerParaActualizar(ctx context.Context, empresaID, turnoID id.ID) (*Turno, error)

	// AbiertoPorCaja returns the open shift of a register, or nil.
	AbiertoPorCaja(ctx context.Context, empresaID, cajaID id.ID) (*Turno, error)

	// ActualizarCierre persists closing state and reconciliation.
	ActualizarCierre(ctx context.Context, t *Turno) error

	// CrearMovimiento appends a cash movement row.
	CrearMovimiento(ctx context.Context, m *Movimiento) error

	// TotalesPorTipo recomputes deposit/withdrawal sums from the
	// shift's movement rows.
	TotalesPorTipo(ctx context.Context, empresaID, turnoID id.ID) (TotalesMovimientos, error)

	// ActualizarTotalesMovimientos persists the recomputed aggregates
	// on the shift row.
	ActualizarTotalesMovimientos(ctx context.Context, empresaID, turnoID id.ID, tot TotalesMovimientos) error

	// ListarMovimientos returns the shift's movements, oldest first.
	ListarMovimientos(ctx context.Context, empresaID, turnoID id.ID) ([]Movimiento, error)
}
