package inventario

import (
	"context"
	"time"

	"puntoventa/internal/core/id"
)

// MovementFilter filters ledger history queries.
type MovementFilter struct {
	ProductoID *id.ID
	SucursalID *id.ID
	Tipo       *TipoMovimiento
	Desde      *time.Time
	Hasta      *time.Time
	Limit      int
	Offset     int
}

// Repository defines operations for the inventory register.
// Every call is scoped by empresaID.
type Repository interface {
	// ObtenerExistencia returns the balance row, or a zero-valued row
	// when none exists yet.
	ObtenerExistencia(ctx context.Context, empresaID, productoID, sucursalID id.ID) (Existencia, error)

	// ObtenerExistenciaParaActualizar returns the balance with a row
	// lock, inserting the row first when absent so the lock has
	// something to hold. Must be called inside a transaction.
	ObtenerExistenciaParaActualizar(ctx context.Context, empresaID, productoID, sucursalID id.ID) (Existencia, error)

	// GuardarExistencia persists an updated balance.
	GuardarExistencia(ctx context.Context, e *Existencia) error

	// CrearMovimiento appends one ledger row.
	CrearMovimiento(ctx context.Context, m *MovimientoInventario) error

	// ListarMovimientos returns ledger history, newest first.
	ListarMovimientos(ctx context.Context, empresaID id.ID, filter MovementFilter) ([]MovimientoInventario, error)

	// ExistenciasPorSucursal returns all non-zero balances of a branch.
	ExistenciasPorSucursal(ctx context.Context, empresaID, sucursalID id.ID) ([]Existencia, error)
}
