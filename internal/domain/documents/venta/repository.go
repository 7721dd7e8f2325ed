package venta

import (
	"context"
	"time"

	"puntoventa/internal/core/id"
)

// ListFilter filters sale listings.
type ListFilter struct {
	SucursalID *id.ID
	Estado     *Estado
	Desde      *time.Time
	Hasta      *time.Time
	Limit      int
	Offset     int
}

// Repository defines persistence operations for sales.
// Every call is scoped by empresaID.
type Repository interface {
	// Crear inserts the sale and all its line items.
	Crear(ctx context.Context, v *Venta) error

	// ObtenerPorID returns the sale with its line items.
	ObtenerPorID(ctx context.Context, empresaID, ventaID id.ID) (*Venta, error)

	// ObtenerParaActualizar returns the sale (with line items) holding
	// a row lock. Must be called inside a transaction.
	ObtenerParaActualizar(ctx context.Context, empresaID, ventaID id.ID) (*Venta, error)

	// MarcarCancelada flips the sale to cancelada with timestamp and
	// reason. The state transition is one-way.
	MarcarCancelada(ctx context.Context, empresaID, ventaID id.ID, motivo string, canceladaEn time.Time) error

	// Listar returns sales matching the filter, newest first.
	Listar(ctx context.Context, empresaID id.ID, filter ListFilter) ([]Venta, int64, error)
}
