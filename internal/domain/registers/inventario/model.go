// Package inventario provides the inventory register: per
// (producto, sucursal) balances plus an append-only movement ledger.
package inventario

import (
	"time"

	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
)

// TipoMovimiento classifies a stock change.
type TipoMovimiento string

const (
	TipoEntrada TipoMovimiento = "entrada"
	TipoSalida  TipoMovimiento = "salida"
	TipoVenta   TipoMovimiento = "venta"
	TipoAjuste  TipoMovimiento = "ajuste"
)

// Document types referenced by ledger rows.
const (
	DocAjusteManual     = "ajuste_manual"
	DocVenta            = "venta"
	DocCancelacionVenta = "cancelacion_venta"
)

// Existencia is the stock balance for one product at one branch.
// Created lazily on first movement, never deleted.
// Invariants: Cantidad >= 0 and
// CantidadDisponible = Cantidad - CantidadReservada.
type Existencia struct {
	EmpresaID  id.ID `db:"empresa_id" json:"empresaId"`
	ProductoID id.ID `db:"producto_id" json:"productoId"`
	SucursalID id.ID `db:"sucursal_id" json:"sucursalId"`

	Cantidad           types.Cantidad `db:"cantidad" json:"cantidad"`
	CantidadReservada  types.Cantidad `db:"cantidad_reservada" json:"cantidadReservada"`
	CantidadDisponible types.Cantidad `db:"cantidad_disponible" json:"cantidadDisponible"`

	ActualizadoEn time.Time `db:"actualizado_en" json:"actualizadoEn"`
}

// Recalcular restores the derived-availability invariant after
// Cantidad or CantidadReservada changed.
func (e *Existencia) Recalcular() {
	e.CantidadDisponible = e.Cantidad - e.CantidadReservada
	e.ActualizadoEn = time.Now().UTC()
}

// MovimientoInventario is one immutable ledger row. Rows are never
// updated or deleted: the ledger is the audit trail of all stock changes.
type MovimientoInventario struct {
	ID        id.ID `db:"id" json:"id"`
	EmpresaID id.ID `db:"empresa_id" json:"empresaId"`

	ProductoID id.ID `db:"producto_id" json:"productoId"`
	SucursalID id.ID `db:"sucursal_id" json:"sucursalId"`

	Tipo TipoMovimiento `db:"tipo" json:"tipo"`

	// Cantidad is the signed delta; CantidadAnterior/CantidadNueva
	// snapshot the balance around it.
	Cantidad         types.Cantidad `db:"cantidad" json:"cantidad"`
	CantidadAnterior types.Cantidad `db:"cantidad_anterior" json:"cantidadAnterior"`
	CantidadNueva    types.Cantidad `db:"cantidad_nueva" json:"cantidadNueva"`

	// Document reference (ajuste_manual, venta, cancelacion_venta).
	DocumentoTipo string `db:"documento_tipo" json:"documentoTipo"`
	DocumentoID   *id.ID `db:"documento_id" json:"documentoId,omitempty"`

	UsuarioID     *id.ID `db:"usuario_id" json:"usuarioId,omitempty"`
	Observaciones string `db:"observaciones" json:"observaciones,omitempty"`

	CreadoEn time.Time `db:"creado_en" json:"creadoEn"`
}
