package dto

import (
	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/registers/inventario"
)

// AjusteInventarioRequest is the manual stock adjustment body.
type AjusteInventarioRequest struct {
	ProductoID    string         `json:"productoId" binding:"required"`
	SucursalID    string         `json:"sucursalId" binding:"required"`
	Tipo          string         `json:"tipo" binding:"required"`
	Cantidad      types.Cantidad `json:"cantidad" binding:"required"`
	Motivo        string         `json:"motivo" binding:"required"`
	Observaciones string         `json:"observaciones"`
}

// ToAjuste converts the request into the domain command.
func (r *AjusteInventarioRequest) ToAjuste(usuarioID *id.ID) (inventario.AjusteInventario, error) {
	productoID, err := id.Parse(r.ProductoID)
	if err != nil {
		return inventario.AjusteInventario{}, apperror.NewValidation("productoId inválido")
	}
	sucursalID, err := id.Parse(r.SucursalID)
	if err != nil {
		return inventario.AjusteInventario{}, apperror.NewValidation("sucursalId inválido")
	}

	return inventario.AjusteInventario{
		ProductoID:    productoID,
		SucursalID:    sucursalID,
		Tipo:          inventario.TipoMovimiento(r.Tipo),
		Cantidad:      r.Cantidad,
		Motivo:        r.Motivo,
		Observaciones: r.Observaciones,
		UsuarioID:     usuarioID,
	}, nil
}

// AjusteInventarioResponse reports the balance around the adjustment.
type AjusteInventarioResponse struct {
	Success          bool           `json:"success"`
	CantidadAnterior types.Cantidad `json:"cantidadAnterior"`
	CantidadNueva    types.Cantidad `json:"cantidadNueva"`
}

// ExistenciaResponse is one balance row.
type ExistenciaResponse struct {
	ProductoID         string         `json:"productoId"`
	SucursalID         string         `json:"sucursalId"`
	Cantidad           types.Cantidad `json:"cantidad"`
	CantidadReservada  types.Cantidad `json:"cantidadReservada"`
	CantidadDisponible types.Cantidad `json:"cantidadDisponible"`
}

// FromExistencia maps a balance to its wire form.
func FromExistencia(e inventario.Existencia) ExistenciaResponse {
	return ExistenciaResponse{
		ProductoID:         e.ProductoID.String(),
		SucursalID:         e.SucursalID.String(),
		Cantidad:           e.Cantidad,
		CantidadReservada:  e.CantidadReservada,
		CantidadDisponible: e.CantidadDisponible,
	}
}

// MovimientosResponse is the ledger history body.
type MovimientosResponse struct {
	Movimientos []inventario.MovimientoInventario `json:"movimientos"`
}
