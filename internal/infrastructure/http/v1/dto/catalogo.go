package dto

import (
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/catalogs/caja"
	"puntoventa/internal/domain/catalogs/sucursal"
)

// CreateSucursalRequest is the branch-creation body.
type CreateSucursalRequest struct {
	Nombre       string      `json:"nombre" binding:"required"`
	TasaImpuesto types.Money `json:"tasaImpuesto"`
}

// ToSucursal builds the domain entity for the tenant.
func (r *CreateSucursalRequest) ToSucursal(empresaID id.ID) *sucursal.Sucursal {
	return sucursal.Nueva(empresaID, r.Nombre, r.TasaImpuesto)
}

// SucursalListResponse is the branch listing body.
type SucursalListResponse struct {
	Sucursales []sucursal.Sucursal `json:"sucursales"`
}

// CreateCajaRequest is the register-creation body.
type CreateCajaRequest struct {
	SucursalID string `json:"sucursalId" binding:"required"`
	Nombre     string `json:"nombre" binding:"required"`
}

// CajaListResponse is the register listing body.
type CajaListResponse struct {
	Cajas []caja.Caja `json:"cajas"`
}
