package dto

import (
	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/documents/turno"
)

// AbrirTurnoRequest is the shift-open body.
type AbrirTurnoRequest struct {
	CajaID        string      `json:"cajaId" binding:"required"`
	TipoTurno     string      `json:"tipoTurno" binding:"required"`
	FondoInicial  types.Money `json:"fondoInicial"`
	Observaciones string      `json:"observaciones"`
}

// ToApertura converts the request into the domain command.
func (r *AbrirTurnoRequest) ToApertura(usuarioID id.ID) (turno.AperturaTurno, error) {
	cajaID, err := id.Parse(r.CajaID)
	if err != nil {
		return turno.AperturaTurno{}, apperror.NewValidation("cajaId inválido")
	}
	return turno.AperturaTurno{
		CajaID:        cajaID,
		UsuarioID:     usuarioID,
		TipoTurno:     r.TipoTurno,
		FondoInicial:  r.FondoInicial,
		Observaciones: r.Observaciones,
	}, nil
}

// AbrirTurnoResponse acknowledges an opened shift.
type AbrirTurnoResponse struct {
	Success   bool   `json:"success"`
	TurnoID   string `json:"turnoId"`
	AbiertoEn string `json:"abiertoEn"`
}

// CerrarTurnoRequest is the shift-close body.
type CerrarTurnoRequest struct {
	EfectivoContado     types.Money `json:"efectivoContado"`
	VentasEfectivo      types.Money `json:"ventasEfectivo"`
	VentasTarjeta       types.Money `json:"ventasTarjeta"`
	VentasTransferencia types.Money `json:"ventasTransferencia"`
	Observaciones       string      `json:"observaciones"`
}

// ToCierre converts the request into the domain command.
func (r *CerrarTurnoRequest) ToCierre() turno.CierreTurno {
	return turno.CierreTurno{
		EfectivoContado:     r.EfectivoContado,
		VentasEfectivo:      r.VentasEfectivo,
		VentasTarjeta:       r.VentasTarjeta,
		VentasTransferencia: r.VentasTransferencia,
		Observaciones:       r.Observaciones,
	}
}

// CerrarTurnoResponse reports the drawer reconciliation.
type CerrarTurnoResponse struct {
	Success          bool        `json:"success"`
	TurnoID          string      `json:"turnoId"`
	EfectivoEsperado types.Money `json:"efectivoEsperado"`
	EfectivoContado  types.Money `json:"efectivoContado"`
	Diferencia       types.Money `json:"diferencia"`
}

// MovimientoCajaRequest is the cash movement body.
type MovimientoCajaRequest struct {
	Tipo                 string      `json:"tipo" binding:"required"`
	Monto                types.Money `json:"monto"`
	Concepto             string      `json:"concepto" binding:"required"`
	Observaciones        string      `json:"observaciones"`
	RequiereAutorizacion bool        `json:"requiereAutorizacion"`
	AutorizadoPor        *string     `json:"autorizadoPor"`
}

// ToMovimiento converts the request into the domain command. Naming an
// authorizer marks the movement as authorization-required even if the
// client left the flag unset.
func (r *MovimientoCajaRequest) ToMovimiento(usuarioID *id.ID) turno.Movimiento {
	return turno.Movimiento{
		Tipo:                 turno.TipoMovimiento(r.Tipo),
		Monto:                r.Monto,
		Concepto:             r.Concepto,
		Observaciones:        r.Observaciones,
		RequiereAutorizacion: r.RequiereAutorizacion || r.AutorizadoPor != nil,
		AutorizadoPor:        r.AutorizadoPor,
		UsuarioID:            usuarioID,
	}
}

// MovimientoCajaResponse acknowledges a recorded movement.
type MovimientoCajaResponse struct {
	Success      bool   `json:"success"`
	MovimientoID string `json:"movimientoId"`
}
