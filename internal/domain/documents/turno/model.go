// Package turno provides cash-register shifts and their cash movements.
package turno

import (
	"time"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
)

// Estado of a shift. abierto -> cerrado is one-way and terminal.
type Estado string

const (
	EstadoAbierto Estado = "abierto"
	EstadoCerrado Estado = "cerrado"
)

// TipoMovimiento of a cash movement.
type TipoMovimiento string

const (
	MovIngreso TipoMovimiento = "ingreso"
	MovRetiro  TipoMovimiento = "retiro"
)

// Turno is a bounded working session on one register.
type Turno struct {
	ID        id.ID `db:"id" json:"id"`
	EmpresaID id.ID `db:"empresa_id" json:"empresaId"`

	CajaID    id.ID  `db:"caja_id" json:"cajaId"`
	UsuarioID id.ID  `db:"usuario_id" json:"usuarioId"`
	TipoTurno string `db:"tipo_turno" json:"tipoTurno"`

	Estado Estado `db:"estado" json:"estado"`

	FondoInicial types.Money `db:"fondo_inicial" json:"fondoInicial"`

	// Running totals. Sales-by-payment-method are reported by the POS
	// client at close; ingresos/retiros are always recomputed from the
	// shift's own movement rows.
	VentasEfectivo      types.Money `db:"ventas_efectivo" json:"ventasEfectivo"`
	VentasTarjeta       types.Money `db:"ventas_tarjeta" json:"ventasTarjeta"`
	VentasTransferencia types.Money `db:"ventas_transferencia" json:"ventasTransferencia"`
	IngresosAdicionales types.Money `db:"ingresos_adicionales" json:"ingresosAdicionales"`
	Retiros             types.Money `db:"retiros" json:"retiros"`

	// Closing reconciliation.
	EfectivoEsperado *types.Money `db:"efectivo_esperado" json:"efectivoEsperado,omitempty"`
	EfectivoContado  *types.Money `db:"efectivo_contado" json:"efectivoContado,omitempty"`
	Diferencia       *types.Money `db:"diferencia" json:"diferencia,omitempty"`

	ObservacionesApertura string `db:"observaciones_apertura" json:"observacionesApertura,omitempty"`
	ObservacionesCierre   string `db:"observaciones_cierre" json:"observacionesCierre,omitempty"`

	AbiertoEn time.Time  `db:"abierto_en" json:"abiertoEn"`
	CerradoEn *time.Time `db:"cerrado_en" json:"cerradoEn,omitempty"`

	Movimientos []Movimiento `db:"-" json:"movimientos,omitempty"`
}

// EstaCerrado reports whether the shift is closed.
func (t *Turno) EstaCerrado() bool {
	return t.Estado == EstadoCerrado
}

// EfectivoTeorico computes expected drawer cash from the shift's own
// figures: opening float plus cash sales plus deposits minus withdrawals.
func (t *Turno) EfectivoTeorico() types.Money {
	return t.FondoInicial.
		Add(t.VentasEfectivo).
		Add(t.IngresosAdicionales).
		Sub(t.Retiros)
}

// Movimiento is an ad-hoc deposit or withdrawal against an open shift.
// Append-only.
type Movimiento struct {
	ID        id.ID `db:"id" json:"id"`
	EmpresaID id.ID `db:"empresa_id" json:"empresaId"`
	TurnoID   id.ID `db:"turno_id" json:"turnoId"`

	Tipo     TipoMovimiento `db:"tipo" json:"tipo"`
	Monto    types.Money    `db:"monto" json:"monto"`
	Concepto string         `db:"concepto" json:"concepto"`

	Observaciones        string  `db:"observaciones" json:"observaciones,omitempty"`
	RequiereAutorizacion bool    `db:"requiere_autorizacion" json:"requiereAutorizacion"`
	AutorizadoPor        *string `db:"autorizado_por" json:"autorizadoPor,omitempty"`

	UsuarioID *id.ID    `db:"usuario_id" json:"usuarioId,omitempty"`
	CreadoEn  time.Time `db:"creado_en" json:"creadoEn"`
}

// Validate checks a movement before persisting.
func (m *Movimiento) Validate() error {
	if m.Tipo != MovIngreso && m.Tipo != MovRetiro {
		return apperror.NewValidation("tipo debe ser ingreso o retiro").WithDetail("field", "tipo")
	}
	if !m.Monto.IsPositive() {
		return apperror.NewValidation("monto debe ser mayor a cero").WithDetail("field", "monto")
	}
	if m.Concepto == "" {
		return apperror.NewValidation("concepto es requerido").WithDetail("field", "concepto")
	}
	return nil
}

// AperturaTurno is the shift-open request.
type AperturaTurno struct {
	CajaID        id.ID
	UsuarioID     id.ID
	TipoTurno     string
	FondoInicial  types.Money
	Observaciones string
}

// Validate checks the open request.
func (a *AperturaTurno) Validate() error {
	if id.IsNil(a.CajaID) {
		return apperror.NewValidation("caja es requerida").WithDetail("field", "cajaId")
	}
	if a.TipoTurno == "" {
		return apperror.NewValidation("tipo de turno es requerido").WithDetail("field", "tipoTurno")
	}
	if a.FondoInicial.IsNegative() {
		return apperror.NewValidation("fondo inicial no puede ser negativo").WithDetail("field", "fondoInicial")
	}
	return nil
}

// CierreTurno is the shift-close request. The POS client reports its
// sales breakdown; counted cash comes from the physical drawer count.
type CierreTurno struct {
	EfectivoContado     types.Money
	VentasEfectivo      types.Money
	VentasTarjeta       types.Money
	VentasTransferencia types.Money
	Observaciones       string
}

// Validate checks the close request.
func (c *CierreTurno) Validate() error {
	if c.EfectivoContado.IsNegative() {
		return apperror.NewValidation("efectivo contado no puede ser negativo").WithDetail("field", "efectivoContado")
	}
	if c.VentasEfectivo.IsNegative() || c.VentasTarjeta.IsNegative() || c.VentasTransferencia.IsNegative() {
		return apperror.NewValidation("los totales de ventas no pueden ser negativos")
	}
	return nil
}
