// Package venta provides the point-of-sale sale document.
package venta

import (
	"time"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
)

// Estado of a sale. The only transition is completada -> cancelada.
type Estado string

const (
	EstadoCompletada Estado = "completada"
	EstadoCancelada  Estado = "cancelada"
)

// MetodoPago accepted at the register.
type MetodoPago string

const (
	MetodoEfectivo      MetodoPago = "efectivo"
	MetodoTarjeta       MetodoPago = "tarjeta"
	MetodoTransferencia MetodoPago = "transferencia"
)

// ValidarMetodoPago checks a payment method value.
func ValidarMetodoPago(m MetodoPago) error {
	switch m {
	case MetodoEfectivo, MetodoTarjeta, MetodoTransferencia:
		return nil
	}
	return apperror.NewValidation("método de pago inválido").WithDetail("field", "metodoPago")
}

// Venta is a completed sale with its line items.
type Venta struct {
	ID        id.ID `db:"id" json:"id"`
	EmpresaID id.ID `db:"empresa_id" json:"empresaId"`

	SucursalID id.ID `db:"sucursal_id" json:"sucursalId"`
	UsuarioID  id.ID `db:"usuario_id" json:"usuarioId"`

	NombreCliente string `db:"nombre_cliente" json:"nombreCliente,omitempty"`
	Folio         string `db:"folio" json:"folio"`

	Subtotal  types.Money `db:"subtotal" json:"subtotal"`
	Impuestos types.Money `db:"impuestos" json:"impuestos"`
	Descuento types.Money `db:"descuento" json:"descuento"`
	Total     types.Money `db:"total" json:"total"`

	MetodoPago  MetodoPago   `db:"metodo_pago" json:"metodoPago"`
	MontoPagado *types.Money `db:"monto_pagado" json:"montoPagado,omitempty"`
	Cambio      *types.Money `db:"cambio" json:"cambio,omitempty"`

	Estado            Estado     `db:"estado" json:"estado"`
	MotivoCancelacion *string    `db:"motivo_cancelacion" json:"motivoCancelacion,omitempty"`
	CanceladaEn       *time.Time `db:"cancelada_en" json:"canceladaEn,omitempty"`

	CreadoEn time.Time `db:"creado_en" json:"creadoEn"`

	Detalles []Detalle `db:"-" json:"detalles"`
}

// Detalle is one sale line. It snapshots product name, SKU, price and
// tax rate at sale time so later catalog edits never alter history.
type Detalle struct {
	ID       id.ID `db:"id" json:"id"`
	VentaID  id.ID `db:"venta_id" json:"ventaId"`
	NumLinea int   `db:"num_linea" json:"numLinea"`

	ProductoID     id.ID  `db:"producto_id" json:"productoId"`
	NombreProducto string `db:"nombre_producto" json:"nombreProducto"`
	CodigoBarras   string `db:"codigo_barras" json:"codigoBarras,omitempty"`

	Cantidad       types.Cantidad `db:"cantidad" json:"cantidad"`
	PrecioUnitario types.Money    `db:"precio_unitario" json:"precioUnitario"`
	TasaImpuesto   types.Money    `db:"tasa_impuesto" json:"tasaImpuesto"`

	Subtotal types.Money `db:"subtotal" json:"subtotal"`
	Impuesto types.Money `db:"impuesto" json:"impuesto"`
	Total    types.Money `db:"total" json:"total"`
}

// EstaCancelada reports whether the sale was cancelled.
func (v *Venta) EstaCancelada() bool {
	return v.Estado == EstadoCancelada
}

// NuevaVenta is the sale-creation request.
type NuevaVenta struct {
	SucursalID    id.ID
	UsuarioID     id.ID
	NombreCliente string
	MetodoPago    MetodoPago
	MontoPagado   *types.Money
	Items         []ItemNuevaVenta
}

// ItemNuevaVenta is one requested line.
type ItemNuevaVenta struct {
	ProductoID     id.ID
	Cantidad       types.Cantidad
	PrecioUnitario types.Money
}

// Validate checks the request shape before touching storage.
func (n *NuevaVenta) Validate() error {
	if id.IsNil(n.SucursalID) {
		return apperror.NewValidation("sucursal es requerida").WithDetail("field", "sucursalId")
	}
	if len(n.Items) == 0 {
		return apperror.NewValidation("la venta debe tener al menos un artículo").WithDetail("field", "items")
	}
	if err := ValidarMetodoPago(n.MetodoPago); err != nil {
		return err
	}
	for i, item := range n.Items {
		if id.IsNil(item.ProductoID) {
			return apperror.NewValidation("producto es requerido").
				WithDetail("field", "items").WithDetail("linea", i+1)
		}
		if !item.Cantidad.IsPositive() {
			return apperror.NewValidation("cantidad debe ser positiva").
				WithDetail("field", "items").WithDetail("linea", i+1)
		}
		if item.PrecioUnitario.IsNegative() {
			return apperror.NewValidation("precio unitario no puede ser negativo").
				WithDetail("field", "items").WithDetail("linea", i+1)
		}
	}
	if n.MontoPagado != nil && n.MontoPagado.IsNegative() {
		return apperror.NewValidation("monto pagado no puede ser negativo").WithDetail("field", "montoPagado")
	}
	return nil
}
