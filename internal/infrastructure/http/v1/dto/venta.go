package dto

import (
	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/documents/venta"
)

// CreateVentaRequest is the sale-creation body.
type CreateVentaRequest struct {
	SucursalID    string                   `json:"sucursalId" binding:"required"`
	NombreCliente string                   `json:"nombreCliente"`
	MetodoPago    string                   `json:"metodoPago" binding:"required"`
	MontoPagado   *types.Money             `json:"montoPagado"`
	Items         []CreateVentaItemRequest `json:"items" binding:"required"`
}

// CreateVentaItemRequest is one requested line.
type CreateVentaItemRequest struct {
	ProductoID     string         `json:"productoId" binding:"required"`
	Cantidad       types.Cantidad `json:"cantidad" binding:"required"`
	PrecioUnitario types.Money    `json:"precioUnitario"`
}

// ToNuevaVenta converts the request into the domain command.
func (r *CreateVentaRequest) ToNuevaVenta(usuarioID id.ID) (venta.NuevaVenta, error) {
	sucursalID, err := id.Parse(r.SucursalID)
	if err != nil {
		return venta.NuevaVenta{}, apperror.NewValidation("sucursalId inválido")
	}

	items := make([]venta.ItemNuevaVenta, 0, len(r.Items))
	for i, item := range r.Items {
		productoID, err := id.Parse(item.ProductoID)
		if err != nil {
			return venta.NuevaVenta{}, apperror.NewValidation("productoId inválido").
				WithDetail("linea", i+1)
		}
		items = append(items, venta.ItemNuevaVenta{
			ProductoID:     productoID,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
		})
	}

	return venta.NuevaVenta{
		SucursalID:    sucursalID,
		UsuarioID:     usuarioID,
		NombreCliente: r.NombreCliente,
		MetodoPago:    venta.MetodoPago(r.MetodoPago),
		MontoPagado:   r.MontoPagado,
		Items:         items,
	}, nil
}

// CreateVentaResponse acknowledges a registered sale.
type CreateVentaResponse struct {
	Success bool         `json:"success"`
	VentaID string       `json:"ventaId"`
	Folio   string       `json:"folio"`
	Total   types.Money  `json:"total"`
	Cambio  *types.Money `json:"cambio,omitempty"`
}

// CancelVentaRequest carries the optional cancellation reason.
type CancelVentaRequest struct {
	Motivo string `json:"motivo"`
}

// VentaListResponse is the sale listing body.
type VentaListResponse struct {
	Ventas []venta.Venta `json:"ventas"`
	Meta   ListMeta      `json:"meta"`
}
