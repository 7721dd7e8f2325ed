package dto

import (
	"time"

	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/catalogs/producto"
)

// CreateProductoRequest is the product-creation body.
type CreateProductoRequest struct {
	Nombre         string       `json:"nombre" binding:"required"`
	CodigoBarras   string       `json:"codigoBarras"`
	UnidadMedida   string       `json:"unidadMedida"`
	Precio         types.Money  `json:"precio"`
	AplicaImpuesto *bool        `json:"aplicaImpuesto"`
	TasaImpuesto   *types.Money `json:"tasaImpuesto"`
}

// ToProducto builds the domain entity for the tenant.
func (r *CreateProductoRequest) ToProducto(empresaID id.ID) *producto.Producto {
	p := producto.NuevoProducto(empresaID, r.Nombre, r.CodigoBarras, r.UnidadMedida, r.Precio)
	if r.AplicaImpuesto != nil {
		p.AplicaImpuesto = *r.AplicaImpuesto
	}
	p.TasaImpuesto = r.TasaImpuesto
	return p
}

// UpdateProductoRequest is the product-update body. Only provided
// fields are applied.
type UpdateProductoRequest struct {
	Nombre         *string      `json:"nombre"`
	CodigoBarras   *string      `json:"codigoBarras"`
	UnidadMedida   *string      `json:"unidadMedida"`
	Precio         *types.Money `json:"precio"`
	AplicaImpuesto *bool        `json:"aplicaImpuesto"`
	TasaImpuesto   *types.Money `json:"tasaImpuesto"`
}

// ApplyTo mutates the existing product with the provided fields.
func (r *UpdateProductoRequest) ApplyTo(p *producto.Producto) {
	if r.Nombre != nil {
		p.Nombre = *r.Nombre
	}
	if r.CodigoBarras != nil {
		p.CodigoBarras = *r.CodigoBarras
	}
	if r.UnidadMedida != nil {
		p.UnidadMedida = *r.UnidadMedida
	}
	if r.Precio != nil {
		p.Precio = *r.Precio
	}
	if r.AplicaImpuesto != nil {
		p.AplicaImpuesto = *r.AplicaImpuesto
	}
	if r.TasaImpuesto != nil {
		p.TasaImpuesto = r.TasaImpuesto
	}
	p.ActualizadoEn = time.Now().UTC()
}

// ProductoListResponse is the product listing body.
type ProductoListResponse struct {
	Productos []producto.Producto `json:"productos"`
	Meta      ListMeta            `json:"meta"`
}
