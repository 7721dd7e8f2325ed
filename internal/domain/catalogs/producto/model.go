// Package producto provides the product catalog.
package producto

import (
	"time"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
)

// Producto is a sellable item. Identity is immutable; price and tax
// fields are mutable through catalog management.
type Producto struct {
	ID        id.ID `db:"id" json:"id"`
	EmpresaID id.ID `db:"empresa_id" json:"empresaId"`

	Nombre       string `db:"nombre" json:"nombre"`
	CodigoBarras string `db:"codigo_barras" json:"codigoBarras"`
	UnidadMedida string `db:"unidad_medida" json:"unidadMedida"`

	Precio types.Money `db:"precio" json:"precio"`

	// AplicaImpuesto marks the product as taxable. TasaImpuesto, when
	// set, overrides the branch default rate.
	AplicaImpuesto bool         `db:"aplica_impuesto" json:"aplicaImpuesto"`
	TasaImpuesto   *types.Money `db:"tasa_impuesto" json:"tasaImpuesto,omitempty"`

	Activo        bool      `db:"activo" json:"activo"`
	CreadoEn      time.Time `db:"creado_en" json:"creadoEn"`
	ActualizadoEn time.Time `db:"actualizado_en" json:"actualizadoEn"`
}

// NuevoProducto creates a product with generated ID.
func NuevoProducto(empresaID id.ID, nombre, codigoBarras, unidadMedida string, precio types.Money) *Producto {
	now := time.Now().UTC()
	return &Producto{
		ID:             id.New(),
		EmpresaID:      empresaID,
		Nombre:         nombre,
		CodigoBarras:   codigoBarras,
		UnidadMedida:   unidadMedida,
		Precio:         precio,
		AplicaImpuesto: true,
		Activo:         true,
		CreadoEn:       now,
		ActualizadoEn:  now,
	}
}

// TasaEfectiva returns the tax rate to apply on a sale line:
// zero when the product is tax-exempt, the product override when set,
// otherwise the branch default.
func (p *Producto) TasaEfectiva(tasaSucursal types.Money) types.Money {
	if !p.AplicaImpuesto {
		return types.ZeroMoney()
	}
	if p.TasaImpuesto != nil {
		return *p.TasaImpuesto
	}
	return tasaSucursal
}

// Validate checks invariants before persisting.
func (p *Producto) Validate() error {
	if id.IsNil(p.EmpresaID) {
		return apperror.NewValidation("empresa es requerida").WithDetail("field", "empresaId")
	}
	if p.Nombre == "" {
		return apperror.NewValidation("nombre es requerido").WithDetail("field", "nombre")
	}
	if p.Precio.IsNegative() {
		return apperror.NewValidation("precio no puede ser negativo").WithDetail("field", "precio")
	}
	if p.TasaImpuesto != nil && p.TasaImpuesto.IsNegative() {
		return apperror.NewValidation("tasa de impuesto no puede ser negativa").WithDetail("field", "tasaImpuesto")
	}
	return nil
}
