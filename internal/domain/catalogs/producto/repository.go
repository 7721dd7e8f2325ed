package producto

import (
	"context"

	"puntoventa/internal/core/id"
)

// ListFilter filters product listings.
type ListFilter struct {
	Busqueda    string
	SoloActivos bool
	Limit       int
	Offset      int
}

// Repository defines persistence operations for products.
// Every call is scoped by empresaID.
type Repository interface {
	Crear(ctx context.Context, p *Producto) error
	Actualizar(ctx context.Context, p *Producto) error
	ObtenerPorID(ctx context.Context, empresaID, productoID id.ID) (*Producto, error)
	ObtenerPorCodigoBarras(ctx context.Context, empresaID id.ID, codigo string) (*Producto, error)
	Listar(ctx context.Context, empresaID id.ID, filter ListFilter) ([]Producto, int64, error)
	Desactivar(ctx context.Context, empresaID, productoID id.ID) error
}

// Cache is an optional read-through cache for barcode lookups at the
// point of sale. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, empresaID id.ID, codigo string) (*Producto, bool)
	Set(ctx context.Context, p *Producto)
	Invalidate(ctx context.Context, empresaID id.ID, codigo string)
}
