// Package sucursal provides the branch catalog. Each branch holds its
// own inventory and carries the default tax rate applied to taxable
// products without an override.
package sucursal

import (
	"context"
	"time"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
)

// Sucursal is a physical location.
type Sucursal struct {
	ID        id.ID `db:"id" json:"id"`
	EmpresaID id.ID `db:"empresa_id" json:"empresaId"`

	Nombre string `db:"nombre" json:"nombre"`

	// TasaImpuesto is the branch default tax rate (e.g. 0.16).
	TasaImpuesto types.Money `db:"tasa_impuesto" json:"tasaImpuesto"`

	Activa   bool      `db:"activa" json:"activa"`
	CreadoEn time.Time `db:"creado_en" json:"creadoEn"`
}

// Nueva creates a branch with generated ID.
func Nueva(empresaID id.ID, nombre string, tasaImpuesto types.Money) *Sucursal {
	return &Sucursal{
		ID:           id.New(),
		EmpresaID:    empresaID,
		Nombre:       nombre,
		TasaImpuesto: tasaImpuesto,
		Activa:       true,
		CreadoEn:     time.Now().UTC(),
	}
}

// Validate checks invariants before persisting.
func (s *Sucursal) Validate() error {
	if id.IsNil(s.EmpresaID) {
		return apperror.NewValidation("empresa es requerida").WithDetail("field", "empresaId")
	}
	if s.Nombre == "" {
		return apperror.NewValidation("nombre es requerido").WithDetail("field", "nombre")
	}
	if s.TasaImpuesto.IsNegative() {
		return apperror.NewValidation("tasa de impuesto no puede ser negativa").WithDetail("field", "tasaImpuesto")
	}
	return nil
}

// Repository defines persistence operations for branches.
type Repository interface {
	Crear(ctx context.Context, s *Sucursal) error
	ObtenerPorID(ctx context.Context, empresaID, sucursalID id.ID) (*Sucursal, error)
	Listar(ctx context.Context, empresaID id.ID) ([]Sucursal, error)
}

// Service provides business operations for branches.
type Service struct {
	repo Repository
}

// NewService creates a branch service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Crear registers a new branch.
func (s *Service) Crear(ctx context.Context, b *Sucursal) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return s.repo.Crear(ctx, b)
}

// ObtenerPorID retrieves a branch by id.
func (s *Service) ObtenerPorID(ctx context.Context, empresaID, sucursalID id.ID) (*Sucursal, error) {
	return s.repo.ObtenerPorID(ctx, empresaID, sucursalID)
}

// Listar returns all branches of the tenant.
func (s *Service) Listar(ctx context.Context, empresaID id.ID) ([]Sucursal, error) {
	return s.repo.Listar(ctx, empresaID)
}
