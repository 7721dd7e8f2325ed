// Package caja provides the cash register catalog.
package caja

import (
	"context"
	"time"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
)

// Caja is a physical cash register within a branch. Shifts are opened
// against a caja; an inactive caja cannot open shifts.
type Caja struct {
	ID         id.ID `db:"id" json:"id"`
	EmpresaID  id.ID `db:"empresa_id" json:"empresaId"`
	SucursalID id.ID `db:"sucursal_id" json:"sucursalId"`

	Nombre   string    `db:"nombre" json:"nombre"`
	Activa   bool      `db:"activa" json:"activa"`
	CreadoEn time.Time `db:"creado_en" json:"creadoEn"`
}

// Nueva creates a register with generated ID.
func Nueva(empresaID, sucursalID id.ID, nombre string) *Caja {
	return &Caja{
		ID:         id.New(),
		EmpresaID:  empresaID,
		SucursalID: sucursalID,
		Nombre:     nombre,
		Activa:     true,
		CreadoEn:   time.Now().UTC(),
	}
}

// Validate checks invariants before persisting.
func (c *Caja) Validate() error {
	if id.IsNil(c.EmpresaID) {
		return apperror.NewValidation("empresa es requerida").WithDetail("field", "empresaId")
	}
	if id.IsNil(c.SucursalID) {
		return apperror.NewValidation("sucursal es requerida").WithDetail("field", "sucursalId")
	}
	if c.Nombre == "" {
		return apperror.NewValidation("nombre es requerido").WithDetail("field", "nombre")
	}
	return nil
}

// Repository defines persistence operations for registers.
type Repository interface {
	Crear(ctx context.Context, c *Caja) error
	ObtenerPorID(ctx context.Context, empresaID, cajaID id.ID) (*Caja, error)
	ListarPorSucursal(ctx context.Context, empresaID, sucursalID id.ID) ([]Caja, error)
}

// Service provides business operations for registers.
type Service struct {
	repo Repository
}

// NewService creates a register service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Crear registers a new caja.
func (s *Service) Crear(ctx context.Context, c *Caja) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.repo.Crear(ctx, c)
}

// ObtenerPorID retrieves a register by id.
func (s *Service) ObtenerPorID(ctx context.Context, empresaID, cajaID id.ID) (*Caja, error) {
	return s.repo.ObtenerPorID(ctx, empresaID, cajaID)
}

// ListarPorSucursal returns the registers of a branch.
func (s *Service) ListarPorSucursal(ctx context.Context, empresaID, sucursalID id.ID) ([]Caja, error) {
	return s.repo.ListarPorSucursal(ctx, empresaID, sucursalID)
}
