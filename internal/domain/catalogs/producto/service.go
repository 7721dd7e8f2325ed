package producto

import (
	"context"
	"fmt"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/pkg/logger"
)

// Service provides business operations for the product catalog.
type Service struct {
	repo  Repository
	cache Cache // optional, nil disables caching
}

// NewService creates a product service.
func NewService(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Crear registers a new product.
func (s *Service) Crear(ctx context.Context, p *Producto) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.repo.Crear(ctx, p); err != nil {
		return fmt.Errorf("crear producto: %w", err)
	}
	logger.Info(ctx, "producto creado", "id", p.ID, "codigo_barras", p.CodigoBarras)
	return nil
}

// Actualizar updates a product and invalidates its cache entry.
func (s *Service) Actualizar(ctx context.Context, p *Producto) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.repo.Actualizar(ctx, p); err != nil {
		return err
	}
	if s.cache != nil && p.CodigoBarras != "" {
		s.cache.Invalidate(ctx, p.EmpresaID, p.CodigoBarras)
	}
	return nil
}

// ObtenerPorID retrieves a product by id.
func (s *Service) ObtenerPorID(ctx context.Context, empresaID, productoID id.ID) (*Producto, error) {
	return s.repo.ObtenerPorID(ctx, empresaID, productoID)
}

// ObtenerPorCodigoBarras resolves a barcode scan, read-through cached.
func (s *Service) ObtenerPorCodigoBarras(ctx context.Context, empresaID id.ID, codigo string) (*Producto, error) {
	if s.cache != nil {
		if p, ok := s.cache.Get(ctx, empresaID, codigo); ok {
			return p, nil
		}
	}

	p, err := s.repo.ObtenerPorCodigoBarras(ctx, empresaID, codigo)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, p)
	}
	return p, nil
}

// Existe reports whether the product exists for the tenant.
func (s *Service) Existe(ctx context.Context, empresaID, productoID id.ID) (bool, error) {
	_, err := s.repo.ObtenerPorID(ctx, empresaID, productoID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Listar returns products matching the filter.
func (s *Service) Listar(ctx context.Context, empresaID id.ID, filter ListFilter) ([]Producto, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.Listar(ctx, empresaID, filter)
}

// Desactivar soft-disables a product and drops it from the cache.
func (s *Service) Desactivar(ctx context.Context, empresaID, productoID id.ID) error {
	p, err := s.repo.ObtenerPorID(ctx, empresaID, productoID)
	if err != nil {
		return err
	}
	if err := s.repo.Desactivar(ctx, empresaID, productoID); err != nil {
		return err
	}
	if s.cache != nil && p.CodigoBarras != "" {
		s.cache.Invalidate(ctx, empresaID, p.CodigoBarras)
	}
	logger.Info(ctx, "producto desactivado", "id", productoID)
	return nil
}
