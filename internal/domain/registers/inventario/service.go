package inventario

import (
	"context"
	"fmt"
	"time"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/tx"
	"puntoventa/internal/core/types"
	"puntoventa/pkg/logger"
)

// ProductLookup is the slice of the product catalog the register needs.
type ProductLookup interface {
	Existe(ctx context.Context, empresaID, productoID id.ID) (bool, error)
}

// Service provides business operations for the inventory register.
// Every mutation runs inside a transaction and serializes access to
// the touched balance rows with row locks, so a concurrent salida can
// never drive a balance negative.
type Service struct {
	repo      Repository
	productos ProductLookup
	txManager tx.Manager
}

// NewService creates an inventory register service.
func NewService(repo Repository, productos ProductLookup, txManager tx.Manager) *Service {
	return &Service{repo: repo, productos: productos, txManager: txManager}
}

// AjusteInventario is a manual stock adjustment request.
type AjusteInventario struct {
	ProductoID    id.ID
	SucursalID    id.ID
	Tipo          TipoMovimiento // entrada | salida
	Cantidad      types.Cantidad
	Motivo        string
	Observaciones string
	UsuarioID     *id.ID
}

// ResultadoAjuste reports the balance around an adjustment.
type ResultadoAjuste struct {
	CantidadAnterior types.Cantidad
	CantidadNueva    types.Cantidad
}

// Ajustar applies a manual adjustment, appending one ajuste_manual
// ledger row. A salida that would leave the balance negative is
// rejected and nothing is persisted.
func (s *Service) Ajustar(ctx context.Context, empresaID id.ID, aj AjusteInventario) (ResultadoAjuste, error) {
	var res ResultadoAjuste

	if aj.Tipo != TipoEntrada && aj.Tipo != TipoSalida {
		return res, apperror.NewValidation("tipo debe ser entrada o salida").WithDetail("field", "tipo")
	}
	if !aj.Cantidad.IsPositive() {
		return res, apperror.NewValidation("cantidad debe ser positiva").WithDetail("field", "cantidad")
	}
	if aj.Motivo == "" {
		return res, apperror.NewValidation("motivo es requerido").WithDetail("field", "motivo")
	}

	if s.productos != nil {
		exists, err := s.productos.Existe(ctx, empresaID, aj.ProductoID)
		if err != nil {
			return res, err
		}
		if !exists {
			return res, apperror.NewNotFound("producto", aj.ProductoID.String())
		}
	}

	delta := aj.Cantidad
	if aj.Tipo == TipoSalida {
		delta = delta.Neg()
	}

	observaciones := aj.Motivo
	if aj.Observaciones != "" {
		observaciones = fmt.Sprintf("%s: %s", aj.Motivo, aj.Observaciones)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		anterior, nueva, err := s.aplicarDelta(ctx, empresaID, movimientoSpec{
			ProductoID:    aj.ProductoID,
			SucursalID:    aj.SucursalID,
			Delta:         delta,
			Tipo:          aj.Tipo,
			DocumentoTipo: DocAjusteManual,
			UsuarioID:     aj.UsuarioID,
			Observaciones: observaciones,
		})
		if err != nil {
			return err
		}
		res.CantidadAnterior = anterior
		res.CantidadNueva = nueva
		return nil
	})
	if err != nil {
		return ResultadoAjuste{}, err
	}

	logger.Info(ctx, "ajuste de inventario aplicado",
		"producto_id", aj.ProductoID,
		"sucursal_id", aj.SucursalID,
		"tipo", aj.Tipo,
		"cantidad", aj.Cantidad.String(),
	)
	return res, nil
}

// ItemVenta references one sale line for debit/credit operations.
type ItemVenta struct {
	ProductoID id.ID
	Cantidad   types.Cantidad
}

// VerificarDisponibilidad locks the balance rows for the given items
// and fails when any available quantity is short. Must run inside the
// caller's transaction; the locks are held until it ends.
func (s *Service) VerificarDisponibilidad(ctx context.Context, empresaID, sucursalID id.ID, items []ItemVenta) error {
	for _, item := range items {
		existencia, err := s.repo.ObtenerExistenciaParaActualizar(ctx, empresaID, item.ProductoID, sucursalID)
		if err != nil {
			return fmt.Errorf("obtener existencia %s: %w", item.ProductoID, err)
		}
		if existencia.CantidadDisponible < item.Cantidad {
			return apperror.NewStockInsuficiente(
				item.ProductoID.String(),
				item.Cantidad.Float64(),
				existencia.CantidadDisponible.Float64(),
			)
		}
	}
	return nil
}

// Debitar reduces balances for a completed sale, one venta-tagged
// ledger row per item. Runs in the caller's transaction when present.
func (s *Service) Debitar(ctx context.Context, empresaID, sucursalID, ventaID id.ID, usuarioID *id.ID, folio string, items []ItemVenta) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, item := range items {
			if !item.Cantidad.IsPositive() {
				return apperror.NewValidation("cantidad debe ser positiva").WithDetail("productoId", item.ProductoID.String())
			}
			_, _, err := s.aplicarDelta(ctx, empresaID, movimientoSpec{
				ProductoID:    item.ProductoID,
				SucursalID:    sucursalID,
				Delta:         item.Cantidad.Neg(),
				Tipo:          TipoVenta,
				DocumentoTipo: DocVenta,
				DocumentoID:   &ventaID,
				UsuarioID:     usuarioID,
				Observaciones: fmt.Sprintf("venta %s", folio),
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Acreditar restores balances for a cancelled sale, one
// cancelacion_venta-tagged ledger row per item.
func (s *Service) Acreditar(ctx context.Context, empresaID, sucursalID, ventaID id.ID, usuarioID *id.ID, folio, motivo string, items []ItemVenta) error {
	observaciones := fmt.Sprintf("cancelación venta %s", folio)
	if motivo != "" {
		observaciones = fmt.Sprintf("%s: %s", observaciones, motivo)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, item := range items {
			_, _, err := s.aplicarDelta(ctx, empresaID, movimientoSpec{
				ProductoID:    item.ProductoID,
				SucursalID:    sucursalID,
				Delta:         item.Cantidad,
				Tipo:          TipoEntrada,
				DocumentoTipo: DocCancelacionVenta,
				DocumentoID:   &ventaID,
				UsuarioID:     usuarioID,
				Observaciones: observaciones,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ObtenerExistencia returns the balance for one (producto, sucursal).
func (s *Service) ObtenerExistencia(ctx context.Context, empresaID, productoID, sucursalID id.ID) (Existencia, error) {
	return s.repo.ObtenerExistencia(ctx, empresaID, productoID, sucursalID)
}

// Kardex returns ledger history, newest first.
func (s *Service) Kardex(ctx context.Context, empresaID id.ID, filter MovementFilter) ([]MovimientoInventario, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	return s.repo.ListarMovimientos(ctx, empresaID, filter)
}

// ExistenciasPorSucursal returns all non-zero balances of a branch.
func (s *Service) ExistenciasPorSucursal(ctx context.Context, empresaID, sucursalID id.ID) ([]Existencia, error) {
	return s.repo.ExistenciasPorSucursal(ctx, empresaID, sucursalID)
}

// movimientoSpec describes one balance change plus its ledger row.
type movimientoSpec struct {
	ProductoID    id.ID
	SucursalID    id.ID
	Delta         types.Cantidad
	Tipo          TipoMovimiento
	DocumentoTipo string
	DocumentoID   *id.ID
	UsuarioID     *id.ID
	Observaciones string
}

// aplicarDelta is the single path through which balances change:
// lock (or create) the row, apply the delta with the floor-at-zero
// check, restore the availability invariant, persist, append the
// ledger row. Must run inside a transaction.
func (s *Service) aplicarDelta(ctx context.Context, empresaID id.ID, spec movimientoSpec) (types.Cantidad, types.Cantidad, error) {
	existencia, err := s.repo.ObtenerExistenciaParaActualizar(ctx, empresaID, spec.ProductoID, spec.SucursalID)
	if err != nil {
		return 0, 0, fmt.Errorf("obtener existencia: %w", err)
	}

	anterior := existencia.Cantidad
	nueva := anterior + spec.Delta
	if nueva.IsNegative() {
		return 0, 0, apperror.NewStockInsuficiente(
			spec.ProductoID.String(),
			spec.Delta.Neg().Float64(),
			anterior.Float64(),
		)
	}

	existencia.Cantidad = nueva
	existencia.Recalcular()
	if err := s.repo.GuardarExistencia(ctx, &existencia); err != nil {
		return 0, 0, fmt.Errorf("guardar existencia: %w", err)
	}

	mov := &MovimientoInventario{
		ID:               id.New(),
		EmpresaID:        empresaID,
		ProductoID:       spec.ProductoID,
		SucursalID:       spec.SucursalID,
		Tipo:             spec.Tipo,
		Cantidad:         spec.Delta,
		CantidadAnterior: anterior,
		CantidadNueva:    nueva,
		DocumentoTipo:    spec.DocumentoTipo,
		DocumentoID:      spec.DocumentoID,
		UsuarioID:        spec.UsuarioID,
		Observaciones:    spec.Observaciones,
		CreadoEn:         time.Now().UTC(),
	}
	if err := s.repo.CrearMovimiento(ctx, mov); err != nil {
		return 0, 0, fmt.Errorf("crear movimiento: %w", err)
	}

	return anterior, nueva, nil
}
