package venta

import (
	"context"
	"fmt"
	"time"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/tx"
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/catalogs/producto"
	"puntoventa/internal/domain/catalogs/sucursal"
	"puntoventa/internal/domain/registers/inventario"
	"puntoventa/pkg/folio"
	"puntoventa/pkg/logger"
)

// Service provides the point-of-sale transaction operations.
//
// Crear and Cancelar each run as ONE database transaction: the sale
// rows, the inventory debits/credits and the folio counter commit or
// roll back together. Balance rows are locked before the availability
// check, so concurrent sales on the same product serialize instead of
// racing the stock floor.
type Service struct {
	repo       Repository
	productos  *producto.Service
	sucursales *sucursal.Service
	inventario *inventario.Service
	folios     *folio.Service
	txManager  tx.Manager
}

// NewService creates a sale service.
func NewService(
	repo Repository,
	productos *producto.Service,
	sucursales *sucursal.Service,
	inv *inventario.Service,
	folios *folio.Service,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:       repo,
		productos:  productos,
		sucursales: sucursales,
		inventario: inv,
		folios:     folios,
		txManager:  txManager,
	}
}

// Crear validates the cart, computes totals, allocates the folio,
// persists the sale with its line items and debits inventory.
func (s *Service) Crear(ctx context.Context, empresaID id.ID, req NuevaVenta) (*Venta, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	suc, err := s.sucursales.ObtenerPorID(ctx, empresaID, req.SucursalID)
	if err != nil {
		return nil, err
	}

	var v *Venta
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// Lock balances and check availability first: a short line
		// fails the whole sale before anything is written.
		items := make([]inventario.ItemVenta, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, inventario.ItemVenta{
				ProductoID: item.ProductoID,
				Cantidad:   item.Cantidad,
			})
		}
		if err := s.inventario.VerificarDisponibilidad(ctx, empresaID, req.SucursalID, items); err != nil {
			return err
		}

		built, err := s.construirVenta(ctx, empresaID, suc, req)
		if err != nil {
			return err
		}

		f, err := s.folios.Next(ctx, empresaID, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("generar folio: %w", err)
		}
		built.Folio = f

		if err := s.repo.Crear(ctx, built); err != nil {
			return fmt.Errorf("crear venta: %w", err)
		}

		usuarioID := &built.UsuarioID
		if id.IsNil(built.UsuarioID) {
			usuarioID = nil
		}
		if err := s.inventario.Debitar(ctx, empresaID, req.SucursalID, built.ID, usuarioID, built.Folio, items); err != nil {
			return err
		}

		v = built
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "venta registrada",
		"venta_id", v.ID,
		"folio", v.Folio,
		"total", v.Total.String(),
		"lineas", len(v.Detalles),
	)
	return v, nil
}

// construirVenta loads products, snapshots line data and accumulates
// totals. Runs inside the Crear transaction.
func (s *Service) construirVenta(ctx context.Context, empresaID id.ID, suc *sucursal.Sucursal, req NuevaVenta) (*Venta, error) {
	v := &Venta{
		ID:            id.New(),
		EmpresaID:     empresaID,
		SucursalID:    req.SucursalID,
		UsuarioID:     req.UsuarioID,
		NombreCliente: req.NombreCliente,
		Subtotal:      types.ZeroMoney(),
		Impuestos:     types.ZeroMoney(),
		Descuento:     types.ZeroMoney(),
		Total:         types.ZeroMoney(),
		MetodoPago:    req.MetodoPago,
		Estado:        EstadoCompletada,
		CreadoEn:      time.Now().UTC(),
	}

	for i, item := range req.Items {
		prod, err := s.productos.ObtenerPorID(ctx, empresaID, item.ProductoID)
		if err != nil {
			return nil, err
		}

		tasa := prod.TasaEfectiva(suc.TasaImpuesto)
		subtotal := item.PrecioUnitario.Mul(item.Cantidad.Decimal()).Round(2)
		impuesto := subtotal.Mul(tasa).Round(2)

		detalle := Detalle{
			ID:             id.New(),
			VentaID:        v.ID,
			NumLinea:       i + 1,
			ProductoID:     prod.ID,
			NombreProducto: prod.Nombre,
			CodigoBarras:   prod.CodigoBarras,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			TasaImpuesto:   tasa,
			Subtotal:       subtotal,
			Impuesto:       impuesto,
			Total:          subtotal.Add(impuesto),
		}
		v.Detalles = append(v.Detalles, detalle)

		v.Subtotal = v.Subtotal.Add(detalle.Subtotal)
		v.Impuestos = v.Impuestos.Add(detalle.Impuesto)
	}
	v.Total = v.Subtotal.Add(v.Impuestos).Sub(v.Descuento)

	if req.MontoPagado != nil {
		if req.MetodoPago == MetodoEfectivo && req.MontoPagado.LessThan(v.Total) {
			return nil, apperror.NewValidation("monto pagado insuficiente").
				WithDetail("total", v.Total.String()).
				WithDetail("montoPagado", req.MontoPagado.String())
		}
		pagado := *req.MontoPagado
		cambio := pagado.Sub(v.Total)
		if cambio.IsNegative() {
			cambio = types.ZeroMoney()
		}
		v.MontoPagado = &pagado
		v.Cambio = &cambio
	}

	return v, nil
}

// Cancelar reverses a completed sale: credits every line back to
// inventory with compensating ledger rows and flips the state.
// Cancelling twice fails the second time.
func (s *Service) Cancelar(ctx context.Context, empresaID, ventaID, usuarioID id.ID, motivo string) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		v, err := s.repo.ObtenerParaActualizar(ctx, empresaID, ventaID)
		if err != nil {
			return err
		}
		if v.EstaCancelada() {
			return apperror.NewBusinessRule(apperror.CodeVentaCancelada, "la venta ya está cancelada").
				WithDetail("ventaId", ventaID.String()).
				WithDetail("folio", v.Folio)
		}

		items := make([]inventario.ItemVenta, 0, len(v.Detalles))
		for _, d := range v.Detalles {
			items = append(items, inventario.ItemVenta{
				ProductoID: d.ProductoID,
				Cantidad:   d.Cantidad,
			})
		}

		var uid *id.ID
		if !id.IsNil(usuarioID) {
			uid = &usuarioID
		}
		if err := s.inventario.Acreditar(ctx, empresaID, v.SucursalID, v.ID, uid, v.Folio, motivo, items); err != nil {
			return err
		}

		return s.repo.MarcarCancelada(ctx, empresaID, ventaID, motivo, time.Now().UTC())
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "venta cancelada", "venta_id", ventaID, "motivo", motivo)
	return nil
}

// ObtenerPorID retrieves a sale with its line items.
func (s *Service) ObtenerPorID(ctx context.Context, empresaID, ventaID id.ID) (*Venta, error) {
	return s.repo.ObtenerPorID(ctx, empresaID, ventaID)
}

// Listar returns sales matching the filter.
func (s *Service) Listar(ctx context.Context, empresaID id.ID, filter ListFilter) ([]Venta, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.Listar(ctx, empresaID, filter)
}
