// Package document_repo provides PostgreSQL implementations for the
// document repositories (sales and shifts).
package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/domain/documents/venta"
	"puntoventa/internal/infrastructure/storage/postgres"
)

const (
	ventasTable        = "doc_ventas"
	ventaDetallesTable = "doc_venta_detalles"
)

var ventaColumns = []string{
	"id", "empresa_id", "sucursal_id", "usuario_id",
	"nombre_cliente", "folio",
	"subtotal", "impuestos", "descuento", "total",
	"metodo_pago", "monto_pagado", "cambio",
	"estado", "motivo_cancelacion", "cancelada_en",
	"creado_en",
}

var detalleColumns = []string{
	"id", "venta_id", "num_linea",
	"producto_id", "nombre_producto", "codigo_barras",
	"cantidad", "precio_unitario", "tasa_impuesto",
	"subtotal", "impuesto", "total",
}

// VentaRepo implements venta.Repository.
type VentaRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewVentaRepo creates a sale repository.
func NewVentaRepo(txm *postgres.TxManager) *VentaRepo {
	return &VentaRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Crear inserts the sale and all its line items.
func (r *VentaRepo) Crear(ctx context.Context, v *venta.Venta) error {
	querier := r.txm.GetQuerier(ctx)

	q := r.builder.Insert(ventasTable).
		Columns(ventaColumns...).
		Values(
			v.ID, v.EmpresaID, v.SucursalID, v.UsuarioID,
			v.NombreCliente, v.Folio,
			v.Subtotal, v.Impuestos, v.Descuento, v.Total,
			v.MetodoPago, v.MontoPagado, v.Cambio,
			v.Estado, v.MotivoCancelacion, v.CanceladaEn,
			v.CreadoEn,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert venta: %w", err)
	}

	if len(v.Detalles) == 0 {
		return nil
	}

	dq := r.builder.Insert(ventaDetallesTable).Columns(detalleColumns...)
	for _, d := range v.Detalles {
		dq = dq.Values(
			d.ID, d.VentaID, d.NumLinea,
			d.ProductoID, d.NombreProducto, d.CodigoBarras,
			d.Cantidad, d.PrecioUnitario, d.TasaImpuesto,
			d.Subtotal, d.Impuesto, d.Total,
		)
	}
	sql, args, err = dq.ToSql()
	if err != nil {
		return fmt.Errorf("build insert detalles: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert detalles: %w", err)
	}
	return nil
}

// ObtenerPorID returns the sale with its line items.
func (r *VentaRepo) ObtenerPorID(ctx context.Context, empresaID, ventaID id.ID) (*venta.Venta, error) {
	return r.obtener(ctx, empresaID, ventaID, false)
}

// ObtenerParaActualizar returns the sale with its line items holding a
// row lock on the sale. Must be called inside a transaction.
func (r *VentaRepo) ObtenerParaActualizar(ctx context.Context, empresaID, ventaID id.ID) (*venta.Venta, error) {
	if r.txm.GetTx(ctx) == nil {
		return nil, fmt.Errorf("venta lock requires a transaction")
	}
	return r.obtener(ctx, empresaID, ventaID, true)
}

func (r *VentaRepo) obtener(ctx context.Context, empresaID, ventaID id.ID, forUpdate bool) (*venta.Venta, error) {
	q := r.builder.Select(ventaColumns...).
		From(ventasTable).
		Where(squirrel.Eq{"id": ventaID, "empresa_id": empresaID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var v venta.Venta
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &v, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("venta", ventaID.String())
		}
		return nil, fmt.Errorf("get venta: %w", err)
	}

	detalles, err := r.detalles(ctx, ventaID)
	if err != nil {
		return nil, err
	}
	v.Detalles = detalles
	return &v, nil
}

func (r *VentaRepo) detalles(ctx context.Context, ventaID id.ID) ([]venta.Detalle, error) {
	q := r.builder.Select(detalleColumns...).
		From(ventaDetallesTable).
		Where(squirrel.Eq{"venta_id": ventaID}).
		OrderBy("num_linea")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var detalles []venta.Detalle
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &detalles, sql, args...); err != nil {
		return nil, fmt.Errorf("select detalles: %w", err)
	}
	return detalles, nil
}

// MarcarCancelada flips the sale to cancelada. The WHERE clause keeps
// the transition one-way even outside the service path.
func (r *VentaRepo) MarcarCancelada(ctx context.Context, empresaID, ventaID id.ID, motivo string, canceladaEn time.Time) error {
	q := r.builder.Update(ventasTable).
		Set("estado", venta.EstadoCancelada).
		Set("motivo_cancelacion", motivo).
		Set("cancelada_en", canceladaEn).
		Where(squirrel.Eq{
			"id":         ventaID,
			"empresa_id": empresaID,
			"estado":     venta.EstadoCompletada,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("marcar cancelada: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("venta", ventaID.String())
	}
	return nil
}

// Listar returns sales matching the filter, newest first, with the
// total count. Line items are not loaded.
func (r *VentaRepo) Listar(ctx context.Context, empresaID id.ID, filter venta.ListFilter) ([]venta.Venta, int64, error) {
	base := squirrel.And{squirrel.Eq{"empresa_id": empresaID}}
	if filter.SucursalID != nil {
		base = append(base, squirrel.Eq{"sucursal_id": *filter.SucursalID})
	}
	if filter.Estado != nil {
		base = append(base, squirrel.Eq{"estado": *filter.Estado})
	}
	if filter.Desde != nil {
		base = append(base, squirrel.GtOrEq{"creado_en": *filter.Desde})
	}
	if filter.Hasta != nil {
		base = append(base, squirrel.LtOrEq{"creado_en": *filter.Hasta})
	}

	countSQL, countArgs, err := r.builder.Select("COUNT(*)").From(ventasTable).Where(base).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ventas: %w", err)
	}

	q := r.builder.Select(ventaColumns...).
		From(ventasTable).
		Where(base).
		OrderBy("creado_en DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var ventas []venta.Venta
	if err := pgxscan.Select(ctx, querier, &ventas, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("select ventas: %w", err)
	}
	return ventas, total, nil
}

var _ venta.Repository = (*VentaRepo)(nil)
