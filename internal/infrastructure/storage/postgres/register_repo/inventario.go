// Package register_repo provides PostgreSQL implementations for the
// inventory register: balances plus the append-only movement ledger.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"puntoventa/internal/core/id"
	"puntoventa/internal/domain/registers/inventario"
	"puntoventa/internal/infrastructure/storage/postgres"
)

const (
	existenciasTable = "reg_existencias"
	movimientosTable = "reg_movimientos_inventario"
)

var movimientoColumns = []string{
	"id", "empresa_id", "producto_id", "sucursal_id", "tipo",
	"cantidad", "cantidad_anterior", "cantidad_nueva",
	"documento_tipo", "documento_id", "usuario_id", "observaciones",
	"creado_en",
}

var existenciaColumns = []string{
	"empresa_id", "producto_id", "sucursal_id",
	"cantidad", "cantidad_reservada", "cantidad_disponible",
	"actualizado_en",
}

// InventarioRepo implements inventario.Repository.
type InventarioRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewInventarioRepo creates an inventory register repository.
func NewInventarioRepo(txm *postgres.TxManager) *InventarioRepo {
	return &InventarioRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ObtenerExistencia returns the balance row, or a zero-valued row when
// none exists yet.
func (r *InventarioRepo) ObtenerExistencia(ctx context.Context, empresaID, productoID, sucursalID id.ID) (inventario.Existencia, error) {
	q := r.builder.Select(existenciaColumns...).
		From(existenciasTable).
		Where(squirrel.Eq{
			"empresa_id":  empresaID,
			"producto_id": productoID,
			"sucursal_id": sucursalID,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return inventario.Existencia{}, fmt.Errorf("build query: %w", err)
	}

	var e inventario.Existencia
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return inventario.Existencia{
				EmpresaID:  empresaID,
				ProductoID: productoID,
				SucursalID: sucursalID,
			}, nil
		}
		return e, fmt.Errorf("get existencia: %w", err)
	}
	return e, nil
}

// ObtenerExistenciaParaActualizar returns the balance holding a row
// lock. The row is inserted first when absent so concurrent first
// movements of a product serialize on it. Must run inside a transaction.
func (r *InventarioRepo) ObtenerExistenciaParaActualizar(ctx context.Context, empresaID, productoID, sucursalID id.ID) (inventario.Existencia, error) {
	var e inventario.Existencia
	if r.txm.GetTx(ctx) == nil {
		return e, fmt.Errorf("existencia lock requires a transaction")
	}

	querier := r.txm.GetQuerier(ctx)

	insertSQL := `
		INSERT INTO reg_existencias (empresa_id, producto_id, sucursal_id, cantidad, cantidad_reservada, cantidad_disponible, actualizado_en)
		VALUES ($1, $2, $3, 0, 0, 0, NOW())
		ON CONFLICT (empresa_id, producto_id, sucursal_id) DO NOTHING
	`
	if _, err := querier.Exec(ctx, insertSQL, empresaID, productoID, sucursalID); err != nil {
		return e, fmt.Errorf("ensure existencia: %w", err)
	}

	lockSQL := `
		SELECT empresa_id, producto_id, sucursal_id,
		       cantidad, cantidad_reservada, cantidad_disponible,
		       actualizado_en
		FROM reg_existencias
		WHERE empresa_id = $1 AND producto_id = $2 AND sucursal_id = $3
		FOR UPDATE
	`
	if err := pgxscan.Get(ctx, querier, &e, lockSQL, empresaID, productoID, sucursalID); err != nil {
		return e, fmt.Errorf("lock existencia: %w", err)
	}
	return e, nil
}

// GuardarExistencia persists an updated balance.
func (r *InventarioRepo) GuardarExistencia(ctx context.Context, e *inventario.Existencia) error {
	q := r.builder.Update(existenciasTable).
		Set("cantidad", e.Cantidad).
		Set("cantidad_reservada", e.CantidadReservada).
		Set("cantidad_disponible", e.CantidadDisponible).
		Set("actualizado_en", e.ActualizadoEn).
		Where(squirrel.Eq{
			"empresa_id":  e.EmpresaID,
			"producto_id": e.ProductoID,
			"sucursal_id": e.SucursalID,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update existencia: %w", err)
	}
	return nil
}

// CrearMovimiento appends one ledger row.
func (r *InventarioRepo) CrearMovimiento(ctx context.Context, m *inventario.MovimientoInventario) error {
	q := r.builder.Insert(movimientosTable).
		Columns(movimientoColumns...).
		Values(
			m.ID, m.EmpresaID, m.ProductoID, m.SucursalID, m.Tipo,
			m.Cantidad, m.CantidadAnterior, m.CantidadNueva,
			m.DocumentoTipo, m.DocumentoID, m.UsuarioID, m.Observaciones,
			m.CreadoEn,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movimiento: %w", err)
	}
	return nil
}

// ListarMovimientos returns ledger history, newest first.
func (r *InventarioRepo) ListarMovimientos(ctx context.Context, empresaID id.ID, filter inventario.MovementFilter) ([]inventario.MovimientoInventario, error) {
	q := r.builder.Select(movimientoColumns...).
		From(movimientosTable).
		Where(squirrel.Eq{"empresa_id": empresaID})

	if filter.ProductoID != nil {
		q = q.Where(squirrel.Eq{"producto_id": *filter.ProductoID})
	}
	if filter.SucursalID != nil {
		q = q.Where(squirrel.Eq{"sucursal_id": *filter.SucursalID})
	}
	if filter.Tipo != nil {
		q = q.Where(squirrel.Eq{"tipo": *filter.Tipo})
	}
	if filter.Desde != nil {
		q = q.Where(squirrel.GtOrEq{"creado_en": *filter.Desde})
	}
	if filter.Hasta != nil {
		q = q.Where(squirrel.LtOrEq{"creado_en": *filter.Hasta})
	}

	q = q.OrderBy("creado_en DESC", "id DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movimientos []inventario.MovimientoInventario
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movimientos, sql, args...); err != nil {
		return nil, fmt.Errorf("select movimientos: %w", err)
	}
	return movimientos, nil
}

// ExistenciasPorSucursal returns all non-zero balances of a branch.
func (r *InventarioRepo) ExistenciasPorSucursal(ctx context.Context, empresaID, sucursalID id.ID) ([]inventario.Existencia, error) {
	q := r.builder.Select(existenciaColumns...).
		From(existenciasTable).
		Where(squirrel.Eq{"empresa_id": empresaID, "sucursal_id": sucursalID}).
		Where(squirrel.NotEq{"cantidad": int64(0)}).
		OrderBy("producto_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var existencias []inventario.Existencia
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &existencias, sql, args...); err != nil {
		return nil, fmt.Errorf("select existencias: %w", err)
	}
	return existencias, nil
}

var _ inventario.Repository = (*InventarioRepo)(nil)
