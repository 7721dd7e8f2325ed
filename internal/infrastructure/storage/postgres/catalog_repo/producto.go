// Package catalog_repo provides PostgreSQL implementations for the
// catalog repositories. All queries are scoped by empresa_id.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/domain/catalogs/producto"
	"puntoventa/internal/infrastructure/storage/postgres"
)

const productosTable = "cat_productos"

var productoColumns = []string{
	"id", "empresa_id", "nombre", "codigo_barras", "unidad_medida",
	"precio", "aplica_impuesto", "tasa_impuesto",
	"activo", "creado_en", "actualizado_en",
}

// ProductoRepo implements producto.Repository.
type ProductoRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewProductoRepo creates a product repository.
func NewProductoRepo(txm *postgres.TxManager) *ProductoRepo {
	return &ProductoRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Crear inserts a product.
func (r *ProductoRepo) Crear(ctx context.Context, p *producto.Producto) error {
	q := r.builder.Insert(productosTable).
		Columns(productoColumns...).
		Values(
			p.ID, p.EmpresaID, p.Nombre, p.CodigoBarras, p.UnidadMedida,
			p.Precio, p.AplicaImpuesto, p.TasaImpuesto,
			p.Activo, p.CreadoEn, p.ActualizadoEn,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err, "") {
			return apperror.NewDuplicate("producto", "código de barras", p.CodigoBarras)
		}
		return fmt.Errorf("insert producto: %w", err)
	}
	return nil
}

// Actualizar updates the mutable fields of a product.
func (r *ProductoRepo) Actualizar(ctx context.Context, p *producto.Producto) error {
	q := r.builder.Update(productosTable).
		Set("nombre", p.Nombre).
		Set("codigo_barras", p.CodigoBarras).
		Set("unidad_medida", p.UnidadMedida).
		Set("precio", p.Precio).
		Set("aplica_impuesto", p.AplicaImpuesto).
		Set("tasa_impuesto", p.TasaImpuesto).
		Set("activo", p.Activo).
		Set("actualizado_en", p.ActualizadoEn).
		Where(squirrel.Eq{"id": p.ID, "empresa_id": p.EmpresaID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsUniqueViolation(err, "") {
			return apperror.NewDuplicate("producto", "código de barras", p.CodigoBarras)
		}
		return fmt.Errorf("update producto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("producto", p.ID.String())
	}
	return nil
}

// ObtenerPorID retrieves a product by id.
func (r *ProductoRepo) ObtenerPorID(ctx context.Context, empresaID, productoID id.ID) (*producto.Producto, error) {
	q := r.builder.Select(productoColumns...).
		From(productosTable).
		Where(squirrel.Eq{"id": productoID, "empresa_id": empresaID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p producto.Producto
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("producto", productoID.String())
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	return &p, nil
}

// ObtenerPorCodigoBarras resolves a barcode for the tenant.
func (r *ProductoRepo) ObtenerPorCodigoBarras(ctx context.Context, empresaID id.ID, codigo string) (*producto.Producto, error) {
	q := r.builder.Select(productoColumns...).
		From(productosTable).
		Where(squirrel.Eq{"codigo_barras": codigo, "empresa_id": empresaID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p producto.Producto
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("producto", codigo)
		}
		return nil, fmt.Errorf("get producto por codigo: %w", err)
	}
	return &p, nil
}

// Listar returns products matching the filter plus the total count.
func (r *ProductoRepo) Listar(ctx context.Context, empresaID id.ID, filter producto.ListFilter) ([]producto.Producto, int64, error) {
	base := squirrel.And{squirrel.Eq{"empresa_id": empresaID}}
	if filter.SoloActivos {
		base = append(base, squirrel.Eq{"activo": true})
	}
	if filter.Busqueda != "" {
		pattern := "%" + filter.Busqueda + "%"
		base = append(base, squirrel.Or{
			squirrel.ILike{"nombre": pattern},
			squirrel.ILike{"codigo_barras": pattern},
		})
	}

	countSQL, countArgs, err := r.builder.Select("COUNT(*)").From(productosTable).Where(base).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count productos: %w", err)
	}

	q := r.builder.Select(productoColumns...).
		From(productosTable).
		Where(base).
		OrderBy("nombre")
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

	var productos []producto.Producto
	if err := pgxscan.Select(ctx, querier, &productos, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("select productos: %w", err)
	}
	return productos, total, nil
}

// Desactivar soft-disables a product.
func (r *ProductoRepo) Desactivar(ctx context.Context, empresaID, productoID id.ID) error {
	q := r.builder.Update(productosTable).
		Set("activo", false).
		Set("actualizado_en", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": productoID, "empresa_id": empresaID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("desactivar producto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("producto", productoID.String())
	}
	return nil
}

var _ producto.Repository = (*ProductoRepo)(nil)
