package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/domain/catalogs/sucursal"
	"puntoventa/internal/infrastructure/storage/postgres"
)

const sucursalesTable = "cat_sucursales"

var sucursalColumns = []string{
	"id", "empresa_id", "nombre", "tasa_impuesto", "activa", "creado_en",
}

// SucursalRepo implements sucursal.Repository.
type SucursalRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewSucursalRepo creates a branch repository.
func NewSucursalRepo(txm *postgres.TxManager) *SucursalRepo {
	return &SucursalRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Crear inserts a branch.
func (r *SucursalRepo) Crear(ctx context.Context, s *sucursal.Sucursal) error {
	q := r.builder.Insert(sucursalesTable).
		Columns(sucursalColumns...).
		Values(s.ID, s.EmpresaID, s.Nombre, s.TasaImpuesto, s.Activa, s.CreadoEn)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sucursal: %w", err)
	}
	return nil
}

// ObtenerPorID retrieves a branch by id.
func (r *SucursalRepo) ObtenerPorID(ctx context.Context, empresaID, sucursalID id.ID) (*sucursal.Sucursal, error) {
	q := r.builder.Select(sucursalColumns...).
		From(sucursalesTable).
		Where(squirrel.Eq{"id": sucursalID, "empresa_id": empresaID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s sucursal.Sucursal
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sucursal", sucursalID.String())
		}
		return nil, fmt.Errorf("get sucursal: %w", err)
	}
	return &s, nil
}

// Listar returns all branches of the tenant.
func (r *SucursalRepo) Listar(ctx context.Context, empresaID id.ID) ([]sucursal.Sucursal, error) {
	q := r.builder.Select(sucursalColumns...).
		From(sucursalesTable).
		Where(squirrel.Eq{"empresa_id": empresaID}).
		OrderBy("nombre")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sucursales []sucursal.Sucursal
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &sucursales, sql, args...); err != nil {
		return nil, fmt.Errorf("select sucursales: %w", err)
	}
	return sucursales, nil
}

var _ sucursal.Repository = (*SucursalRepo)(nil)
