package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/domain/catalogs/caja"
	"puntoventa/internal/infrastructure/storage/postgres"
)

const cajasTable = "cat_cajas"

var cajaColumns = []string{
	"id", "empresa_id", "sucursal_id", "nombre", "activa", "creado_en",
}

// CajaRepo implements caja.Repository.
type CajaRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewCajaRepo creates a register repository.
func NewCajaRepo(txm *postgres.TxManager) *CajaRepo {
	return &CajaRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Crear inserts a register.
func (r *CajaRepo) Crear(ctx context.Context, c *caja.Caja) error {
	q := r.builder.Insert(cajasTable).
		Columns(cajaColumns...).
		Values(c.ID, c.EmpresaID, c.SucursalID, c.Nombre, c.Activa, c.CreadoEn)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert caja: %w", err)
	}
	return nil
}

// ObtenerPorID retrieves a register by id.
func (r *CajaRepo) ObtenerPorID(ctx context.Context, empresaID, cajaID id.ID) (*caja.Caja, error) {
	q := r.builder.Select(cajaColumns...).
		From(cajasTable).
		Where(squirrel.Eq{"id": cajaID, "empresa_id": empresaID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c caja.Caja
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("caja", cajaID.String())
		}
		return nil, fmt.Errorf("get caja: %w", err)
	}
	return &c, nil
}

// ListarPorSucursal returns the registers of a branch.
func (r *CajaRepo) ListarPorSucursal(ctx context.Context, empresaID, sucursalID id.ID) ([]caja.Caja, error) {
	q := r.builder.Select(cajaColumns...).
		From(cajasTable).
		Where(squirrel.Eq{"empresa_id": empresaID, "sucursal_id": sucursalID}).
		OrderBy("nombre")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var cajas []caja.Caja
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &cajas, sql, args...); err != nil {
		return nil, fmt.Errorf("select cajas: %w", err)
	}
	return cajas, nil
}

var _ caja.Repository = (*CajaRepo)(nil)
