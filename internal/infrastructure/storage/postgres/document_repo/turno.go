package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/documents/turno"
	"puntoventa/internal/infrastructure/storage/postgres"
)

const (
	turnosTable          = "doc_turnos"
	movimientosCajaTable = "doc_movimientos_caja"

	// Partial unique index enforcing one open shift per register.
	turnoAbiertoConstraint = "uq_turno_abierto_por_caja"
)

var turnoColumns = []string{
	"id", "empresa_id", "caja_id", "usuario_id", "tipo_turno", "estado",
	"fondo_inicial",
	"ventas_efectivo", "ventas_tarjeta", "ventas_transferencia",
	"ingresos_adicionales", "retiros",
	"efectivo_esperado", "efectivo_contado", "diferencia",
	"observaciones_apertura", "observaciones_cierre",
	"abierto_en", "cerrado_en",
}

var movimientoCajaColumns = []string{
	"id", "empresa_id", "turno_id", "tipo", "monto", "concepto",
	"observaciones", "requiere_autorizacion", "autorizado_por",
	"usuario_id", "creado_en",
}

// TurnoRepo implements turno.Repository.
type TurnoRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewTurnoRepo creates a shift repository.
func NewTurnoRepo(txm *postgres.TxManager) *TurnoRepo {
	return &TurnoRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Crear inserts a new open shift. A violation of the one-open-shift
// index comes back as the duplicate-shift business error.
func (r *TurnoRepo) Crear(ctx context.Context, t *turno.Turno) error {
	q := r.builder.Insert(turnosTable).
		Columns(turnoColumns...).
		Values(
			t.ID, t.EmpresaID, t.CajaID, t.UsuarioID, t.TipoTurno, t.Estado,
			t.FondoInicial,
			t.VentasEfectivo, t.VentasTarjeta, t.VentasTransferencia,
			t.IngresosAdicionales, t.Retiros,
			t.EfectivoEsperado, t.EfectivoContado, t.Diferencia,
			t.ObservacionesApertura, t.ObservacionesCierre,
			t.AbiertoEn, t.CerradoEn,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err, turnoAbiertoConstraint) {
			return apperror.NewBusinessRule(apperror.CodeTurnoDuplicado, "la caja ya tiene un turno abierto").
				WithDetail("cajaId", t.CajaID.String())
		}
		return fmt.Errorf("insert turno: %w", err)
	}
	return nil
}

// ObtenerPorID returns the shift without movements.
func (r *TurnoRepo) ObtenerPorID(ctx context.Context, empresaID, turnoID id.ID) (*turno.Turno, error) {
	return r.obtener(ctx, empresaID, turnoID, false)
}

// ObtenerParaActualizar returns the shift holding a row lock.
// Must be called inside a transaction.
func (r *TurnoRepo) ObtenerParaActualizar(ctx context.Context, empresaID, turnoID id.ID) (*turno.Turno, error) {
	if r.txm.GetTx(ctx) == nil {
		return nil, fmt.Errorf("turno lock requires a transaction")
	}
	return r.obtener(ctx, empresaID, turnoID, true)
}

func (r *TurnoRepo) obtener(ctx context.Context, empresaID, turnoID id.ID, forUpdate bool) (*turno.Turno, error) {
	q := r.builder.Select(turnoColumns...).
		From(turnosTable).
		Where(squirrel.Eq{"id": turnoID, "empresa_id": empresaID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var t turno.Turno
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("turno", turnoID.String())
		}
		return nil, fmt.Errorf("get turno: %w", err)
	}
	return &t, nil
}

// AbiertoPorCaja returns the open shift of a register, or nil.
func (r *TurnoRepo) AbiertoPorCaja(ctx context.Context, empresaID, cajaID id.ID) (*turno.Turno, error) {
	q := r.builder.Select(turnoColumns...).
		From(turnosTable).
		Where(squirrel.Eq{
			"empresa_id": empresaID,
			"caja_id":    cajaID,
			"estado":     turno.EstadoAbierto,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var t turno.Turno
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get turno abierto: %w", err)
	}
	return &t, nil
}

// ActualizarCierre persists closing state and reconciliation.
func (r *TurnoRepo) ActualizarCierre(ctx context.Context, t *turno.Turno) error {
	q := r.builder.Update(turnosTable).
		Set("estado", t.Estado).
		Set("ventas_efectivo", t.VentasEfectivo).
		Set("ventas_tarjeta", t.VentasTarjeta).
		Set("ventas_transferencia", t.VentasTransferencia).
		Set("ingresos_adicionales", t.IngresosAdicionales).
		Set("retiros", t.Retiros).
		Set("efectivo_esperado", t.EfectivoEsperado).
		Set("efectivo_contado", t.EfectivoContado).
		Set("diferencia", t.Diferencia).
		Set("observaciones_cierre", t.ObservacionesCierre).
		Set("cerrado_en", t.CerradoEn).
		Where(squirrel.Eq{"id": t.ID, "empresa_id": t.EmpresaID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("actualizar cierre: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("turno", t.ID.String())
	}
	return nil
}

// CrearMovimiento appends a cash movement row.
func (r *TurnoRepo) CrearMovimiento(ctx context.Context, m *turno.Movimiento) error {
	q := r.builder.Insert(movimientosCajaTable).
		Columns(movimientoCajaColumns...).
		Values(
			m.ID, m.EmpresaID, m.TurnoID, m.Tipo, m.Monto, m.Concepto,
			m.Observaciones, m.RequiereAutorizacion, m.AutorizadoPor,
			m.UsuarioID, m.CreadoEn,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movimiento de caja: %w", err)
	}
	return nil
}

// TotalesPorTipo recomputes deposit/withdrawal sums from the shift's
// movement rows.
func (r *TurnoRepo) TotalesPorTipo(ctx context.Context, empresaID, turnoID id.ID) (turno.TotalesMovimientos, error) {
	sql := `
		SELECT
			COALESCE(SUM(CASE WHEN tipo = 'ingreso' THEN monto ELSE 0 END), 0) AS ingresos,
			COALESCE(SUM(CASE WHEN tipo = 'retiro' THEN monto ELSE 0 END), 0) AS retiros
		FROM doc_movimientos_caja
		WHERE empresa_id = $1 AND turno_id = $2
	`

	var tot turno.TotalesMovimientos
	var ingresos, retiros types.Money
	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, empresaID, turnoID).Scan(&ingresos, &retiros); err != nil {
		return tot, fmt.Errorf("totales de movimientos: %w", err)
	}
	tot.Ingresos = ingresos
	tot.Retiros = retiros
	return tot, nil
}

// ActualizarTotalesMovimientos persists the recomputed aggregates on
// the shift row.
func (r *TurnoRepo) ActualizarTotalesMovimientos(ctx context.Context, empresaID, turnoID id.ID, tot turno.TotalesMovimientos) error {
	q := r.builder.Update(turnosTable).
		Set("ingresos_adicionales", tot.Ingresos).
		Set("retiros", tot.Retiros).
		Where(squirrel.Eq{"id": turnoID, "empresa_id": empresaID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("actualizar totales: %w", err)
	}
	return nil
}

// ListarMovimientos returns the shift's movements, oldest first.
func (r *TurnoRepo) ListarMovimientos(ctx context.Context, empresaID, turnoID id.ID) ([]turno.Movimiento, error) {
	q := r.builder.Select(movimientoCajaColumns...).
		From(movimientosCajaTable).
		Where(squirrel.Eq{"empresa_id": empresaID, "turno_id": turnoID}).
		OrderBy("creado_en", "id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movimientos []turno.Movimiento
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movimientos, sql, args...); err != nil {
		return nil, fmt.Errorf("select movimientos: %w", err)
	}
	return movimientos, nil
}

var _ turno.Repository = (*TurnoRepo)(nil)
