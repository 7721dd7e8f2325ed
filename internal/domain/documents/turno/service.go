package turno

import (
	"context"
	"time"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/tx"
	"puntoventa/internal/domain/catalogs/caja"
	"puntoventa/pkg/logger"
)

// Service provides shift lifecycle operations.
//
// One open shift per register is enforced twice: a pre-check here and a
// partial unique index in storage. The index is authoritative under
// concurrency; the pre-check just gives a friendlier error most of the
// time.
type Service struct {
	repo      Repository
	cajas     *caja.Service
	txManager tx.Manager
}

// NewService creates a shift service.
func NewService(repo Repository, cajas *caja.Service, txManager tx.Manager) *Service {
	return &Service{repo: repo, cajas: cajas, txManager: txManager}
}

// Abrir opens a shift on a register with an opening cash float.
func (s *Service) Abrir(ctx context.Context, empresaID id.ID, req AperturaTurno) (*Turno, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cj, err := s.cajas.ObtenerPorID(ctx, empresaID, req.CajaID)
	if err != nil {
		return nil, err
	}
	if !cj.Activa {
		return nil, apperror.NewValidation("la caja está inactiva").WithDetail("cajaId", cj.ID.String())
	}

	var t *Turno
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		abierto, err := s.repo.AbiertoPorCaja(ctx, empresaID, req.CajaID)
		if err != nil {
			return err
		}
		if abierto != nil {
			return errTurnoAbierto(abierto)
		}

		t = &Turno{
			ID:                    id.New(),
			EmpresaID:             empresaID,
			CajaID:                req.CajaID,
			UsuarioID:             req.UsuarioID,
			TipoTurno:             req.TipoTurno,
			Estado:                EstadoAbierto,
			FondoInicial:          req.FondoInicial,
			ObservacionesApertura: req.Observaciones,
			AbiertoEn:             time.Now().UTC(),
		}
		// The repository maps the partial-unique-index violation to the
		// same duplicate-shift error, covering the race where two opens
		// on one caja pass the check together.
		return s.repo.Crear(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "turno abierto",
		"turno_id", t.ID,
		"caja_id", t.CajaID,
		"fondo_inicial", t.FondoInicial.String(),
	)
	return t, nil
}

func errTurnoAbierto(t *Turno) error {
	return apperror.NewBusinessRule(apperror.CodeTurnoDuplicado, "la caja ya tiene un turno abierto").
		WithDetail("turnoId", t.ID.String()).
		WithDetail("cajaId", t.CajaID.String())
}

// Cerrar closes an open shift and reconciles the drawer. Deposit and
// withdrawal totals are recomputed from the movement ledger; the client
// never supplies them. Expected cash is fondo inicial + ventas en
// efectivo + ingresos - retiros, and the difference against the counted
// amount is recorded as-is, surplus or shortage.
func (s *Service) Cerrar(ctx context.Context, empresaID, turnoID id.ID, req CierreTurno) (*Turno, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var cerrado *Turno
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := s.repo.ObtenerParaActualizar(ctx, empresaID, turnoID)
		if err != nil {
			return err
		}
		if t.EstaCerrado() {
			return apperror.NewBusinessRule(apperror.CodeTurnoCerrado, "el turno ya está cerrado").
				WithDetail("turnoId", turnoID.String())
		}

		tot, err := s.repo.TotalesPorTipo(ctx, empresaID, turnoID)
		if err != nil {
			return err
		}

		t.VentasEfectivo = req.VentasEfectivo
		t.VentasTarjeta = req.VentasTarjeta
		t.VentasTransferencia = req.VentasTransferencia
		t.IngresosAdicionales = tot.Ingresos
		t.Retiros = tot.Retiros

		esperado := t.EfectivoTeorico()
		contado := req.EfectivoContado
		diferencia := contado.Sub(esperado)

		ahora := time.Now().UTC()
		t.Estado = EstadoCerrado
		t.EfectivoEsperado = &esperado
		t.EfectivoContado = &contado
		t.Diferencia = &diferencia
		t.ObservacionesCierre = req.Observaciones
		t.CerradoEn = &ahora

		if err := s.repo.ActualizarCierre(ctx, t); err != nil {
			return err
		}
		cerrado = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "turno cerrado",
		"turno_id", cerrado.ID,
		"efectivo_esperado", cerrado.EfectivoEsperado.String(),
		"efectivo_contado", cerrado.EfectivoContado.String(),
		"diferencia", cerrado.Diferencia.String(),
	)
	return cerrado, nil
}

// RegistrarMovimiento appends a deposit or withdrawal to an open shift
// and refreshes the shift's running totals in the same transaction.
func (s *Service) RegistrarMovimiento(ctx context.Context, empresaID, turnoID id.ID, m Movimiento) (*Movimiento, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := s.repo.ObtenerParaActualizar(ctx, empresaID, turnoID)
		if err != nil {
			return err
		}
		if t.EstaCerrado() {
			return apperror.NewBusinessRule(apperror.CodeTurnoCerrado, "no se pueden registrar movimientos en un turno cerrado").
				WithDetail("turnoId", turnoID.String())
		}

		m.ID = id.New()
		m.EmpresaID = empresaID
		m.TurnoID = turnoID
		m.CreadoEn = time.Now().UTC()
		if err := s.repo.CrearMovimiento(ctx, &m); err != nil {
			return err
		}

		tot, err := s.repo.TotalesPorTipo(ctx, empresaID, turnoID)
		if err != nil {
			return err
		}
		return s.repo.ActualizarTotalesMovimientos(ctx, empresaID, turnoID, tot)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "movimiento de caja registrado",
		"turno_id", turnoID,
		"tipo", m.Tipo,
		"monto", m.Monto.String(),
	)
	return &m, nil
}

// ObtenerPorID retrieves a shift with its movements.
func (s *Service) ObtenerPorID(ctx context.Context, empresaID, turnoID id.ID) (*Turno, error) {
	t, err := s.repo.ObtenerPorID(ctx, empresaID, turnoID)
	if err != nil {
		return nil, err
	}
	movs, err := s.repo.ListarMovimientos(ctx, empresaID, turnoID)
	if err != nil {
		return nil, err
	}
	t.Movimientos = movs
	return t, nil
}

// AbiertoPorCaja returns the register's open shift, or a not-found
// error when none is open.
func (s *Service) AbiertoPorCaja(ctx context.Context, empresaID, cajaID id.ID) (*Turno, error) {
	t, err := s.repo.AbiertoPorCaja(ctx, empresaID, cajaID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperror.NewNotFound("turno abierto", cajaID.String())
	}
	return t, nil
}
