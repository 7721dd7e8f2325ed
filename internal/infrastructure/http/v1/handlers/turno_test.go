package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puntoventa/internal/core/apperror"
	appctx "puntoventa/internal/core/context"
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/catalogs/caja"
	"puntoventa/internal/domain/documents/turno"
	"puntoventa/internal/infrastructure/http/v1/middleware"
)

type nopTx struct{}

func (nopTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// newAPITest builds a router with the error middleware and a fixed
// authenticated identity, mirroring the production chain.
func newAPITest(t *testing.T, empresaID, usuarioID id.ID, register func(rg *gin.RouterGroup)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(func(c *gin.Context) {
		ctx := appctx.WithUser(c.Request.Context(), &appctx.UserContext{
			UserID:    usuarioID,
			EmpresaID: empresaID,
			Nombre:    "Ana Cajera",
			Rol:       "cajero",
		})
		c.Request = c.Request.WithContext(ctx)
	})
	register(r.Group("/"))
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type fakeCajaRepo struct {
	cajas map[id.ID]caja.Caja
}

func (r *fakeCajaRepo) Crear(ctx context.Context, c *caja.Caja) error {
	r.cajas[c.ID] = *c
	return nil
}

func (r *fakeCajaRepo) ObtenerPorID(ctx context.Context, empresaID, cajaID id.ID) (*caja.Caja, error) {
	if c, ok := r.cajas[cajaID]; ok && c.EmpresaID == empresaID {
		return &c, nil
	}
	return nil, apperror.NewNotFound("caja", cajaID.String())
}

func (r *fakeCajaRepo) ListarPorSucursal(ctx context.Context, empresaID, sucursalID id.ID) ([]caja.Caja, error) {
	return nil, nil
}

type fakeTurnoRepo struct {
	turnos      map[id.ID]*turno.Turno
	movimientos []turno.Movimiento
}

func newFakeTurnoRepo() *fakeTurnoRepo {
	return &fakeTurnoRepo{turnos: make(map[id.ID]*turno.Turno)}
}

func (r *fakeTurnoRepo) Crear(ctx context.Context, t *turno.Turno) error {
	for _, existente := range r.turnos {
		if existente.CajaID == t.CajaID && existente.Estado == turno.EstadoAbierto {
			return apperror.NewBusinessRule(apperror.CodeTurnoDuplicado, "la caja ya tiene un turno abierto")
		}
	}
	clon := *t
	r.turnos[t.ID] = &clon
	return nil
}

func (r *fakeTurnoRepo) ObtenerPorID(ctx context.Context, empresaID, turnoID id.ID) (*turno.Turno, error) {
	t, ok := r.turnos[turnoID]
	if !ok || t.EmpresaID != empresaID {
		return nil, apperror.NewNotFound("turno", turnoID.String())
	}
	clon := *t
	return &clon, nil
}

func (r *fakeTurnoRepo) ObtenerParaActualizar(ctx context.Context, empresaID, turnoID id.ID) (*turno.Turno, error) {
	return r.ObtenerPorID(ctx, empresaID, turnoID)
}

func (r *fakeTurnoRepo) AbiertoPorCaja(ctx context.Context, empresaID, cajaID id.ID) (*turno.Turno, error) {
	for _, t := range r.turnos {
		if t.EmpresaID == empresaID && t.CajaID == cajaID && t.Estado == turno.EstadoAbierto {
			clon := *t
			return &clon, nil
		}
	}
	return nil, nil
}

func (r *fakeTurnoRepo) ActualizarCierre(ctx context.Context, t *turno.Turno) error {
	clon := *t
	r.turnos[t.ID] = &clon
	return nil
}

func (r *fakeTurnoRepo) CrearMovimiento(ctx context.Context, m *turno.Movimiento) error {
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeTurnoRepo) TotalesPorTipo(ctx context.Context, empresaID, turnoID id.ID) (turno.TotalesMovimientos, error) {
	tot := turno.TotalesMovimientos{Ingresos: types.ZeroMoney(), Retiros: types.ZeroMoney()}
	for _, m := range r.movimientos {
		if m.TurnoID != turnoID {
			continue
		}
		switch m.Tipo {
		case turno.MovIngreso:
			tot.Ingresos = tot.Ingresos.Add(m.Monto)
		case turno.MovRetiro:
			tot.Retiros = tot.Retiros.Add(m.Monto)
		}
	}
	return tot, nil
}

func (r *fakeTurnoRepo) ActualizarTotalesMovimientos(ctx context.Context, empresaID, turnoID id.ID, tot turno.TotalesMovimientos) error {
	t, ok := r.turnos[turnoID]
	if !ok {
		return apperror.NewNotFound("turno", turnoID.String())
	}
	t.IngresosAdicionales = tot.Ingresos
	t.Retiros = tot.Retiros
	return nil
}

func (r *fakeTurnoRepo) ListarMovimientos(ctx context.Context, empresaID, turnoID id.ID) ([]turno.Movimiento, error) {
	var out []turno.Movimiento
	for _, m := range r.movimientos {
		if m.TurnoID == turnoID {
			out = append(out, m)
		}
	}
	return out, nil
}

func newTurnoAPI(t *testing.T) (*gin.Engine, *turno.Service, id.ID, id.ID) {
	t.Helper()

	empresaID, usuarioID := id.New(), id.New()
	cajaRepo := &fakeCajaRepo{cajas: make(map[id.ID]caja.Caja)}
	cajaSvc := caja.NewService(cajaRepo)
	cj := caja.Nueva(empresaID, id.New(), "Caja 1")
	require.NoError(t, cajaSvc.Crear(context.Background(), cj))

	svc := turno.NewService(newFakeTurnoRepo(), cajaSvc, nopTx{})
	h := NewTurnoHandler(NewBaseHandler(), svc)

	r := newAPITest(t, empresaID, usuarioID, func(rg *gin.RouterGroup) {
		h.RegisterRoutes(rg.Group("/turnos"))
	})
	return r, svc, empresaID, cj.ID
}

func TestTurnoHandler_AbrirResponde200(t *testing.T) {
	r, _, _, cajaID := newTurnoAPI(t)

	w := doRequest(t, r, http.MethodPost, "/turnos/abrir", gin.H{
		"cajaId":       cajaID.String(),
		"tipoTurno":    "matutino",
		"fondoInicial": 500.00,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool   `json:"success"`
		TurnoID string `json:"turnoId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.TurnoID)
}

func TestTurnoHandler_MovimientoResponde200(t *testing.T) {
	r, svc, empresaID, cajaID := newTurnoAPI(t)

	abierto, err := svc.Abrir(context.Background(), empresaID, turno.AperturaTurno{
		CajaID:       cajaID,
		UsuarioID:    id.New(),
		TipoTurno:    "matutino",
		FondoInicial: types.MustMoney("500.00"),
	})
	require.NoError(t, err)

	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/turnos/%s/movimientos", abierto.ID), gin.H{
		"tipo":     "ingreso",
		"monto":    150.00,
		"concepto": "cambio adicional",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success      bool   `json:"success"`
		MovimientoID string `json:"movimientoId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.MovimientoID)
}
