package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/registers/inventario"
)

type existenciaClave struct {
	producto id.ID
	sucursal id.ID
}

type fakeInventarioRepo struct {
	existencias map[existenciaClave]inventario.Existencia
	movimientos []inventario.MovimientoInventario
}

func newFakeInventarioRepo() *fakeInventarioRepo {
	return &fakeInventarioRepo{existencias: make(map[existenciaClave]inventario.Existencia)}
}

func (r *fakeInventarioRepo) clave(productoID, sucursalID id.ID) existenciaClave {
	return existenciaClave{producto: productoID, sucursal: sucursalID}
}

func (r *fakeInventarioRepo) ObtenerExistencia(ctx context.Context, empresaID, productoID, sucursalID id.ID) (inventario.Existencia, error) {
	if e, ok := r.existencias[r.clave(productoID, sucursalID)]; ok {
		return e, nil
	}
	return inventario.Existencia{EmpresaID: empresaID, ProductoID: productoID, SucursalID: sucursalID}, nil
}

func (r *fakeInventarioRepo) ObtenerExistenciaParaActualizar(ctx context.Context, empresaID, productoID, sucursalID id.ID) (inventario.Existencia, error) {
	k := r.clave(productoID, sucursalID)
	if _, ok := r.existencias[k]; !ok {
		r.existencias[k] = inventario.Existencia{
			EmpresaID:     empresaID,
			ProductoID:    productoID,
			SucursalID:    sucursalID,
			ActualizadoEn: time.Now().UTC(),
		}
	}
	return r.existencias[k], nil
}

func (r *fakeInventarioRepo) GuardarExistencia(ctx context.Context, e *inventario.Existencia) error {
	r.existencias[r.clave(e.ProductoID, e.SucursalID)] = *e
	return nil
}

func (r *fakeInventarioRepo) CrearMovimiento(ctx context.Context, m *inventario.MovimientoInventario) error {
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeInventarioRepo) ListarMovimientos(ctx context.Context, empresaID id.ID, filter inventario.MovementFilter) ([]inventario.MovimientoInventario, error) {
	out := make([]inventario.MovimientoInventario, len(r.movimientos))
	copy(out, r.movimientos)
	return out, nil
}

func (r *fakeInventarioRepo) ExistenciasPorSucursal(ctx context.Context, empresaID, sucursalID id.ID) ([]inventario.Existencia, error) {
	var out []inventario.Existencia
	for _, e := range r.existencias {
		if e.SucursalID == sucursalID && !e.Cantidad.IsZero() {
			out = append(out, e)
		}
	}
	return out, nil
}

type productoSiempreExiste struct{}

func (productoSiempreExiste) Existe(ctx context.Context, empresaID, productoID id.ID) (bool, error) {
	return true, nil
}

func newInventarioAPI(t *testing.T) (*gin.Engine, *inventario.Service, id.ID) {
	t.Helper()

	empresaID, usuarioID := id.New(), id.New()
	svc := inventario.NewService(newFakeInventarioRepo(), productoSiempreExiste{}, nopTx{})
	h := NewInventarioHandler(NewBaseHandler(), svc)

	r := newAPITest(t, empresaID, usuarioID, func(rg *gin.RouterGroup) {
		h.RegisterRoutes(rg.Group("/inventario"))
	})
	return r, svc, empresaID
}

func entrada(t *testing.T, svc *inventario.Service, empresaID, productoID, sucursalID id.ID, cantidad int64) {
	t.Helper()
	_, err := svc.Ajustar(context.Background(), empresaID, inventario.AjusteInventario{
		ProductoID: productoID,
		SucursalID: sucursalID,
		Tipo:       inventario.TipoEntrada,
		Cantidad:   types.NewCantidadFromInt(cantidad),
		Motivo:     "compra inicial",
	})
	require.NoError(t, err)
}

func TestInventarioHandler_ExistenciaPorProducto(t *testing.T) {
	r, svc, empresaID := newInventarioAPI(t)
	productoID, sucursalID := id.New(), id.New()
	entrada(t, svc, empresaID, productoID, sucursalID, 25)

	w := doRequest(t, r, http.MethodGet,
		fmt.Sprintf("/inventario/existencias?sucursalId=%s&productoId=%s", sucursalID, productoID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, productoID.String(), resp["productoId"])
	assert.Equal(t, sucursalID.String(), resp["sucursalId"])
}

func TestInventarioHandler_ExistenciasDeSucursal(t *testing.T) {
	r, svc, empresaID := newInventarioAPI(t)
	sucursalID := id.New()
	entrada(t, svc, empresaID, id.New(), sucursalID, 10)
	entrada(t, svc, empresaID, id.New(), sucursalID, 40)
	entrada(t, svc, empresaID, id.New(), id.New(), 5)

	w := doRequest(t, r, http.MethodGet,
		fmt.Sprintf("/inventario/existencias?sucursalId=%s", sucursalID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Existencias []map[string]any `json:"existencias"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Existencias, 2)
}

func TestInventarioHandler_ExistenciasSinSucursal(t *testing.T) {
	r, _, _ := newInventarioAPI(t)

	w := doRequest(t, r, http.MethodGet, "/inventario/existencias", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}
