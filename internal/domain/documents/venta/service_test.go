package venta

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/catalogs/producto"
	"puntoventa/internal/domain/catalogs/sucursal"
	"puntoventa/internal/domain/registers/inventario"
	"puntoventa/pkg/folio"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- folio fake ---

type folioRow struct{ val int64 }

func (r *folioRow) Scan(dest ...any) error {
	if ptr, ok := dest[0].(*int64); ok {
		*ptr = r.val
	}
	return nil
}

type folioQuerier struct {
	counters map[string]int64
}

func (q *folioQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	clave, _ := args[0].(string)
	q.counters[clave]++
	return &folioRow{val: q.counters[clave]}
}

type folioSource struct{ q folio.Querier }

func (s *folioSource) Querier(ctx context.Context) folio.Querier { return s.q }

// --- catalog fakes ---

type memProductoRepo struct {
	productos map[id.ID]producto.Producto
}

func (r *memProductoRepo) Crear(ctx context.Context, p *producto.Producto) error {
	r.productos[p.ID] = *p
	return nil
}

func (r *memProductoRepo) Actualizar(ctx context.Context, p *producto.Producto) error {
	r.productos[p.ID] = *p
	return nil
}

func (r *memProductoRepo) ObtenerPorID(ctx context.Context, empresaID, productoID id.ID) (*producto.Producto, error) {
	if p, ok := r.productos[productoID]; ok && p.EmpresaID == empresaID {
		return &p, nil
	}
	return nil, apperror.NewNotFound("producto", productoID.String())
}

func (r *memProductoRepo) ObtenerPorCodigoBarras(ctx context.Context, empresaID id.ID, codigo string) (*producto.Producto, error) {
	for _, p := range r.productos {
		if p.EmpresaID == empresaID && p.CodigoBarras == codigo {
			return &p, nil
		}
	}
	return nil, apperror.NewNotFound("producto", codigo)
}

func (r *memProductoRepo) Listar(ctx context.Context, empresaID id.ID, filter producto.ListFilter) ([]producto.Producto, int64, error) {
	return nil, 0, nil
}

func (r *memProductoRepo) Desactivar(ctx context.Context, empresaID, productoID id.ID) error {
	return nil
}

type memSucursalRepo struct {
	sucursales map[id.ID]sucursal.Sucursal
}

func (r *memSucursalRepo) Crear(ctx context.Context, s *sucursal.Sucursal) error {
	r.sucursales[s.ID] = *s
	return nil
}

func (r *memSucursalRepo) ObtenerPorID(ctx context.Context, empresaID, sucursalID id.ID) (*sucursal.Sucursal, error) {
	if s, ok := r.sucursales[sucursalID]; ok && s.EmpresaID == empresaID {
		return &s, nil
	}
	return nil, apperror.NewNotFound("sucursal", sucursalID.String())
}

func (r *memSucursalRepo) Listar(ctx context.Context, empresaID id.ID) ([]sucursal.Sucursal, error) {
	return nil, nil
}

// --- inventory fake ---

type invKey struct {
	producto id.ID
	sucursal id.ID
}

type memInventarioRepo struct {
	existencias map[invKey]inventario.Existencia
	movimientos []inventario.MovimientoInventario
}

func (r *memInventarioRepo) ObtenerExistencia(ctx context.Context, empresaID, productoID, sucursalID id.ID) (inventario.Existencia, error) {
	if e, ok := r.existencias[invKey{productoID, sucursalID}]; ok {
		return e, nil
	}
	return inventario.Existencia{EmpresaID: empresaID, ProductoID: productoID, SucursalID: sucursalID}, nil
}

func (r *memInventarioRepo) ObtenerExistenciaParaActualizar(ctx context.Context, empresaID, productoID, sucursalID id.ID) (inventario.Existencia, error) {
	k := invKey{productoID, sucursalID}
	if _, ok := r.existencias[k]; !ok {
		r.existencias[k] = inventario.Existencia{EmpresaID: empresaID, ProductoID: productoID, SucursalID: sucursalID}
	}
	return r.existencias[k], nil
}

func (r *memInventarioRepo) GuardarExistencia(ctx context.Context, e *inventario.Existencia) error {
	r.existencias[invKey{e.ProductoID, e.SucursalID}] = *e
	return nil
}

func (r *memInventarioRepo) CrearMovimiento(ctx context.Context, m *inventario.MovimientoInventario) error {
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *memInventarioRepo) ListarMovimientos(ctx context.Context, empresaID id.ID, filter inventario.MovementFilter) ([]inventario.MovimientoInventario, error) {
	return r.movimientos, nil
}

func (r *memInventarioRepo) ExistenciasPorSucursal(ctx context.Context, empresaID, sucursalID id.ID) ([]inventario.Existencia, error) {
	return nil, nil
}

// --- sale fake ---

type memVentaRepo struct {
	ventas map[id.ID]*Venta
}

func (r *memVentaRepo) Crear(ctx context.Context, v *Venta) error {
	clon := *v
	clon.Detalles = append([]Detalle(nil), v.Detalles...)
	r.ventas[v.ID] = &clon
	return nil
}

func (r *memVentaRepo) ObtenerPorID(ctx context.Context, empresaID, ventaID id.ID) (*Venta, error) {
	v, ok := r.ventas[ventaID]
	if !ok || v.EmpresaID != empresaID {
		return nil, apperror.NewNotFound("venta", ventaID.String())
	}
	clon := *v
	clon.Detalles = append([]Detalle(nil), v.Detalles...)
	return &clon, nil
}

func (r *memVentaRepo) ObtenerParaActualizar(ctx context.Context, empresaID, ventaID id.ID) (*Venta, error) {
	return r.ObtenerPorID(ctx, empresaID, ventaID)
}

func (r *memVentaRepo) MarcarCancelada(ctx context.Context, empresaID, ventaID id.ID, motivo string, canceladaEn time.Time) error {
	v, ok := r.ventas[ventaID]
	if !ok || v.EmpresaID != empresaID || v.Estado != EstadoCompletada {
		return apperror.NewNotFound("venta", ventaID.String())
	}
	v.Estado = EstadoCancelada
	v.MotivoCancelacion = &motivo
	v.CanceladaEn = &canceladaEn
	return nil
}

func (r *memVentaRepo) Listar(ctx context.Context, empresaID id.ID, filter ListFilter) ([]Venta, int64, error) {
	var out []Venta
	for _, v := range r.ventas {
		if v.EmpresaID == empresaID {
			out = append(out, *v)
		}
	}
	return out, int64(len(out)), nil
}

// --- fixture ---

type fixture struct {
	svc        *Service
	inv        *inventario.Service
	ventaRepo  *memVentaRepo
	invRepo    *memInventarioRepo
	empresaID  id.ID
	sucursalID id.ID
	usuarioID  id.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	empresaID := id.New()

	productoRepo := &memProductoRepo{productos: make(map[id.ID]producto.Producto)}
	sucursalRepo := &memSucursalRepo{sucursales: make(map[id.ID]sucursal.Sucursal)}
	invRepo := &memInventarioRepo{existencias: make(map[invKey]inventario.Existencia)}
	ventaRepo := &memVentaRepo{ventas: make(map[id.ID]*Venta)}

	productoSvc := producto.NewService(productoRepo, nil)
	sucursalSvc := sucursal.NewService(sucursalRepo)
	invSvc := inventario.NewService(invRepo, productoSvc, passthroughTx{})
	folioSvc := folio.NewService(&folioSource{q: &folioQuerier{counters: make(map[string]int64)}})

	suc := sucursal.Nueva(empresaID, "Sucursal Centro", types.MustMoney("0.16"))
	require.NoError(t, sucursalSvc.Crear(context.Background(), suc))

	return &fixture{
		svc:        NewService(ventaRepo, productoSvc, sucursalSvc, invSvc, folioSvc, passthroughTx{}),
		inv:        invSvc,
		ventaRepo:  ventaRepo,
		invRepo:    invRepo,
		empresaID:  empresaID,
		sucursalID: suc.ID,
		usuarioID:  id.New(),
	}
}

// crearProducto registers a product and stocks it at the branch.
func (f *fixture) crearProducto(t *testing.T, nombre string, precio string, aplicaImpuesto bool, stock int64) *producto.Producto {
	t.Helper()

	p := producto.NuevoProducto(f.empresaID, nombre, "", "pieza", types.MustMoney(precio))
	p.AplicaImpuesto = aplicaImpuesto
	require.NoError(t, f.svc.productos.Crear(context.Background(), p))

	if stock > 0 {
		_, err := f.inv.Ajustar(context.Background(), f.empresaID, inventario.AjusteInventario{
			ProductoID: p.ID,
			SucursalID: f.sucursalID,
			Tipo:       inventario.TipoEntrada,
			Cantidad:   types.NewCantidadFromInt(stock),
			Motivo:     "compra inicial",
		})
		require.NoError(t, err)
	}
	return p
}

func (f *fixture) existencia(t *testing.T, productoID id.ID) types.Cantidad {
	t.Helper()
	e, err := f.inv.ObtenerExistencia(context.Background(), f.empresaID, productoID, f.sucursalID)
	require.NoError(t, err)
	return e.Cantidad
}

// --- tests ---

func TestCrear_VentaEfectivoSinImpuesto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.crearProducto(t, "Tortillas", "10.00", false, 100)

	v, err := f.svc.Crear(ctx, f.empresaID, NuevaVenta{
		SucursalID:  f.sucursalID,
		UsuarioID:   f.usuarioID,
		MetodoPago:  MetodoEfectivo,
		MontoPagado: ptrMoney("500.00"),
		Items: []ItemNuevaVenta{
			{ProductoID: p.ID, Cantidad: types.NewCantidadFromInt(30), PrecioUnitario: types.MustMoney("10.00")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, EstadoCompletada, v.Estado)
	assert.True(t, v.Subtotal.Equal(types.MustMoney("300.00")), "subtotal %s", v.Subtotal)
	assert.True(t, v.Impuestos.IsZero(), "impuestos %s", v.Impuestos)
	assert.True(t, v.Total.Equal(types.MustMoney("300.00")), "total %s", v.Total)
	require.NotNil(t, v.Cambio)
	assert.True(t, v.Cambio.Equal(types.MustMoney("200.00")), "cambio %s", v.Cambio)

	hoy := time.Now().UTC().Format("060102")
	assert.Equal(t, "V"+hoy+"-0001", v.Folio)

	require.Len(t, v.Detalles, 1)
	d := v.Detalles[0]
	assert.Equal(t, 1, d.NumLinea)
	assert.Equal(t, "Tortillas", d.NombreProducto)
	assert.True(t, d.TasaImpuesto.IsZero())

	assert.Equal(t, types.NewCantidadFromInt(70), f.existencia(t, p.ID))
}

func TestCrear_ImpuestoTasaSucursal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.crearProducto(t, "Refresco", "50.00", true, 10)

	v, err := f.svc.Crear(ctx, f.empresaID, NuevaVenta{
		SucursalID: f.sucursalID,
		UsuarioID:  f.usuarioID,
		MetodoPago: MetodoTarjeta,
		Items: []ItemNuevaVenta{
			{ProductoID: p.ID, Cantidad: types.NewCantidadFromInt(2), PrecioUnitario: types.MustMoney("50.00")},
		},
	})
	require.NoError(t, err)

	assert.True(t, v.Subtotal.Equal(types.MustMoney("100.00")), "subtotal %s", v.Subtotal)
	assert.True(t, v.Impuestos.Equal(types.MustMoney("16.00")), "impuestos %s", v.Impuestos)
	assert.True(t, v.Total.Equal(types.MustMoney("116.00")), "total %s", v.Total)
	assert.Nil(t, v.MontoPagado)
	assert.Nil(t, v.Cambio)
}

func TestCrear_FoliosConsecutivos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.crearProducto(t, "Pan", "8.00", false, 100)

	item := []ItemNuevaVenta{{ProductoID: p.ID, Cantidad: types.NewCantidadFromInt(1), PrecioUnitario: types.MustMoney("8.00")}}

	v1, err := f.svc.Crear(ctx, f.empresaID, NuevaVenta{SucursalID: f.sucursalID, UsuarioID: f.usuarioID, MetodoPago: MetodoEfectivo, Items: item})
	require.NoError(t, err)
	v2, err := f.svc.Crear(ctx, f.empresaID, NuevaVenta{SucursalID: f.sucursalID, UsuarioID: f.usuarioID, MetodoPago: MetodoEfectivo, Items: item})
	require.NoError(t, err)

	hoy := time.Now().UTC().Format("060102")
	assert.Equal(t, "V"+hoy+"-0001", v1.Folio)
	assert.Equal(t, "V"+hoy+"-0002", v2.Folio)
}

func TestCrear_StockInsuficiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.crearProducto(t, "Leche", "25.00", false, 5)

	_, err := f.svc.Crear(ctx, f.empresaID, NuevaVenta{
		SucursalID: f.sucursalID,
		UsuarioID:  f.usuarioID,
		MetodoPago: MetodoEfectivo,
		Items: []ItemNuevaVenta{
			{ProductoID: p.ID, Cantidad: types.NewCantidadFromInt(6), PrecioUnitario: types.MustMoney("25.00")},
		},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeStockInsuficiente, appErr.Code)

	assert.Empty(t, f.ventaRepo.ventas)
	assert.Equal(t, types.NewCantidadFromInt(5), f.existencia(t, p.ID))
}

func TestCrear_MontoPagadoInsuficiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.crearProducto(t, "Queso", "120.00", false, 10)

	_, err := f.svc.Crear(ctx, f.empresaID, NuevaVenta{
		SucursalID:  f.sucursalID,
		UsuarioID:   f.usuarioID,
		MetodoPago:  MetodoEfectivo,
		MontoPagado: ptrMoney("100.00"),
		Items: []ItemNuevaVenta{
			{ProductoID: p.ID, Cantidad: types.NewCantidadFromInt(1), PrecioUnitario: types.MustMoney("120.00")},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	assert.Empty(t, f.ventaRepo.ventas)
	assert.Equal(t, types.NewCantidadFromInt(10), f.existencia(t, p.ID))
}

func TestCrear_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  NuevaVenta
	}{
		{"sin sucursal", NuevaVenta{MetodoPago: MetodoEfectivo, Items: []ItemNuevaVenta{{ProductoID: id.New(), Cantidad: 1000}}}},
		{"sin items", NuevaVenta{SucursalID: f.sucursalID, MetodoPago: MetodoEfectivo}},
		{"método inválido", NuevaVenta{SucursalID: f.sucursalID, MetodoPago: "cheque", Items: []ItemNuevaVenta{{ProductoID: id.New(), Cantidad: 1000}}}},
		{"cantidad cero", NuevaVenta{SucursalID: f.sucursalID, MetodoPago: MetodoEfectivo, Items: []ItemNuevaVenta{{ProductoID: id.New()}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Crear(ctx, f.empresaID, tt.req)
			assert.True(t, apperror.IsValidation(err), "got %v", err)
		})
	}
}

func TestCancelar_RestauraInventario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.crearProducto(t, "Café", "95.00", false, 100)

	v, err := f.svc.Crear(ctx, f.empresaID, NuevaVenta{
		SucursalID: f.sucursalID,
		UsuarioID:  f.usuarioID,
		MetodoPago: MetodoEfectivo,
		Items: []ItemNuevaVenta{
			{ProductoID: p.ID, Cantidad: types.NewCantidadFromInt(30), PrecioUnitario: types.MustMoney("95.00")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, types.NewCantidadFromInt(70), f.existencia(t, p.ID))

	require.NoError(t, f.svc.Cancelar(ctx, f.empresaID, v.ID, f.usuarioID, "producto dañado"))

	assert.Equal(t, types.NewCantidadFromInt(100), f.existencia(t, p.ID))

	cancelada, err := f.svc.ObtenerPorID(ctx, f.empresaID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, EstadoCancelada, cancelada.Estado)
	require.NotNil(t, cancelada.MotivoCancelacion)
	assert.Equal(t, "producto dañado", *cancelada.MotivoCancelacion)
	assert.NotNil(t, cancelada.CanceladaEn)
}

func TestCancelar_DosVecesFalla(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.crearProducto(t, "Azúcar", "30.00", false, 10)

	v, err := f.svc.Crear(ctx, f.empresaID, NuevaVenta{
		SucursalID: f.sucursalID,
		UsuarioID:  f.usuarioID,
		MetodoPago: MetodoEfectivo,
		Items: []ItemNuevaVenta{
			{ProductoID: p.ID, Cantidad: types.NewCantidadFromInt(2), PrecioUnitario: types.MustMoney("30.00")},
		},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancelar(ctx, f.empresaID, v.ID, f.usuarioID, "error de captura"))

	err = f.svc.Cancelar(ctx, f.empresaID, v.ID, f.usuarioID, "otra vez")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeVentaCancelada, appErr.Code)

	// The second cancel must not credit stock again.
	assert.Equal(t, types.NewCantidadFromInt(10), f.existencia(t, p.ID))
}

func TestCancelar_VentaInexistente(t *testing.T) {
	f := newFixture(t)
	err := f.svc.Cancelar(context.Background(), f.empresaID, id.New(), f.usuarioID, "n/a")
	assert.True(t, apperror.IsNotFound(err))
}

func ptrMoney(s string) *types.Money {
	m := types.MustMoney(s)
	return &m
}
