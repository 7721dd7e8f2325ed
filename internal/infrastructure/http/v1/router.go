// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"puntoventa/internal/domain/auth"
	"puntoventa/internal/domain/catalogs/caja"
	"puntoventa/internal/domain/catalogs/producto"
	"puntoventa/internal/domain/catalogs/sucursal"
	"puntoventa/internal/domain/documents/turno"
	"puntoventa/internal/domain/documents/venta"
	"puntoventa/internal/domain/registers/inventario"
	"puntoventa/internal/infrastructure/http/v1/handlers"
	"puntoventa/internal/infrastructure/http/v1/middleware"
	"puntoventa/pkg/logger"
)

// RouterConfig wires the services into the HTTP surface.
type RouterConfig struct {
	Pool   *pgxpool.Pool
	Logger *logger.Logger

	TokenValidator middleware.TokenValidator

	AuthService       *auth.Service
	ProductoService   *producto.Service
	SucursalService   *sucursal.Service
	CajaService       *caja.Service
	InventarioService *inventario.Service
	VentaService      *venta.Service
	TurnoService      *turno.Service
}

// NewRouter creates and configures the gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Order matters: recovery outermost, then trace so logs carry the
	// request id, then the error renderer.
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	api := router.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
		authHandler.RegisterRoutes(api.Group("/auth"))

		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.TokenValidator))

		productoHandler := handlers.NewProductoHandler(base, cfg.ProductoService)
		productoHandler.RegisterRoutes(protected.Group("/productos"))

		catalogoHandler := handlers.NewCatalogoHandler(base, cfg.SucursalService, cfg.CajaService)
		catalogoHandler.RegisterRoutes(protected.Group("/catalogos"))

		inventarioHandler := handlers.NewInventarioHandler(base, cfg.InventarioService)
		inventarioHandler.RegisterRoutes(protected.Group("/inventario"))

		ventaHandler := handlers.NewVentaHandler(base, cfg.VentaService)
		ventaHandler.RegisterRoutes(protected.Group("/ventas"))

		turnoHandler := handlers.NewTurnoHandler(base, cfg.TurnoService)
		turnoHandler.RegisterRoutes(protected.Group("/turnos"))
	}

	return router
}
