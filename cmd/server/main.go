// Package main is the entry point for the puntoventa API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"puntoventa/internal/domain/auth"
	"puntoventa/internal/domain/catalogs/caja"
	"puntoventa/internal/domain/catalogs/producto"
	"puntoventa/internal/domain/catalogs/sucursal"
	"puntoventa/internal/domain/documents/turno"
	"puntoventa/internal/domain/documents/venta"
	"puntoventa/internal/domain/registers/inventario"
	"puntoventa/internal/infrastructure/cache"
	v1 "puntoventa/internal/infrastructure/http/v1"
	"puntoventa/internal/infrastructure/storage/postgres"
	"puntoventa/internal/infrastructure/storage/postgres/auth_repo"
	"puntoventa/internal/infrastructure/storage/postgres/catalog_repo"
	"puntoventa/internal/infrastructure/storage/postgres/document_repo"
	"puntoventa/internal/infrastructure/storage/postgres/register_repo"
	"puntoventa/pkg/config"
	"puntoventa/pkg/folio"
	"puntoventa/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting puntoventa server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.ConnectionString())
	if cfg.DB.MaxConns > 0 {
		poolCfg.MaxConns = cfg.DB.MaxConns
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Product cache (optional) ---
	var productCache producto.Cache
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warnw("redis unreachable, product cache disabled", "error", err)
		} else {
			productCache = cache.NewProductCache(redisClient, cfg.Redis.TTL)
			log.Infow("product cache enabled", "addr", cfg.Redis.Addr)
		}
	}

	// --- Repositories ---
	productoRepo := catalog_repo.NewProductoRepo(txManager)
	sucursalRepo := catalog_repo.NewSucursalRepo(txManager)
	cajaRepo := catalog_repo.NewCajaRepo(txManager)
	inventarioRepo := register_repo.NewInventarioRepo(txManager)
	ventaRepo := document_repo.NewVentaRepo(txManager)
	turnoRepo := document_repo.NewTurnoRepo(txManager)
	usuarioRepo := auth_repo.NewUsuarioRepo(txManager)

	// --- Services ---
	tokenService := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.Issuer)
	authService := auth.NewService(usuarioRepo, tokenService)

	productoService := producto.NewService(productoRepo, productCache)
	sucursalService := sucursal.NewService(sucursalRepo)
	cajaService := caja.NewService(cajaRepo)
	inventarioService := inventario.NewService(inventarioRepo, productoService, txManager)
	folioService := folio.NewService(postgres.NewFolioSource(txManager))
	ventaService := venta.NewService(ventaRepo, productoService, sucursalService, inventarioService, folioService, txManager)
	turnoService := turno.NewService(turnoRepo, cajaService, txManager)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:              pool.Pool,
		Logger:            log,
		TokenValidator:    tokenService,
		AuthService:       authService,
		ProductoService:   productoService,
		SucursalService:   sucursalService,
		CajaService:       cajaService,
		InventarioService: inventarioService,
		VentaService:      ventaService,
		TurnoService:      turnoService,
	})

	// --- HTTP server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
