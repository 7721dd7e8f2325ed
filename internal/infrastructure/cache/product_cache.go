// Package cache provides Redis-backed caches for hot catalog lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"puntoventa/internal/core/id"
	"puntoventa/internal/domain/catalogs/producto"
	"puntoventa/pkg/logger"
)

// DefaultProductTTL bounds staleness of cached barcode lookups.
const DefaultProductTTL = 5 * time.Minute

// ProductCache caches barcode resolutions in Redis. Cache failures are
// logged and treated as misses so the register keeps working when
// Redis is down.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache creates a product cache with the given TTL.
// A zero ttl falls back to DefaultProductTTL.
func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = DefaultProductTTL
	}
	return &ProductCache{client: client, ttl: ttl}
}

func productKey(empresaID id.ID, codigo string) string {
	return fmt.Sprintf("producto:%s:%s", empresaID, codigo)
}

// Get returns the cached product, or a miss.
func (c *ProductCache) Get(ctx context.Context, empresaID id.ID, codigo string) (*producto.Producto, bool) {
	raw, err := c.client.Get(ctx, productKey(empresaID, codigo)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx, "cache de productos no disponible", "error", err)
		}
		return nil, false
	}

	var p producto.Producto
	if err := json.Unmarshal(raw, &p); err != nil {
		logger.Warn(ctx, "entrada de cache corrupta, descartando", "codigo", codigo, "error", err)
		c.Invalidate(ctx, empresaID, codigo)
		return nil, false
	}
	return &p, true
}

// Set stores the product under its barcode key.
func (c *ProductCache) Set(ctx context.Context, p *producto.Producto) {
	if p == nil || p.CodigoBarras == "" {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, productKey(p.EmpresaID, p.CodigoBarras), raw, c.ttl).Err(); err != nil {
		logger.Warn(ctx, "no se pudo escribir al cache de productos", "error", err)
	}
}

// Invalidate drops the cached entry for a barcode.
func (c *ProductCache) Invalidate(ctx context.Context, empresaID id.ID, codigo string) {
	if err := c.client.Del(ctx, productKey(empresaID, codigo)).Err(); err != nil {
		logger.Warn(ctx, "no se pudo invalidar el cache de productos", "error", err)
	}
}

var _ producto.Cache = (*ProductCache)(nil)
