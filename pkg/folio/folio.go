// Package folio provides sale document numbering.
//
// Folios follow the format V<YYMMDD>-<NNNN> and are allocated from a
// per-tenant per-day counter row with an atomic UPSERT ... RETURNING,
// so two concurrent sales can never receive the same folio.
package folio

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"puntoventa/internal/core/id"
)

// Prefix for sale folios.
const Prefix = "V"

// Querier is the minimal database contract the service needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Source yields the querier for the current context. When the caller
// runs inside a transaction the returned querier is that transaction,
// so the allocated folio commits or rolls back with the sale.
type Source interface {
	Querier(ctx context.Context) Querier
}

// Service allocates folios.
type Service struct {
	src Source
}

// NewService creates a folio service.
func NewService(src Source) *Service {
	return &Service{src: src}
}

// Key builds the counter key for a tenant and business date.
func Key(empresaID id.ID, fecha time.Time) string {
	return fmt.Sprintf("venta:%s:%s", empresaID, fecha.Format("060102"))
}

// Format renders a folio from a business date and sequence number.
func Format(fecha time.Time, seq int64) string {
	return fmt.Sprintf("%s%s-%04d", Prefix, fecha.Format("060102"), seq)
}

// Next allocates the next folio for the tenant and date.
// The counter is gap-free within the calling transaction: the sequence
// row stays locked until the sale commits.
func (s *Service) Next(ctx context.Context, empresaID id.ID, fecha time.Time) (string, error) {
	if s == nil || s.src == nil {
		return "", fmt.Errorf("folio service is not initialized")
	}

	var seq int64
	err := s.src.Querier(ctx).QueryRow(ctx, `
		INSERT INTO sys_secuencias (clave, valor_actual)
		VALUES ($1, 1)
		ON CONFLICT (clave) DO UPDATE SET valor_actual = sys_secuencias.valor_actual + 1
		RETURNING valor_actual
	`, Key(empresaID, fecha)).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("siguiente folio: %w", err)
	}

	return Format(fecha, seq), nil
}
