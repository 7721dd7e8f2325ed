package folio

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puntoventa/internal/core/id"
)

type fakeRow struct {
	val int64
	err error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = r.val
		}
	}
	return nil
}

// fakeQuerier keeps one counter per clave, mirroring the UPSERT.
type fakeQuerier struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{counters: make(map[string]int64)}
}

func (q *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.mu.Lock()
	defer q.mu.Unlock()

	clave, _ := args[0].(string)
	q.counters[clave]++
	return &fakeRow{val: q.counters[clave]}
}

type fakeSource struct {
	q Querier
}

func (s *fakeSource) Querier(ctx context.Context) Querier { return s.q }

func TestKeyAndFormat(t *testing.T) {
	empresaID := id.MustParse("0198a000-0000-7000-8000-000000000001")
	fecha := time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, "venta:0198a000-0000-7000-8000-000000000001:260829", Key(empresaID, fecha))
	assert.Equal(t, "V260829-0007", Format(fecha, 7))
	assert.Equal(t, "V260829-12345", Format(fecha, 12345))
}

func TestNext_SequencePerDay(t *testing.T) {
	svc := NewService(&fakeSource{q: newFakeQuerier()})
	ctx := context.Background()
	empresaID := id.New()
	fecha := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	f1, err := svc.Next(ctx, empresaID, fecha)
	require.NoError(t, err)
	assert.Equal(t, "V260829-0001", f1)

	f2, err := svc.Next(ctx, empresaID, fecha)
	require.NoError(t, err)
	assert.Equal(t, "V260829-0002", f2)

	// A new business day restarts the sequence.
	siguiente := fecha.AddDate(0, 0, 1)
	f3, err := svc.Next(ctx, empresaID, siguiente)
	require.NoError(t, err)
	assert.Equal(t, "V260830-0001", f3)
}

func TestNext_IndependentPerTenant(t *testing.T) {
	svc := NewService(&fakeSource{q: newFakeQuerier()})
	ctx := context.Background()
	fecha := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	f1, err := svc.Next(ctx, id.New(), fecha)
	require.NoError(t, err)
	f2, err := svc.Next(ctx, id.New(), fecha)
	require.NoError(t, err)

	// Different tenants each get -0001 for the same day.
	assert.Equal(t, "V260829-0001", f1)
	assert.Equal(t, "V260829-0001", f2)
}

func TestNext_NotInitialized(t *testing.T) {
	var svc *Service
	_, err := svc.Next(context.Background(), id.New(), time.Now())
	assert.Error(t, err)
}
