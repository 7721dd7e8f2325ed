// Package appctx carries request-scoped identity through context.
package appctx

import (
	"context"

	"puntoventa/internal/core/id"
)

// UserContext holds the authenticated caller's identity.
// EmpresaID is the tenant the caller belongs to; services still take
// empresaID as an explicit parameter and this struct only feeds it.
type UserContext struct {
	UserID    id.ID
	EmpresaID id.ID
	Nombre    string
	Rol       string
}

type userKey struct{}

// WithUser stores the user context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUser returns the user context or nil.
func GetUser(ctx context.Context) *UserContext {
	if u, ok := ctx.Value(userKey{}).(*UserContext); ok {
		return u
	}
	return nil
}

// GetEmpresaID returns the caller's tenant id, or id.Nil() when
// unauthenticated.
func GetEmpresaID(ctx context.Context) id.ID {
	if u := GetUser(ctx); u != nil {
		return u.EmpresaID
	}
	return id.Nil()
}
