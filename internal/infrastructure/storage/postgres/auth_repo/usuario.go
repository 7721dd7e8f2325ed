// Package auth_repo provides the PostgreSQL implementation of the user
// repository.
package auth_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/domain/auth"
	"puntoventa/internal/infrastructure/storage/postgres"
)

const usuariosTable = "sys_usuarios"

var usuarioColumns = []string{
	"id", "empresa_id", "nombre", "email", "password_hash", "rol",
	"activo", "creado_en",
}

// UsuarioRepo implements auth.Repository.
type UsuarioRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewUsuarioRepo creates a user repository.
func NewUsuarioRepo(txm *postgres.TxManager) *UsuarioRepo {
	return &UsuarioRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Crear inserts a user. Email is unique within the empresa; the same
// address may exist under other empresas.
func (r *UsuarioRepo) Crear(ctx context.Context, u *auth.Usuario) error {
	q := r.builder.Insert(usuariosTable).
		Columns(usuarioColumns...).
		Values(
			u.ID, u.EmpresaID, u.Nombre, strings.ToLower(u.Email),
			u.PasswordHash, u.Rol, u.Activo, u.CreadoEn,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err, "") {
			return apperror.NewDuplicate("usuario", "email", u.Email)
		}
		return fmt.Errorf("insert usuario: %w", err)
	}
	return nil
}

// ObtenerPorEmail retrieves a user by email, across tenants. When the
// address exists under more than one empresa the oldest account wins.
func (r *UsuarioRepo) ObtenerPorEmail(ctx context.Context, email string) (*auth.Usuario, error) {
	q := r.builder.Select(usuarioColumns...).
		From(usuariosTable).
		Where(squirrel.Eq{"email": strings.ToLower(email)}).
		OrderBy("creado_en").
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u auth.Usuario
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("usuario", email)
		}
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	return &u, nil
}

// ObtenerPorID retrieves a user by id within the tenant.
func (r *UsuarioRepo) ObtenerPorID(ctx context.Context, empresaID, usuarioID id.ID) (*auth.Usuario, error) {
	q := r.builder.Select(usuarioColumns...).
		From(usuariosTable).
		Where(squirrel.Eq{"id": usuarioID, "empresa_id": empresaID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u auth.Usuario
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("usuario", usuarioID.String())
		}
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	return &u, nil
}

var _ auth.Repository = (*UsuarioRepo)(nil)
