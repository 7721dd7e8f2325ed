// Package auth provides users, credentials and JWT session tokens.
package auth

import (
	"time"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
)

// Roles recognized by the API. Authorization is coarse: admins manage
// catalogs, cajeros operate the register.
const (
	RolAdmin  = "admin"
	RolCajero = "cajero"
)

// Usuario is an operator account. Email is unique across the system
// and doubles as the login name.
type Usuario struct {
	ID        id.ID `db:"id" json:"id"`
	EmpresaID id.ID `db:"empresa_id" json:"empresaId"`

	Nombre       string `db:"nombre" json:"nombre"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	Rol          string `db:"rol" json:"rol"`

	Activo   bool      `db:"activo" json:"activo"`
	CreadoEn time.Time `db:"creado_en" json:"creadoEn"`
}

// Validate checks invariants before persisting.
func (u *Usuario) Validate() error {
	if id.IsNil(u.EmpresaID) {
		return apperror.NewValidation("empresa es requerida").WithDetail("field", "empresaId")
	}
	if u.Nombre == "" {
		return apperror.NewValidation("nombre es requerido").WithDetail("field", "nombre")
	}
	if u.Email == "" {
		return apperror.NewValidation("email es requerido").WithDetail("field", "email")
	}
	if u.Rol != RolAdmin && u.Rol != RolCajero {
		return apperror.NewValidation("rol inválido").WithDetail("field", "rol")
	}
	return nil
}
