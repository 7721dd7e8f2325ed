package dto

import "time"

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and caller identity.
type LoginResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiraEn  time.Time `json:"expiraEn"`
	UsuarioID string    `json:"usuarioId"`
	EmpresaID string    `json:"empresaId"`
	Nombre    string    `json:"nombre"`
	Rol       string    `json:"rol"`
}
