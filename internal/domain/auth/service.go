package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/pkg/logger"
)

// Service provides login and user management.
type Service struct {
	repo   Repository
	tokens *TokenService
}

// NewService creates an auth service.
func NewService(repo Repository, tokens *TokenService) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Sesion is the result of a successful login.
type Sesion struct {
	Token     string    `json:"token"`
	ExpiraEn  time.Time `json:"expiraEn"`
	UsuarioID id.ID     `json:"usuarioId"`
	EmpresaID id.ID     `json:"empresaId"`
	Nombre    string    `json:"nombre"`
	Rol       string    `json:"rol"`
}

// Login verifies credentials and issues a token. Wrong email and wrong
// password produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*Sesion, error) {
	if email == "" || password == "" {
		return nil, apperror.NewValidation("email y contraseña son requeridos")
	}

	u, err := s.repo.ObtenerPorEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("credenciales inválidas")
		}
		return nil, err
	}
	if !u.Activo {
		return nil, apperror.NewUnauthorized("credenciales inválidas")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, apperror.NewUnauthorized("credenciales inválidas")
	}

	token, expira, err := s.tokens.Generate(u)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sesión iniciada", "usuario_id", u.ID, "empresa_id", u.EmpresaID)
	return &Sesion{
		Token:     token,
		ExpiraEn:  expira,
		UsuarioID: u.ID,
		EmpresaID: u.EmpresaID,
		Nombre:    u.Nombre,
		Rol:       u.Rol,
	}, nil
}

// Registrar creates a user with a freshly hashed password.
func (s *Service) Registrar(ctx context.Context, u *Usuario, password string) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if len(password) < 8 {
		return apperror.NewValidation("la contraseña debe tener al menos 8 caracteres").
			WithDetail("field", "password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternal(err)
	}

	if id.IsNil(u.ID) {
		u.ID = id.New()
	}
	u.PasswordHash = string(hash)
	u.Activo = true
	u.CreadoEn = time.Now().UTC()

	return s.repo.Crear(ctx, u)
}
