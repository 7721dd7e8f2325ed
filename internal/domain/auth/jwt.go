package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"puntoventa/internal/core/apperror"
	appctx "puntoventa/internal/core/context"
	"puntoventa/internal/core/id"
)

// Claims carried inside the access token. EmpresaID travels with every
// token so handlers can scope each query without a second lookup.
type Claims struct {
	EmpresaID string `json:"empresa_id"`
	Nombre    string `json:"nombre"`
	Rol       string `json:"rol"`
	jwt.RegisteredClaims
}

// TokenService signs and validates access tokens (HMAC-SHA256).
type TokenService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewTokenService creates a token service.
func NewTokenService(secret string, expiration time.Duration, issuer string) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		expiration: expiration,
		issuer:     issuer,
	}
}

// Generate issues a signed token for the user.
func (ts *TokenService) Generate(u *Usuario) (string, time.Time, error) {
	now := time.Now().UTC()
	expira := now.Add(ts.expiration)

	claims := Claims{
		EmpresaID: u.EmpresaID.String(),
		Nombre:    u.Nombre,
		Rol:       u.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			Issuer:    ts.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expira),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.secret)
	if err != nil {
		return "", time.Time{}, apperror.NewInternal(err)
	}
	return signed, expira, nil
}

// Validate parses and verifies a token, returning the user context.
func (ts *TokenService) Validate(tokenString string) (*appctx.UserContext, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperror.NewUnauthorized("método de firma inválido")
		}
		return ts.secret, nil
	})
	if err != nil {
		return nil, apperror.NewUnauthorized("token inválido o expirado").WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperror.NewUnauthorized("token inválido")
	}

	userID, err := id.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.NewUnauthorized("token inválido").WithCause(err)
	}
	empresaID, err := id.Parse(claims.EmpresaID)
	if err != nil {
		return nil, apperror.NewUnauthorized("token inválido").WithCause(err)
	}

	return &appctx.UserContext{
		UserID:    userID,
		EmpresaID: empresaID,
		Nombre:    claims.Nombre,
		Rol:       claims.Rol,
	}, nil
}
