package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"puntoventa/internal/core/apperror"
	appctx "puntoventa/internal/core/context"
)

// TokenValidator validates an access token into a user context.
type TokenValidator interface {
	Validate(tokenString string) (*appctx.UserContext, error)
}

// Auth validates the bearer token and populates the user context.
// Every protected query downstream is scoped by the token's empresa.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "falta encabezado de autorización")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "encabezado de autorización inválido")
			return
		}

		user, err := validator.Validate(parts[1])
		if err != nil {
			abortUnauthorized(c, "token inválido o expirado")
			return
		}

		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)
		c.Set("user_id", user.UserID.String())

		c.Next()
	}
}

// RequireRol aborts with 403 unless the caller has one of the roles.
func RequireRol(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			abortUnauthorized(c, "autenticación requerida")
			return
		}

		for _, required := range roles {
			if user.Rol == required {
				c.Next()
				return
			}
		}

		_ = c.Error(
			apperror.NewForbidden("permisos insuficientes").
				WithDetail("rolesRequeridos", roles),
		)
		c.Abort()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
