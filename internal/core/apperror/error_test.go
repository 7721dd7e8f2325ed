package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactories_StatusAndCode(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"validation", NewValidation("campo requerido"), CodeValidation, http.StatusBadRequest},
		{"business rule", NewBusinessRule(CodeTurnoCerrado, "turno cerrado"), CodeTurnoCerrado, http.StatusBadRequest},
		{"stock", NewStockInsuficiente("p1", 5, 2), CodeStockInsuficiente, http.StatusBadRequest},
		{"not found", NewNotFound("producto", "p1"), CodeNotFound, http.StatusNotFound},
		{"unauthorized", NewUnauthorized("token inválido"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", NewForbidden("permisos insuficientes"), CodeForbidden, http.StatusForbidden},
		{"conflict", NewConflict("estado inconsistente"), CodeConflict, http.StatusConflict},
		{"duplicate", NewDuplicate("producto", "código", "750"), CodeDuplicate, http.StatusConflict},
		{"internal", NewInternal(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.Equal(t, tt.wantStatus, GetHTTPStatus(tt.err))
		})
	}
}

func TestWithDetailAndCause(t *testing.T) {
	cause := errors.New("conn refused")
	err := NewValidation("cantidad inválida").
		WithDetail("field", "cantidad").
		WithDetail("linea", 2).
		WithCause(cause)

	assert.Equal(t, "cantidad", err.Details["field"])
	assert.Equal(t, 2, err.Details["linea"])
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "conn refused")
}

func TestAsAppError_Wrapped(t *testing.T) {
	orig := NewNotFound("venta", "v1")
	wrapped := fmt.Errorf("cancelar: %w", orig)

	got, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, got.Code)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("plain")))
}

func TestStockInsuficiente_Details(t *testing.T) {
	err := NewStockInsuficiente("abc", 10, 3.5)
	assert.Equal(t, "abc", err.Details["productoId"])
	assert.Equal(t, 10.0, err.Details["solicitado"])
	assert.Equal(t, 3.5, err.Details["disponible"])
	assert.True(t, IsValidation(err))
}
