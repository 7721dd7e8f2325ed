package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovimientoCajaRequest_RequiereAutorizacion(t *testing.T) {
	// The flag travels on its own, without an authorizer named.
	var conFlag MovimientoCajaRequest
	require.NoError(t, bindJSON(t, `{"tipo":"retiro","monto":150.00,"concepto":"retiro parcial","requiereAutorizacion":true}`, &conFlag))
	mov := conFlag.ToMovimiento(nil)
	assert.True(t, mov.RequiereAutorizacion)
	assert.Nil(t, mov.AutorizadoPor)

	// Naming an authorizer implies the flag even when the client omits it.
	var conAutorizador MovimientoCajaRequest
	require.NoError(t, bindJSON(t, `{"tipo":"retiro","monto":150.00,"concepto":"retiro parcial","autorizadoPor":"Gerente"}`, &conAutorizador))
	mov = conAutorizador.ToMovimiento(nil)
	assert.True(t, mov.RequiereAutorizacion)
	require.NotNil(t, mov.AutorizadoPor)
	assert.Equal(t, "Gerente", *mov.AutorizadoPor)

	var simple MovimientoCajaRequest
	require.NoError(t, bindJSON(t, `{"tipo":"ingreso","monto":10.00,"concepto":"cambio"}`, &simple))
	assert.False(t, simple.ToMovimiento(nil).RequiereAutorizacion)
}
