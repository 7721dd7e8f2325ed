package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCantidad_Conversions(t *testing.T) {
	assert.Equal(t, Cantidad(5000), NewCantidadFromInt(5))
	assert.Equal(t, Cantidad(2500), NewCantidadFromFloat64(2.5))
	assert.Equal(t, Cantidad(1), NewCantidadFromFloat64(0.001))
	assert.Equal(t, Cantidad(-3250), NewCantidadFromFloat64(-3.25))

	c := NewCantidadFromFloat64(1.234)
	assert.Equal(t, int64(1234), c.Int64Scaled())
	assert.InDelta(t, 1.234, c.Float64(), 1e-9)
	assert.Equal(t, "1.234", c.Decimal().String())
}

func TestCantidad_String(t *testing.T) {
	tests := []struct {
		name string
		c    Cantidad
		want string
	}{
		{"whole units", NewCantidadFromInt(12), "12.000"},
		{"fractional", Cantidad(1234), "1.234"},
		{"sub unit", Cantidad(5), "0.005"},
		{"zero", Cantidad(0), "0.000"},
		{"negative", Cantidad(-2500), "-2.500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.String())
		})
	}
}

func TestCantidad_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Cantidad
	}{
		{"integer", `3`, Cantidad(3000)},
		{"decimal", `2.5`, Cantidad(2500)},
		{"three places", `0.125`, Cantidad(125)},
		{"extra places truncated", `1.23456`, Cantidad(1234)},
		{"string form", `"4.250"`, Cantidad(4250)},
		{"negative", `-1.5`, Cantidad(-1500)},
		{"null", `null`, Cantidad(0)},
		{"exponent", `1e3`, Cantidad(1_000_000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Cantidad
			require.NoError(t, json.Unmarshal([]byte(tt.input), &c))
			assert.Equal(t, tt.want, c)
		})
	}

	var c Cantidad
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &c))
}

func TestCantidad_JSONRoundTrip(t *testing.T) {
	type carrito struct {
		Cantidad Cantidad `json:"cantidad"`
	}

	out, err := json.Marshal(carrito{Cantidad: Cantidad(1500)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cantidad":1.500}`, string(out))

	var in carrito
	require.NoError(t, json.Unmarshal(out, &in))
	assert.Equal(t, Cantidad(1500), in.Cantidad)
}

func TestMoney_FromString(t *testing.T) {
	m, err := NewMoneyFromString("19.99")
	require.NoError(t, err)
	assert.Equal(t, "19.99", m.String())

	_, err = NewMoneyFromString("not-a-number")
	assert.Error(t, err)

	assert.True(t, ZeroMoney().IsZero())
	assert.Equal(t, "10.5", MustMoney("10.50").String())
}
