package dto

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bindJSON runs a body through gin's binding the same way handlers do.
func bindJSON(t *testing.T, body string, obj any) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c.ShouldBindJSON(obj)
}

func TestCancelVentaRequest_MotivoOpcional(t *testing.T) {
	var vacio CancelVentaRequest
	require.NoError(t, bindJSON(t, `{}`, &vacio))
	assert.Empty(t, vacio.Motivo)

	var conMotivo CancelVentaRequest
	require.NoError(t, bindJSON(t, `{"motivo":"cliente se arrepintió"}`, &conMotivo))
	assert.Equal(t, "cliente se arrepintió", conMotivo.Motivo)
}

func TestCreateVentaRequest_CamposRequeridos(t *testing.T) {
	var req CreateVentaRequest
	err := bindJSON(t, `{"metodoPago":"efectivo"}`, &req)
	assert.Error(t, err)
}
