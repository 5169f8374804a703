package api_test

import (
	"testing"

	"dispatch/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestLoad(t *testing.T) {
	doc, err := api.Load(t.Context())

	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/api/v1/orders/{orderId}/transitions"))
	assert.NotNil(t, doc.Paths.Find("/api/v1/couriers/{courierId}/balance"))
	assert.Contains(t, doc.Components.SecuritySchemes, "bearerAuth")
}

func TestRegisterSwagger(t *testing.T) {
	doc, err := api.Load(t.Context())
	require.NoError(t, err)

	require.NoError(t, api.RegisterSwagger(doc))
	require.NoError(t, api.RegisterSwagger(doc))

	raw, err := swag.ReadDoc()
	require.NoError(t, err)
	assert.Contains(t, raw, `"openapi":"3.0.3"`)
}
