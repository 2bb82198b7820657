package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRegisterRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	authed := r.Group("/api")

	RegisterArchiveRoutes(authed, nil, nil)
	RegisterLicenseRoutes(api, nil)
	RegisterBillingRoutes(api, authed, nil, nil, nil, nil)
	RegisterAuthRoutes(api, nil)

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("POST /api/archive"))
	require.True(t, contains("GET /api/archive"))
	require.True(t, contains("GET /api/archive/stats"))
	require.True(t, contains("POST /api/archive/preview"))
	require.True(t, contains("GET /api/subscription"))
	require.True(t, contains("GET /api/license"))
	require.True(t, contains("POST /api/billing/checkout"))
	require.True(t, contains("POST /api/billing/webhook"))
	require.True(t, contains("POST /api/billing/portal"))
	require.True(t, contains("GET /api/auth/connect"))
	require.True(t, contains("GET /api/auth/callback"))
}
