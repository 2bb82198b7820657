package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasgroupllc/archivebase/internal/platform/airtable"
	cfgpkg "github.com/dasgroupllc/archivebase/pkg/config"
)

// newAuthTestRouter stubs the provider's token endpoint so the exchange
// never leaves the test process.
func newAuthTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at_1","refresh_token":"rt_1","token_type":"Bearer","expires_in":3600,"scope":"data.records:read"}`))
	}))
	t.Cleanup(tokenSrv.Close)

	orig := airtable.Endpoint
	airtable.Endpoint.TokenURL = tokenSrv.URL + "/oauth2/v1/token"
	t.Cleanup(func() { airtable.Endpoint = orig })

	cfg := &cfgpkg.Config{AppURL: "https://example.com"}
	cfg.Airtable.ClientID = "client1"
	oauth := airtable.NewOAuth(cfg, airtable.NewStateStore())

	r := gin.New()
	api := r.Group("/api")
	RegisterAuthRoutes(api, oauth)
	return r
}

func TestApiAuthConnect_RedirectsWithPKCE(t *testing.T) {
	r := newAuthTestRouter(t)

	w := serve(r, newRawRequest(http.MethodGet, "/api/auth/connect", nil))
	require.Equal(t, http.StatusFound, w.Code)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "airtable.com", loc.Host)

	q := loc.Query()
	assert.Equal(t, "client1", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.NotEmpty(t, q.Get("code_challenge"))
	assert.NotEmpty(t, q.Get("state"))
	assert.Equal(t, "https://example.com/api/auth/callback", q.Get("redirect_uri"))
	assert.Contains(t, q.Get("scope"), "data.records:read")
}

func TestApiAuthCallback_Validation(t *testing.T) {
	r := newAuthTestRouter(t)

	tests := []struct {
		name     string
		path     string
		wantBody string
	}{
		{name: "provider error passthrough", path: "/api/auth/callback?error=access_denied", wantBody: "access_denied"},
		{name: "missing code", path: "/api/auth/callback?state=abc", wantBody: "missing_code_or_state"},
		{name: "missing state", path: "/api/auth/callback?code=abc", wantBody: "missing_code_or_state"},
		{name: "unknown state", path: "/api/auth/callback?code=abc&state=never-issued", wantBody: "invalid_or_expired_state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, newRawRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestApiAuthCallback_ExchangeAndSingleUseState(t *testing.T) {
	r := newAuthTestRouter(t)

	w := serve(r, newRawRequest(http.MethodGet, "/api/auth/connect", nil))
	require.Equal(t, http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)

	w = serve(r, newRawRequest(http.MethodGet, "/api/auth/callback?code=abc&state="+state, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"access_token":"at_1"`)
	assert.Contains(t, w.Body.String(), `"scope":"data.records:read"`)

	// the state was consumed; a replayed callback fails
	w = serve(r, newRawRequest(http.MethodGet, "/api/auth/callback?code=abc&state="+state, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_or_expired_state")
}
