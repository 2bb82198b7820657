package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dasgroupllc/archivebase/internal/app/service/reconciler"
	subsvc "github.com/dasgroupllc/archivebase/internal/app/service/subscription"
	"github.com/dasgroupllc/archivebase/internal/app/service/webhooklog"
	"github.com/dasgroupllc/archivebase/internal/platform/lemonsqueezy"
	cfgpkg "github.com/dasgroupllc/archivebase/pkg/config"
)

func newBillingTestRouter(cfg *cfgpkg.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop().Sugar()
	sub := subsvc.NewService(subsvc.NewMemoryStore(), log)
	rec := reconciler.NewReconciler(cfg, sub, webhooklog.New(nil, log), log)

	r := gin.New()
	api := r.Group("/api")
	RegisterBillingRoutes(api, api, nil, cfg, sub, rec)
	RegisterLicenseRoutes(api, sub)
	return r
}

func TestApiCreateCheckout_Validation(t *testing.T) {
	cfg := &cfgpkg.Config{}
	cfg.LemonSqueezy.StoreID = "12345"
	cfg.LemonSqueezy.ProVariantID = "111"
	cfg.LemonSqueezy.TeamVariantID = "222"
	r := newBillingTestRouter(cfg)

	// missing fields
	w := doJSON(r, http.MethodPost, "/api/billing/checkout", gin.H{"tier": "pro"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unknown tier
	w = doJSON(r, http.MethodPost, "/api/billing/checkout", gin.H{"tier": "enterprise", "baseId": "app1"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid tier: enterprise")

	// free is not purchasable
	w = doJSON(r, http.MethodPost, "/api/billing/checkout", gin.H{"tier": "free", "baseId": "app1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApiCreateCheckout_StoreNotConfigured(t *testing.T) {
	r := newBillingTestRouter(&cfgpkg.Config{})

	w := doJSON(r, http.MethodPost, "/api/billing/checkout", gin.H{"tier": "pro", "baseId": "app1"})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Store not configured")
}

func TestApiCustomerPortal_NoSubscription(t *testing.T) {
	r := newBillingTestRouter(&cfgpkg.Config{})

	w := doJSON(r, http.MethodPost, "/api/billing/portal", gin.H{"baseId": "app1"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No subscription found")
}

func TestApiBillingWebhook_EndToEnd(t *testing.T) {
	cfg := &cfgpkg.Config{}
	cfg.LemonSqueezy.WebhookSecret = "whsec"
	r := newBillingTestRouter(cfg)

	body := []byte(`{
		"meta": {"event_name": "subscription_created", "custom_data": {"base_id": "app1"}},
		"data": {"id": "ls_1", "attributes": {"status": "active", "variant_name": "Pro Monthly", "customer_id": 7}}
	}`)

	// bad signature rejected
	req := newRawRequest(http.MethodPost, "/api/billing/webhook", body)
	req.Header.Set("X-Signature", "deadbeef")
	w := serve(r, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid signature")

	// valid signature activates the subscription
	req = newRawRequest(http.MethodPost, "/api/billing/webhook", body)
	req.Header.Set("X-Signature", lemonsqueezy.Sign(body, "whsec"))
	w = serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)

	lw := doJSON(r, http.MethodGet, "/api/license?baseId=app1", nil)
	require.Equal(t, http.StatusOK, lw.Code)
	var resp struct {
		Data struct {
			Tier   string `json:"tier"`
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(lw.Body.Bytes(), &resp))
	assert.Equal(t, "pro", resp.Data.Tier)
	assert.Equal(t, "active", resp.Data.Status)
}

func TestApiBillingWebhook_NoTenantReferenceStill200(t *testing.T) {
	r := newBillingTestRouter(&cfgpkg.Config{})

	body := []byte(`{
		"meta": {"event_name": "subscription_created", "custom_data": {}},
		"data": {"id": "ls_1", "attributes": {"status": "active", "variant_name": "Pro Monthly", "customer_id": 7}}
	}`)
	w := serve(r, newRawRequest(http.MethodPost, "/api/billing/webhook", body))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No tenant reference, skipped")
}

func TestApiBillingWebhook_MalformedBody500(t *testing.T) {
	r := newBillingTestRouter(&cfgpkg.Config{})

	w := serve(r, newRawRequest(http.MethodPost, "/api/billing/webhook", []byte("not json")))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Webhook processing failed")
}
