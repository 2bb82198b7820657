package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	subsvc "github.com/dasgroupllc/archivebase/internal/app/service/subscription"
	"github.com/dasgroupllc/archivebase/internal/platform/lemonsqueezy"
	cfgpkg "github.com/dasgroupllc/archivebase/pkg/config"
	"github.com/dasgroupllc/archivebase/pkg/logctx"
	"github.com/dasgroupllc/archivebase/pkg/response"
)

type checkoutRequest struct {
	Tier   string `json:"tier" binding:"required"`
	BaseID string `json:"baseId" binding:"required"`
	Email  string `json:"email"`
}

type checkoutResp struct {
	CheckoutURL string `json:"checkoutUrl"`
}

// @Summary      Create checkout
// @Description  Creates a hosted checkout for a paid tier. The base id rides along as custom data so the webhook can tie the purchase back.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request body handlers.checkoutRequest true "Checkout request"
// @Success      200  {object}  response.APIResponse[checkoutResp]
// @Router       /api/billing/checkout [post]
func ApiCreateCheckout(client *lemonsqueezy.Client, cfg *cfgpkg.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Err("Missing tier or baseId"))
			return
		}

		if cfg.LemonSqueezy.StoreID == "" {
			c.JSON(http.StatusInternalServerError, response.Err("Store not configured"))
			return
		}
		variantID := cfg.VariantIDForTier(req.Tier)
		if variantID == "" {
			c.JSON(http.StatusBadRequest, response.Err(fmt.Sprintf("Invalid tier: %s", req.Tier)))
			return
		}

		url, err := client.CreateCheckout(c.Request.Context(), cfg.LemonSqueezy.StoreID, variantID, req.Email,
			map[string]string{"base_id": req.BaseID})
		if err != nil {
			logctx.FromGin(c, zap.S()).Errorw("checkout_failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, response.Err("Failed to create checkout"))
			return
		}
		c.JSON(http.StatusOK, response.OKT(checkoutResp{CheckoutURL: url}))
	}
}

type portalRequest struct {
	BaseID string `json:"baseId" binding:"required"`
}

type portalResp struct {
	PortalURL string `json:"portalUrl"`
}

// @Summary      Customer portal
// @Description  Returns the provider-hosted portal URL where a customer manages their subscription.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request body handlers.portalRequest true "Portal request"
// @Success      200  {object}  response.APIResponse[portalResp]
// @Failure      404  {object}  response.APIResponse[any]
// @Router       /api/billing/portal [post]
func ApiCustomerPortal(client *lemonsqueezy.Client, sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req portalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Err("Missing baseId"))
			return
		}

		s, err := sub.Get(c.Request.Context(), req.BaseID)
		if err != nil {
			internalError(c, err)
			return
		}
		if s.ExternalSubscriptionID == "" {
			c.JSON(http.StatusNotFound, response.Err("No subscription found"))
			return
		}

		remote, err := client.GetSubscription(c.Request.Context(), s.ExternalSubscriptionID)
		if err != nil {
			logctx.FromGin(c, zap.S()).Errorw("portal_failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, response.Err("Failed to create portal session"))
			return
		}
		c.JSON(http.StatusOK, response.OKT(portalResp{PortalURL: remote.Attributes.URLs.CustomerPortal}))
	}
}
