package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dasgroupllc/archivebase/internal/app/service/reconciler"
	"github.com/dasgroupllc/archivebase/pkg/logctx"
	"github.com/dasgroupllc/archivebase/pkg/response"
)

// @Summary      Billing webhook
// @Description  Handles payment-provider subscription events. The body is the raw provider payload; X-Signature carries its HMAC.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.APIResponse[any]
// @Failure      401  {object}  response.APIResponse[any]
// @Router       /api/billing/webhook [post]
func ApiBillingWebhook(r *reconciler.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logctx.FromGin(c, zap.S())
		log.Infow("webhook_received")

		rawBody, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.Err("Failed to read body"))
			return
		}

		err = r.Handle(c.Request.Context(), rawBody, c.GetHeader("X-Signature"))
		switch {
		case err == nil:
			c.JSON(http.StatusOK, response.OK())
		case errors.Is(err, reconciler.ErrInvalidSignature):
			c.JSON(http.StatusUnauthorized, response.Err("Invalid signature"))
		case errors.Is(err, reconciler.ErrMissingTenantReference):
			// Recoverable: answer 200 so the provider does not retry.
			log.Warnw("webhook_skipped", "reason", err.Error())
			c.JSON(http.StatusOK, response.OKT(map[string]string{"message": "No tenant reference, skipped"}))
		default:
			log.Errorw("webhook_handle_error", "error", err.Error())
			c.JSON(http.StatusInternalServerError, response.Err("Webhook processing failed"))
		}
	}
}
