package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/dasgroupllc/archivebase/internal/app/service/archivelog"
	"github.com/dasgroupllc/archivebase/internal/app/service/reconciler"
	subsvc "github.com/dasgroupllc/archivebase/internal/app/service/subscription"
	"github.com/dasgroupllc/archivebase/internal/platform/airtable"
	"github.com/dasgroupllc/archivebase/internal/platform/lemonsqueezy"
	cfgpkg "github.com/dasgroupllc/archivebase/pkg/config"
)

// RegisterArchiveRoutes mounts the metered archive endpoints; callers
// attach bearer auth to the group.
func RegisterArchiveRoutes(r gin.IRouter, sub *subsvc.Service, log *archivelog.Service) {
	r.POST("/archive", ApiCreateArchive(sub, log))
	r.GET("/archive", ApiArchiveHistory(log))
	r.GET("/archive/stats", ApiArchiveStats(log))
	r.POST("/archive/preview", ApiArchivePreview())
}

// RegisterLicenseRoutes mounts the read-only subscription views the
// extension polls without credentials.
func RegisterLicenseRoutes(r gin.IRouter, sub *subsvc.Service) {
	r.GET("/subscription", ApiGetSubscription(sub))
	r.GET("/license", ApiGetLicense(sub))
}

// RegisterBillingRoutes mounts checkout and the provider webhook on the
// public group and the portal on the authed group.
func RegisterBillingRoutes(pub, authed gin.IRouter, client *lemonsqueezy.Client, cfg *cfgpkg.Config, sub *subsvc.Service, rec *reconciler.Reconciler) {
	pub.POST("/billing/checkout", ApiCreateCheckout(client, cfg))
	pub.POST("/billing/webhook", ApiBillingWebhook(rec))
	authed.POST("/billing/portal", ApiCustomerPortal(client, sub))
}

// RegisterAuthRoutes mounts the Airtable OAuth flow.
func RegisterAuthRoutes(r gin.IRouter, oauth *airtable.OAuth) {
	r.GET("/auth/connect", ApiAuthConnect(oauth))
	r.GET("/auth/callback", ApiAuthCallback(oauth))
}
