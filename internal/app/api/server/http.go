package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/dasgroupllc/archivebase/docs"
	"github.com/dasgroupllc/archivebase/internal/app/api/handlers"
	mw "github.com/dasgroupllc/archivebase/internal/app/api/middleware"
	"github.com/dasgroupllc/archivebase/internal/app/service/archivelog"
	"github.com/dasgroupllc/archivebase/internal/app/service/reconciler"
	subsvc "github.com/dasgroupllc/archivebase/internal/app/service/subscription"
	"github.com/dasgroupllc/archivebase/internal/platform/airtable"
	"github.com/dasgroupllc/archivebase/internal/platform/lemonsqueezy"
	cfgpkg "github.com/dasgroupllc/archivebase/pkg/config"
	metrics "github.com/dasgroupllc/archivebase/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.TraceMiddleware())
	// The extension runs inside the platform's iframe, so every route is
	// cross-origin from the browser's point of view.
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Content-Type", "Authorization", "X-Base-Id", "X-Signature", "X-Request-ID"}
	r.Use(cors.New(corsCfg))
	return r
}

func registerRoutes(
	r *gin.Engine,
	log *zap.SugaredLogger,
	cfg *cfgpkg.Config,
	sub *subsvc.Service,
	archives *archivelog.Service,
	rec *reconciler.Reconciler,
	lsClient *lemonsqueezy.Client,
	oauth *airtable.OAuth,
) {
	// Prometheus metrics
	if cfg != nil && cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			Subsystem: "archivebase",
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}

	if cfg.APIKey == "" {
		log.Warnw("no API key configured, protected routes are open; do not run this in production")
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())

	// License views, checkout, webhook and the OAuth flow stay open: the
	// webhook is guarded by its signature, the rest is read-only or
	// provider-hosted.
	handlers.RegisterLicenseRoutes(api, sub)
	handlers.RegisterAuthRoutes(api, oauth)

	authed := r.Group("/api")
	authed.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), mw.AuthMiddleware(cfg.APIKey))
	handlers.RegisterArchiveRoutes(authed, sub, archives)
	handlers.RegisterBillingRoutes(api, authed, lsClient, cfg, sub, rec)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
