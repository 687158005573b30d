package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/marketpay/docs"
	"github.com/fatflowers/marketpay/internal/app/api/handlers"
	mw "github.com/fatflowers/marketpay/internal/app/api/middleware"
	"github.com/fatflowers/marketpay/internal/app/service/checkout"
	"github.com/fatflowers/marketpay/internal/app/service/reconcile"
	"github.com/fatflowers/marketpay/internal/app/service/statistics"
	"github.com/fatflowers/marketpay/internal/app/service/status"
	"github.com/fatflowers/marketpay/internal/app/service/transaction"
	cfgpkg "github.com/fatflowers/marketpay/pkg/config"
	metrics "github.com/fatflowers/marketpay/pkg/metrics"
)

func newEngine(cfg *cfgpkg.Config) *gin.Engine {
	if cfg != nil && cfg.Env == cfgpkg.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

type routeDeps struct {
	fx.In

	Log        *zap.SugaredLogger
	Cfg        *cfgpkg.Config
	Checkout   *checkout.Service
	Status     *status.Service
	Reconciler *reconcile.Service
	Scanner    transaction.Scanner
	Stats      *statistics.Service
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	log, cfg := d.Log, d.Cfg
	// Prometheus metrics
	if cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
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
	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())

	// Webhooks authenticate by signature, not bearer token
	handlers.RegisterWebhookRoutes(apiV1.Group("/webhooks"), d.Reconciler, log)

	authed := apiV1.Group("/")
	authed.Use(mw.AuthMiddleware(cfg.Auth.JWTSecret, log))
	handlers.RegisterCheckoutRoutes(authed, d.Checkout, log)
	handlers.RegisterStatusRoutes(authed, d.Status, log)

	admin := apiV1.Group("/admin")
	admin.Use(mw.AdminTokenMiddleware(cfg.Auth.AdminToken))
	handlers.RegisterAdminRoutes(admin, d.Scanner, d.Stats, log)

	if cfg.Auth.JWTSecret == "" {
		log.Warnw("auth.jwt_secret is empty; authenticated routes will reject every request")
	}
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
