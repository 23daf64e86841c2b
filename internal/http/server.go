package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/paycrux/switch-connector/internal/config"
	"github.com/paycrux/switch-connector/internal/correlation"
	"github.com/paycrux/switch-connector/internal/http/middleware"
	"github.com/paycrux/switch-connector/internal/logger"
	"github.com/paycrux/switch-connector/internal/metrics"
	"github.com/paycrux/switch-connector/internal/perf"
	"github.com/paycrux/switch-connector/internal/process"
	"github.com/paycrux/switch-connector/internal/repository"
	"github.com/paycrux/switch-connector/internal/resumer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Server struct{ e *echo.Echo }

func NewServer(
	cfg config.Config,
	mysqlDB, clickhouseDB *sqlx.DB,
	rds *redis.Client,
	store correlation.Store,
	engine process.Engine,
	answers perf.AnswerSender,
) *Server {
	// repos
	lookupsRepo := repository.NewLookupsRepository(mysqlDB)
	chLookupsRepo := repository.NewCHLookupsRepository(clickhouseDB)

	res := resumer.New(store, engine, lookupsRepo, cfg.Process.SignalTTL, logger.Log)

	deps := PartiesDeps{
		Cfg:     cfg,
		Engine:  engine,
		Resumer: res,
		Journal: lookupsRepo,
	}
	if cfg.Perf.Enabled {
		deps.Sim = perf.NewSimulator(answers, cfg.Perf.ResponseDelay, logger.Log)
	}

	// echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMid.Recover(), echoMid.Logger())

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// middlewares
	tenantMW := middleware.TenantMiddleware(cfg)
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          rds,
		DefaultRPS:     cfg.RateLimit.RPS,
		KeyPrefix:      "rl:tenant:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	// inbound lookup (tenant resolved from origin)
	e.GET("/switch/parties/:idType/:id", lookupHandler(deps), tenantMW, rlMW)

	// switch callbacks (no tenant on this surface; always acknowledged)
	e.PUT("/switch/parties/:idType/:id", callbackHandler(deps))
	e.PUT("/switch/parties/:idType/:id/error", callbackErrorHandler(deps))

	// reports
	e.GET("/v1/reports/lookups", listLookupsHandler(chLookupsRepo), tenantMW)

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	log.Printf("http: listening on %s", addr)
	return s.e.Start(addr)
}
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
