package http

import (
	"context"
	"net/http"
	"time"

	"github.com/jmehdipour/customer-service/internal/config"
	"github.com/jmehdipour/customer-service/internal/http/middleware"
	"github.com/jmehdipour/customer-service/internal/logger"
	"github.com/jmehdipour/customer-service/internal/metrics"
	"github.com/jmehdipour/customer-service/internal/repository"
	"github.com/jmehdipour/customer-service/internal/util"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Deps are the collaborators the server is built from. History and Redis are
// optional; without them the history route and the rate limiter are off.
type Deps struct {
	Customers CustomerService
	History   repository.CustomerEventsRepository
	Redis     redis.Cmdable
	Log       *zap.Logger
	// Registry backs /metrics. A fresh registry is created when nil.
	Registry *prometheus.Registry
}

type Server struct {
	e   *echo.Echo
	log *zap.Logger
}

func NewServer(cfg config.Config, deps Deps) *Server {
	zl := deps.Log
	if zl == nil {
		zl = zap.NewNop()
	}
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics.MustRegister(reg)

	mode := StatusMode(cfg.HTTP.StatusMode)
	if mode != StatusStrict {
		mode = StatusLegacy
	}
	resp := responder{mode: mode, log: zl}

	// echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(echoLevel(cfg.Log.Level))
	e.Use(
		echoMid.Recover(),
		echoMid.RequestIDWithConfig(echoMid.RequestIDConfig{Generator: util.New}),
		accessLog(zl),
		observeRoutes(),
	)
	if cfg.HTTP.BodyLimit != "" {
		e.Use(echoMid.BodyLimit(cfg.HTTP.BodyLimit))
	}

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// middlewares
	var routeMW []echo.MiddlewareFunc
	if deps.Redis != nil && cfg.RateLimit.RPS > 0 {
		routeMW = append(routeMW, middleware.RateLimitMiddleware(middleware.RateLimitConfig{
			Redis:          deps.Redis,
			RPS:            cfg.RateLimit.RPS,
			KeyPrefix:      "rl:ip:",
			Window:         cfg.RateLimit.Window,
			RetryAfterHint: true,
		}))
	}

	// routes
	registerRoutes(e.Group(""), customerRoutes(deps.Customers, deps.History, resp), routeMW...)

	return &Server{e: e, log: zl}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.e.ServeHTTP(w, r) }

func (s *Server) Start(addr string) error {
	s.log.Info("http: listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }

// ShutdownTimeout bounds graceful shutdown of in-flight requests.
const ShutdownTimeout = 5 * time.Second

func echoLevel(level string) log.Lvl {
	switch logger.ParseLevel(level) {
	case zapcore.DebugLevel:
		return log.DEBUG
	case zapcore.WarnLevel:
		return log.WARN
	case zapcore.ErrorLevel:
		return log.ERROR
	default:
		return log.INFO
	}
}
