package http

import (
	"time"

	"github.com/jmehdipour/customer-service/internal/http/middleware"
	"github.com/jmehdipour/customer-service/internal/metrics"
	echo "github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// observeRoutes counts and times requests that matched a customer route.
// It reads the descriptor and outcome after the handler returned.
func observeRoutes() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			meta, ok := RouteMetaFromCtx(c)
			if !ok {
				return err
			}
			outcome, ok := middleware.OutcomeFromCtx(c)
			if !ok {
				outcome = middleware.OutcomeStoreError
				if err == nil {
					outcome = middleware.OutcomeOK
				}
			}

			metrics.RequestsTotal.WithLabelValues(meta.Name, meta.Version, string(outcome)).Inc()
			metrics.RequestDuration.WithLabelValues(meta.Name).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// accessLog writes one zap line per request, at warn for 4xx and error for 5xx.
func accessLog(log *zap.Logger) echo.MiddlewareFunc {
	return echoMid.RequestLoggerWithConfig(echoMid.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogValuesFunc: func(c echo.Context, v echoMid.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
				zap.String("ip", v.RemoteIP),
			}
			if meta, ok := RouteMetaFromCtx(c); ok {
				fields = append(fields, zap.String("route", meta.Name), zap.String("version", meta.Version))
			}
			if o, ok := middleware.OutcomeFromCtx(c); ok {
				fields = append(fields, zap.String("outcome", string(o)))
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}

			level := zapcore.InfoLevel
			switch {
			case v.Status >= 500:
				level = zapcore.ErrorLevel
			case v.Status >= 400:
				level = zapcore.WarnLevel
			}
			log.Check(level, "request").Write(fields...)
			return nil
		},
	})
}
