package http

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/jmehdipour/customer-service/internal/apperr"
	"github.com/jmehdipour/customer-service/internal/config"
	"github.com/jmehdipour/customer-service/internal/http/middleware"
	"github.com/jmehdipour/customer-service/internal/metrics"
	"github.com/jmehdipour/customer-service/internal/model"
	"github.com/jmehdipour/customer-service/internal/service/customer"
	echo "github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHealthz(t *testing.T) {
	rec := doJSON(newTestServer(t, StatusLegacy, &mockCustomerService{}, nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRequestIDIsULID(t *testing.T) {
	rec := doJSON(newTestServer(t, StatusLegacy, &mockCustomerService{}, nil), http.MethodGet, "/customer", "")
	_, err := ulid.ParseStrict(rec.Header().Get(echo.HeaderXRequestID))
	assert.NoError(t, err)
}

func TestRouteMetricsRunAfterFailedHandler(t *testing.T) {
	svc := &mockCustomerService{
		createFn: func(context.Context, customer.CreateInput) (*model.Customer, error) {
			return nil, &apperr.ValidationError{Message: "m", Type: apperr.TypeNotNull, Path: "first_name"}
		},
	}
	s := newTestServer(t, StatusLegacy, svc, nil)

	validation := metrics.RequestsTotal.WithLabelValues("customerCreate", routeVersion, string(middleware.OutcomeValidation))
	ok := metrics.RequestsTotal.WithLabelValues("customerList", routeVersion, string(middleware.OutcomeOK))
	beforeValidation := testutil.ToFloat64(validation)
	beforeOK := testutil.ToFloat64(ok)

	rec := doJSON(s, http.MethodPost, "/customer", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	doJSON(s, http.MethodGet, "/customer", "")

	assert.Equal(t, beforeValidation+1, testutil.ToFloat64(validation))
	assert.Equal(t, beforeOK+1, testutil.ToFloat64(ok))

	rec = doJSON(s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `custsvc_http_requests_total{outcome="validation",route="customerCreate",version="1.0.0"}`), rec.Body.String())
	assert.Contains(t, rec.Body.String(), "custsvc_http_request_duration_seconds")
}

func TestAccessLogCarriesRouteAndOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svc := &mockCustomerService{
		getFn: func(_ context.Context, id int64) (*model.CustomerSummary, error) {
			return nil, apperr.NewNotFound("customer", id)
		},
	}
	cfg := config.Config{HTTP: config.HTTPConfig{StatusMode: string(StatusStrict)}}
	s := NewServer(cfg, Deps{Customers: svc, Log: zap.New(core)})
	rec := doJSON(s, http.MethodGet, "/customer/3", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)

	fields := entries[0].ContextMap()
	assert.Equal(t, "customerRead", fields["route"])
	assert.Equal(t, "1.0.0", fields["version"])
	assert.Equal(t, "not_found", fields["outcome"])
	assert.EqualValues(t, 404, fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestRegisterRoutesAddsEveryPath(t *testing.T) {
	e := echo.New()
	var seen []string
	routes := []Route{{
		Meta: Meta{Name: "twoPaths", Method: http.MethodGet, Paths: []string{"/a", "/b"}, Version: "2.0.0"},
		Handler: func(c echo.Context) error {
			m, ok := RouteMetaFromCtx(c)
			require.True(t, ok)
			seen = append(seen, m.Name+"@"+m.Version)
			return c.NoContent(http.StatusNoContent)
		},
	}}
	registerRoutes(e.Group(""), routes)

	for _, p := range []string{"/a", "/b"} {
		rec := doJSON(e, http.MethodGet, p, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
	assert.Equal(t, []string{"twoPaths@2.0.0", "twoPaths@2.0.0"}, seen)
}
