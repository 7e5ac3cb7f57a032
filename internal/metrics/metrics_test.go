package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRouteTemplate(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware("/metrics"))
	e.GET("/items/:id", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/fail", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, errors.New("short and stout"))
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	for _, path := range []string{"/items/1", "/items/2", "/fail"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/items/:id", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/fail", "418")))

	m.RecordRateLimited("/v1/auth/login")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited.WithLabelValues("/v1/auth/login")))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "plate_server_http_requests_total"))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/metrics", "200")))
}
