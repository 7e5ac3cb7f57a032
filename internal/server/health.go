package server

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const healthTimeout = 2 * time.Second

type healthServer struct {
	checks map[string]Pinger
}

// HealthCheck godoc
// @Summary Health check
// @Description Pings the database and, when configured, the cache.
// @Tags operations
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (s *healthServer) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	components := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		if err := s.checks[name].Ping(ctx); err != nil {
			log.WithError(err).WithField("component", name).Error("Health check failed")
			components[name] = "down"
			healthy = false
			continue
		}
		components[name] = "up"
	}

	if !healthy {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status":     "unhealthy",
			"components": components,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":     "healthy",
		"components": components,
	})
}
