package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

type SystemController struct {
	name    string
	version string
	pingers map[string]Pinger
	logger  *zap.Logger
}

func NewSystemController(
	r *gin.Engine,
	name, version string,
	pingers map[string]Pinger,
	logger *zap.Logger,
) *SystemController {
	sc := &SystemController{
		name:    name,
		version: version,
		pingers: pingers,
		logger:  logger,
	}

	r.GET(RouteRoot, sc.RootHandler)
	r.GET(RouteHealth, sc.HealthHandler)
	r.GET(RouteMetrics, gin.WrapH(promhttp.Handler()))

	return sc
}

func (sc *SystemController) RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": sc.name,
		"version": sc.version,
	})
}

func (sc *SystemController) HealthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	checks := make(map[string]string, len(sc.pingers))
	status := http.StatusOK
	for name, ping := range sc.pingers {
		if err := ping(ctx); err != nil {
			sc.logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			checks[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "unhealthy"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks})
}
