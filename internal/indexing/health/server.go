package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/addrwatch/internal/core/domain"
)

// RegisterRoutes mounts /health, /health/detailed and /metrics on r.
func RegisterRoutes(r gin.IRoutes, monitor *Monitor) {
	r.GET("/health", func(c *gin.Context) {
		state := monitor.State()
		code := http.StatusOK
		if state.Status != domain.StatusOnline {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": state.Status})
	})

	r.GET("/health/detailed", func(c *gin.Context) {
		c.JSON(http.StatusOK, monitor.Report())
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
