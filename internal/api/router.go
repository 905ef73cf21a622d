package api

import (
	"github.com/gin-gonic/gin"

	"github.com/vietddude/addrwatch/internal/indexing/health"
)

// RegisterRoutes registers all HTTP routes.
func RegisterRoutes(r *gin.Engine, deps Deps) {
	health.RegisterRoutes(r, deps.Monitor)

	h := &Handler{deps: deps}
	api := r.Group("/v1")

	api.GET("/state", h.GetState)

	api.GET("/alerts", h.ListAlerts)
	api.DELETE("/alerts", h.ClearAlerts)

	api.GET("/watchlist", h.ListWatchlist)
	api.POST("/watchlist", h.AddWatched)
	api.DELETE("/watchlist/:address", h.RemoveWatched)

	api.GET("/config", h.GetConfig)
	api.PATCH("/config", h.UpdateConfig)

	api.GET("/snapshots", h.ListSnapshots)
	api.POST("/snapshots", h.SaveSnapshot)
	api.POST("/snapshots/:id/restore", h.RestoreSnapshot)

	if deps.Broadcaster != nil {
		api.GET("/ws", deps.Broadcaster.Handle)
	}
}
