package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vietddude/addrwatch/internal/core/cursor"
	"github.com/vietddude/addrwatch/internal/core/domain"
	"github.com/vietddude/addrwatch/internal/core/settings"
	"github.com/vietddude/addrwatch/internal/indexing/watchlist"
	"github.com/vietddude/addrwatch/internal/infra/rpc"
)

type Handler struct {
	deps Deps
}

// StateResponse is the combined monitor status.
type StateResponse struct {
	Status          domain.ConnectivityStatus `json:"status"`
	LastKnownHeight uint64                    `json:"last_known_height"`
	CheckedAt       time.Time                 `json:"checked_at"`
	Cursor          uint64                    `json:"cursor"`
	ScanState       domain.ScanState          `json:"scan_state"`
	ScanMetrics     cursor.Metrics            `json:"scan_metrics"`
	Watched         int                       `json:"watched"`
	Alerts          int                       `json:"alerts"`
	RPC             *rpc.HealthStatus         `json:"rpc,omitempty"`
}

// AlertView is an alert with its explorer link.
type AlertView struct {
	domain.Alert
	ExplorerURL string `json:"explorer_url,omitempty"`
}

type addWatchedRequest struct {
	Address string `json:"address" binding:"required"`
	Label   string `json:"label"`
}

type saveSnapshotRequest struct {
	Name string `json:"name"`
}

func (h *Handler) GetState(c *gin.Context) {
	conn := h.deps.Monitor.State()
	resp := StateResponse{
		Status:          conn.Status,
		LastKnownHeight: conn.LastKnownHeight,
		CheckedAt:       conn.CheckedAt,
		Cursor:          h.deps.Cursor.Block(),
		ScanState:       h.deps.Cursor.State(),
		ScanMetrics:     h.deps.Cursor.Metrics(),
		Watched:         h.deps.Watchlist.Len(),
		Alerts:          h.deps.Feed.Len(),
	}
	if h.deps.RPC != nil {
		rh := h.deps.RPC.Health()
		resp.RPC = &rh
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListAlerts(c *gin.Context) {
	explorer := h.deps.Settings.Current().ExplorerBaseURL
	alerts := h.deps.Feed.List()

	views := make([]AlertView, len(alerts))
	for i, a := range alerts {
		views[i] = newAlertView(a, explorer)
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) ClearAlerts(c *gin.Context) {
	h.deps.Feed.Clear()
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListWatchlist(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Watchlist.List())
}

func (h *Handler) AddWatched(c *gin.Context) {
	var req addWatchedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.deps.Watchlist.Add(req.Address, req.Label)
	switch {
	case errors.Is(err, watchlist.ErrDuplicateAddress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) RemoveWatched(c *gin.Context) {
	removed := h.deps.Watchlist.Remove(c.Param("address"))
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Settings.Current().Redacted())
}

func (h *Handler) UpdateConfig(c *gin.Context) {
	var patch settings.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	cfg, err := h.deps.Settings.Update(patch)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cfg.Redacted())
}

func (h *Handler) ListSnapshots(c *gin.Context) {
	history := h.deps.Settings.History()
	for i := range history {
		history[i].Configuration = history[i].Configuration.Redacted()
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handler) SaveSnapshot(c *gin.Context) {
	var req saveSnapshotRequest
	// An empty body means an auto-named snapshot.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.deps.Settings.Save(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	snap.Configuration = snap.Configuration.Redacted()
	c.JSON(http.StatusCreated, snap)
}

func (h *Handler) RestoreSnapshot(c *gin.Context) {
	snap, err := h.deps.Settings.Restore(c.Request.Context(), c.Param("id"))
	if errors.Is(err, settings.ErrSnapshotNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	snap.Configuration = snap.Configuration.Redacted()
	c.JSON(http.StatusOK, snap)
}

func newAlertView(a domain.Alert, explorer string) AlertView {
	v := AlertView{Alert: a}
	if a.TxHash != "" && explorer != "" {
		v.ExplorerURL = strings.TrimRight(explorer, "/") + "/tx/" + a.TxHash
	}
	return v
}
