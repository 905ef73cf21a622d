package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vietddude/addrwatch/internal/core/domain"
)

const writeWait = 5 * time.Second

// ExplorerSource returns the explorer base URL used for alert links.
type ExplorerSource func() string

// Broadcaster pushes every new alert to connected WebSocket clients.
type Broadcaster struct {
	clients  map[*websocket.Conn]struct{}
	mu       sync.Mutex
	upgrader websocket.Upgrader
	explorer ExplorerSource
	log      *slog.Logger
}

func NewBroadcaster(explorer ExplorerSource, log *slog.Logger) *Broadcaster {
	if log == nil {
		log = slog.Default()
	}
	return &Broadcaster{
		clients:  make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		explorer: explorer,
		log:      log,
	}
}

// Run broadcasts alerts from the channel until ctx is done or the channel
// closes, then disconnects every client.
func (b *Broadcaster) Run(ctx context.Context, alerts <-chan domain.Alert) error {
	defer b.closeAll()

	for {
		select {
		case <-ctx.Done():
			return nil
		case a, ok := <-alerts:
			if !ok {
				return nil
			}
			b.Broadcast(a)
		}
	}
}

// Broadcast writes one alert to every client, dropping clients that fail.
func (b *Broadcaster) Broadcast(a domain.Alert) {
	explorer := ""
	if b.explorer != nil {
		explorer = b.explorer()
	}
	msg, err := json.Marshal(newAlertView(a, explorer))
	if err != nil {
		b.log.Error("failed to marshal alert", "alert", a.ID, "error", err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
			b.log.Debug("websocket write error", "remote", c.RemoteAddr().String(), "error", err)
			c.Close()
			delete(b.clients, c)
		}
	}
}

// Clients returns the number of connected clients.
func (b *Broadcaster) Clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Handle upgrades the request and registers the connection.
func (b *Broadcaster) Handle(c *gin.Context) {
	conn, err := b.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		b.log.Warn("websocket upgrade error", "error", err)
		return
	}
	b.mu.Lock()
	b.clients[conn] = struct{}{}
	b.mu.Unlock()

	// Read loop only detects the client going away.
	go func() {
		defer func() {
			b.mu.Lock()
			delete(b.clients, conn)
			b.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (b *Broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		c.Close()
		delete(b.clients, c)
	}
}
