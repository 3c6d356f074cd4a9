package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
	"github.com/mohamedkhairy/momentum-screener/internal/toplist"
	"github.com/mohamedkhairy/momentum-screener/pkg/logger"
)

// MessageTypeToplist tags shortlist pushes sent to websocket clients
const MessageTypeToplist = "toplist"

// Message is the envelope sent to websocket clients
type Message struct {
	Type string                 `json:"type"`
	Data models.ToplistSnapshot `json:"data"`
}

// HubConfig holds websocket timing configuration
type HubConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PingInterval time.Duration
	SendBuffer   int
}

// DefaultHubConfig returns default configuration
func DefaultHubConfig() HubConfig {
	return HubConfig{
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 10 * time.Second,
		PingInterval: 30 * time.Second,
		SendBuffer:   16,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// client is one websocket connection
type client struct {
	id        string
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

// Hub pushes every new shortlist to connected websocket clients.
// New clients receive the latest shortlist on connect.
type Hub struct {
	config  HubConfig
	mu      sync.RWMutex
	clients map[string]*client
	latest  []byte
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewHub creates a new websocket hub
func NewHub(config HubConfig) *Hub {
	defaults := DefaultHubConfig()
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = defaults.ReadTimeout
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = defaults.WriteTimeout
	}
	if config.PingInterval <= 0 {
		config.PingInterval = defaults.PingInterval
	}
	if config.SendBuffer <= 0 {
		config.SendBuffer = defaults.SendBuffer
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		config:  config,
		clients: make(map[string]*client),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Publish implements toplist.Publisher
func (h *Hub) Publish(ctx context.Context, update toplist.Update) error {
	data, err := json.Marshal(Message{Type: MessageTypeToplist, Data: update.Snapshot})
	if err != nil {
		return fmt.Errorf("failed to marshal toplist message: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = data

	sent, dropped := 0, 0
	for _, c := range h.clients {
		select {
		case c.send <- data:
			sent++
		default:
			dropped++
		}
	}

	logger.Debug("Broadcast toplist",
		logger.String("run_id", update.Snapshot.RunID),
		logger.Int("sent", sent),
		logger.Int("dropped", dropped),
	)
	return nil
}

// ServeWS upgrades the request and registers the connection
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	if h.ctx.Err() != nil {
		respondWithError(w, http.StatusServiceUnavailable, "Hub stopped")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("Failed to upgrade websocket connection", logger.ErrorField(err))
		return
	}

	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, h.config.SendBuffer),
	}
	h.register(c)
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop closes every connection and waits for the pumps to exit
func (h *Hub) Stop() {
	h.cancel()

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.unregister(c)
	}
	h.wg.Wait()
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	if h.latest != nil {
		c.send <- h.latest
	}
	h.mu.Unlock()

	logger.WSConnectionsActive.Inc()
	logger.Info("Connection registered",
		logger.String("connection_id", c.id),
		logger.Int("total_connections", h.Count()),
	)

	h.wg.Add(2)
	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	h.mu.Unlock()

	c.closeOnce.Do(func() {
		close(c.send)
		c.conn.Close()
	})

	if ok {
		logger.WSConnectionsActive.Dec()
		logger.Info("Connection unregistered",
			logger.String("connection_id", c.id),
			logger.Int("total_connections", h.Count()),
		)
	}
}

// writePump pumps messages from the hub to the websocket connection
func (h *Hub) writePump(c *client) {
	defer h.wg.Done()
	defer h.unregister(c)

	ticker := time.NewTicker(h.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so pongs and close frames are processed
func (h *Hub) readPump(c *client) {
	defer h.wg.Done()
	defer h.unregister(c)

	c.conn.SetReadDeadline(time.Now().Add(h.config.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(h.config.ReadTimeout))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debug("WebSocket error",
					logger.ErrorField(err),
					logger.String("connection_id", c.id),
				)
			}
			return
		}
	}
}
