package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"StockLens/internal/metrics"
	"StockLens/internal/store"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	EnableCompression: true,
}

// envelope is the frame pushed to stream clients.
type envelope struct {
	Type    string             `json:"type"`
	Version uint64             `json:"version"`
	State   *store.MarketState `json:"state"`
}

func encodeState(st *store.MarketState) []byte {
	data, err := json.Marshal(envelope{Type: "state", Version: st.Version, State: st})
	if err != nil {
		log.Printf("[ERROR] encode state: %v", err)
		return nil
	}
	return data
}

// Hub fans out every store snapshot to connected WebSocket clients.
type Hub struct {
	Store   *store.Store
	Metrics *metrics.Metrics

	updates <-chan *store.MarketState
	stop    func()

	mu      sync.RWMutex
	clients map[*client]bool
}

// NewHub subscribes to st. Call Run to start broadcasting.
func NewHub(st *store.Store, m *metrics.Metrics) *Hub {
	updates, stop := st.Subscribe()
	return &Hub{
		Store:   st,
		Metrics: m,
		updates: updates,
		stop:    stop,
		clients: make(map[*client]bool),
	}
}

// Run broadcasts snapshots until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer h.stop()
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-h.updates:
			if !ok {
				return
			}
			if data := encodeState(st); data != nil {
				h.broadcast(data)
			}
		}
	}
}

func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// client is behind; it will catch up with a later snapshot
		}
	}
}

// ServeWS upgrades the request and streams snapshots, starting with the current one.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WARN] ws upgrade: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 16), hub: h}
	// queued before registration, while no broadcast can fill the buffer
	if data := encodeState(h.Store.Snapshot()); data != nil {
		c.send <- data
	}

	h.mu.Lock()
	h.clients[c] = true
	count := len(h.clients)
	h.mu.Unlock()
	if h.Metrics != nil {
		h.Metrics.StreamClients.Set(float64(count))
	}
	log.Printf("[INFO] ws client connected (%d total)", count)

	go c.writePump()
	go c.readPump()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if !h.clients[c] {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	count := len(h.clients)
	close(c.send)
	h.mu.Unlock()

	if h.Metrics != nil {
		h.Metrics.StreamClients.Set(float64(count))
	}
	log.Printf("[INFO] ws client disconnected (%d total)", count)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for close and keeps the read deadline alive.
func (c *client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
