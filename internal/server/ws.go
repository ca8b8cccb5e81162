package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"chit-auction/internal/repository"
	"chit-auction/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

// ChangeEvent is the frame pushed to websocket clients for every store write
type ChangeEvent struct {
	Key    string          `json:"key"`
	Value  json.RawMessage `json:"value"`
	Writer string          `json:"writer"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans store changes out to connected websocket clients.
// The store handle must not be shared with a writer, otherwise its writes are not seen.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*wsClient]struct{}
	cancel  func()
}

// NewHub subscribes to store and returns a hub ready to accept connections
func NewHub(store repository.KVStore) *Hub {
	h := &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*wsClient]struct{}),
	}
	h.cancel = store.Subscribe(h.broadcast)
	return h
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Handle upgrades GET /ws and streams change events until the client goes away
func (h *Hub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already replied to the client
		utils.Warn("websocket upgrade failed", map[string]any{"error": err.Error()})
		return
	}

	cl := &wsClient{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	utils.Info("websocket client connected", map[string]any{"remote": c.ClientIP()})

	go h.writeLoop(cl)
	h.readLoop(cl)
}

// Close unsubscribes from the store and disconnects every client
func (h *Hub) Close() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		delete(h.clients, cl)
		close(cl.send)
	}
}

func (h *Hub) broadcast(ch repository.Change) {
	value := json.RawMessage(ch.Value)
	if !json.Valid(ch.Value) {
		quoted, _ := json.Marshal(string(ch.Value))
		value = quoted
	}
	msg, err := json.Marshal(ChangeEvent{Key: ch.Key, Value: value, Writer: ch.Writer})
	if err != nil {
		utils.Error("failed to encode change event", map[string]any{"key": ch.Key, "error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- msg:
		default:
			// slow consumer
			delete(h.clients, cl)
			close(cl.send)
			utils.Warn("dropping slow websocket client", map[string]any{"key": ch.Key})
		}
	}
}

func (h *Hub) remove(cl *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}

func (h *Hub) readLoop(cl *wsClient) {
	defer func() {
		h.remove(cl)
		cl.conn.Close()
	}()

	cl.conn.SetReadLimit(512)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(cl *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
