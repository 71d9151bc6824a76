package httpserver

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"campuseats/internal/domain"
)

// Hub fans transaction events out to connected vendor/admin dashboards.
type Hub struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]bool
	upgrader websocket.Upgrader
	logger   *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Hub{
		conns: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Handle upgrades the request and keeps the connection registered until the
// client goes away.
func (h *Hub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.mu.Lock()
			delete(h.conns, conn)
			h.mu.Unlock()
			return
		}
	}
}

type feedMessage struct {
	Event       string             `json:"event"`
	Transaction domain.Transaction `json:"transaction"`
}

// TransactionCreated broadcasts a newly materialized transaction.
func (h *Hub) TransactionCreated(tx domain.Transaction) {
	h.broadcast(feedMessage{Event: "transaction.created", Transaction: tx})
}

// StatusChanged broadcasts a status update.
func (h *Hub) StatusChanged(tx domain.Transaction) {
	h.broadcast(feedMessage{Event: "transaction.status", Transaction: tx})
}

func (h *Hub) broadcast(msg feedMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Printf("ws hub: write error=%v, dropping connection", err)
			conn.Close()
			delete(h.conns, conn)
		}
	}
}
