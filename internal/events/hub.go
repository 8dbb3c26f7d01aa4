package events

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub bridges the change bus to websocket clients so operational-queue
// views receive change events without polling.
type Hub struct {
	bus        *Bus
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
}

func NewHub(bus *Bus) *Hub {
	return &Hub{
		bus:     bus,
		clients: make(map[*websocket.Conn]bool),
	}
}

// Run pumps bus changes to all connected clients. Blocks; call in a goroutine.
func (h *Hub) Run() {
	ch, _ := h.bus.Subscribe()
	for change := range ch {
		data, err := json.Marshal(change)
		if err != nil {
			continue
		}

		h.clientsMux.Lock()
		for conn := range h.clients {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.clientsMux.Unlock()
	}
}

// HandleWS upgrades the connection and registers the client
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Events] websocket upgrade failed: %v", err)
		return
	}

	h.clientsMux.Lock()
	h.clients[conn] = true
	h.clientsMux.Unlock()

	// Drain reads to detect disconnect
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.clientsMux.Lock()
				if h.clients[conn] {
					conn.Close()
					delete(h.clients, conn)
				}
				h.clientsMux.Unlock()
				return
			}
		}
	}()
}
