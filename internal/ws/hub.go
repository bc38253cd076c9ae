package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Hub fans stock-change events out to connected POS terminals.
type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// StockUpdateEvent is broadcast after a committed sale or stock
// adjustment. Never published for rolled-back transactions.
type StockUpdateEvent struct {
	Type      string `json:"type"`
	Source    string `json:"source"` // "sale" or "stock_transaction"
	SourceID  string `json:"source_id"`
	ProductID string `json:"product_id"`
	NewQty    int    `json:"new_qty"`
	ActorID   string `json:"actor_id"`
}

// PublishStockUpdate sends the event without blocking the caller.
func (h *Hub) PublishStockUpdate(event StockUpdateEvent) {
	event.Type = "stock_update"
	msg, err := json.Marshal(event)
	if err != nil {
		log.Println("ws: marshal stock update:", err)
		return
	}
	go func() { h.Broadcast <- msg }()
}
