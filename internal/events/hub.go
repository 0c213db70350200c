package events

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is a loan-activity notification pushed to connected admin clients.
type Event struct {
	Type     string    `json:"type"` // loan_created | loan_returned | loan_status
	LoanID   string    `json:"loanId"`
	ItemName string    `json:"itemName"`
	UserID   string    `json:"userId"`
	Status   string    `json:"status"`
	At       time.Time `json:"at"`
}

// Hub fans events out to websocket clients. Slow or dead clients are dropped
// rather than blocking publishers.
type Hub struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]bool
	broadcast chan Event
	done      chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Event, 64),
		done:      make(chan struct{}),
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	if h.clients[conn] {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

// Publish queues an event without blocking; if the buffer is full the event
// is dropped. Safe on a nil hub so handlers can run without one in tests.
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	select {
	case h.broadcast <- ev:
	default:
		log.Printf("[Events] dropping event %s for loan %s (buffer full)", ev.Type, ev.LoanID)
	}
}

// Run consumes the broadcast queue until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case ev := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteJSON(ev); err != nil {
					delete(h.clients, conn)
					conn.Close()
				}
			}
			h.mu.Unlock()
		case <-h.done:
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}
