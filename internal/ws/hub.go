package ws

import (
	"encoding/json"
	"sync"

	"github.com/taperia-pos/api/internal/ledger"
)

// Event types pushed to display clients.
const (
	EventOrderUpdated  = "order_updated"
	EventOrderCharged  = "order_charged"
	EventTablesChanged = "tables_changed"
)

// Event is a message broadcast to the display clients of one table.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// tableEvent routes an event to one table's room.
type tableEvent struct {
	TableID ledger.TableID
	Event   Event
}

// Hub tracks connected display clients per table and fans events out to
// them. Clients are read-only; the ledger has exactly one writer.
type Hub struct {
	rooms map[ledger.TableID]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *tableEvent

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[ledger.TableID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *tableEvent, 256),
	}
}

// Run is the hub's main loop; call it as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.tableID] == nil {
				h.rooms[client.tableID] = make(map[*Client]bool)
			}
			h.rooms[client.tableID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.tableID]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.rooms, client.tableID)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			clients := h.rooms[event.TableID]

			message, err := json.Marshal(event.Event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			for client := range clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full; drop the connection.
					close(client.send)
					delete(h.rooms[event.TableID], client)
					if len(h.rooms[event.TableID]) == 0 {
						delete(h.rooms, event.TableID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToTable sends an event to every client watching the table.
func (h *Hub) BroadcastToTable(id ledger.TableID, event Event) {
	h.broadcast <- &tableEvent{TableID: id, Event: event}
}

// BroadcastAll sends an event to every connected client, whatever table it
// watches. Used for floor-plan changes.
func (h *Hub) BroadcastAll(event Event) {
	h.mu.RLock()
	ids := make([]ledger.TableID, 0, len(h.rooms))
	for id := range h.rooms {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	for _, id := range ids {
		h.broadcast <- &tableEvent{TableID: id, Event: event}
	}
}
