package handler

import (
	"encoding/json"
	"net/http"

	"github.com/taperia-pos/api/internal/ledger"
	"github.com/taperia-pos/api/internal/ws"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Notifier pushes events to display clients. Satisfied by *ws.Hub; a nil
// Notifier disables notifications (tests, CLI-driven setups).
type Notifier interface {
	BroadcastToTable(id ledger.TableID, event ws.Event)
	BroadcastAll(event ws.Event)
}

func notifyTable(n Notifier, id ledger.TableID, eventType string, payload interface{}) {
	if n == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	n.BroadcastToTable(id, ws.Event{Type: eventType, Payload: raw})
}

func notifyAll(n Notifier, eventType string, payload interface{}) {
	if n == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	n.BroadcastAll(ws.Event{Type: eventType, Payload: raw})
}
