package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taperia-pos/api/internal/ledger"
	"github.com/taperia-pos/api/internal/ws"
)

// TableLedger is the slice of the ledger the table handlers need.
type TableLedger interface {
	SelectTable(id ledger.TableID)
	CurrentTable() ledger.TableID
	HasOrder(id ledger.TableID) bool
	TableCount() int
	AddTable(ctx context.Context) int
	RemoveTable(ctx context.Context, confirm bool) (int, error)
}

// TableHandler serves the floor plan: table listing, selection, and size.
type TableHandler struct {
	ledger TableLedger
	hub    Notifier
}

func NewTableHandler(l TableLedger, hub Notifier) *TableHandler {
	return &TableHandler{ledger: l, hub: hub}
}

func (h *TableHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/select", h.Select)
	r.Post("/", h.Add)
	r.Delete("/last", h.RemoveLast)
}

// --- Request / Response types ---

type tableInfo struct {
	ID       string `json:"id"`
	Occupied bool   `json:"occupied"`
	Current  bool   `json:"current"`
}

type tableListResponse struct {
	Tables     []tableInfo `json:"tables"`
	TableCount int         `json:"table_count"`
}

type selectTableRequest struct {
	TableID string `json:"table_id"`
}

type tableCountResponse struct {
	TableCount int `json:"table_count"`
}

// --- Handlers ---

// List returns the bar followed by the numbered tables, with occupancy and
// the active selection.
func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	current := h.ledger.CurrentTable()
	count := h.ledger.TableCount()

	tables := make([]tableInfo, 0, count+1)
	tables = append(tables, tableInfo{
		ID:       string(ledger.Bar),
		Occupied: h.ledger.HasOrder(ledger.Bar),
		Current:  current == ledger.Bar,
	})
	for i := 1; i <= count; i++ {
		id := ledger.TableNumber(i)
		tables = append(tables, tableInfo{
			ID:       string(id),
			Occupied: h.ledger.HasOrder(id),
			Current:  current == id,
		})
	}

	writeJSON(w, http.StatusOK, tableListResponse{Tables: tables, TableCount: count})
}

// Select makes a table the active working order.
func (h *TableHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req selectTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	id, ok := ledger.ParseTableID(req.TableID)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table ID"})
		return
	}

	h.ledger.SelectTable(id)
	writeJSON(w, http.StatusOK, map[string]string{"table_id": string(id)})
}

// Add grows the floor plan by one table.
func (h *TableHandler) Add(w http.ResponseWriter, r *http.Request) {
	count := h.ledger.AddTable(r.Context())
	notifyAll(h.hub, ws.EventTablesChanged, tableCountResponse{TableCount: count})
	writeJSON(w, http.StatusCreated, tableCountResponse{TableCount: count})
}

// RemoveLast shrinks the floor plan by one table. When the highest table
// still has an order the request must carry ?confirm=true; its order is
// then dropped along with the table.
func (h *TableHandler) RemoveLast(w http.ResponseWriter, r *http.Request) {
	confirm := r.URL.Query().Get("confirm") == "true"

	count, err := h.ledger.RemoveTable(r.Context(), confirm)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrMinTables):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "at least one table required"})
		case errors.Is(err, ledger.ErrPendingOrder):
			writeJSON(w, http.StatusConflict, map[string]interface{}{
				"error":            "table has a pending order",
				"confirm_required": true,
				"table_id":         string(ledger.TableNumber(count)),
			})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	notifyAll(h.hub, ws.EventTablesChanged, tableCountResponse{TableCount: count})
	writeJSON(w, http.StatusOK, tableCountResponse{TableCount: count})
}
