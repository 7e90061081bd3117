package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/taperia-pos/api/internal/ledger"
	"github.com/taperia-pos/api/internal/menu"
	"github.com/taperia-pos/api/internal/ws"
)

// OrderLedger is the slice of the ledger the order handlers need.
type OrderLedger interface {
	Append(ctx context.Context, id ledger.TableID, name string, price decimal.Decimal) (ledger.LineItem, error)
	RemoveAt(ctx context.Context, id ledger.TableID, index int)
	Order(id ledger.TableID) []ledger.LineItem
	Total(id ledger.TableID) decimal.Decimal
	HasOrder(id ledger.TableID) bool
	Charge(ctx context.Context, id ledger.TableID) (decimal.Decimal, error)
	Clear(ctx context.Context, id ledger.TableID)
}

// OrderHandler serves a table's running order. Prices are always resolved
// from the catalog on the server; the client never supplies one.
type OrderHandler struct {
	ledger OrderLedger
	menu   *menu.Menu
	hub    Notifier
}

func NewOrderHandler(l OrderLedger, m *menu.Menu, hub Notifier) *OrderHandler {
	return &OrderHandler{ledger: l, menu: m, hub: hub}
}

// RegisterRoutes registers order endpoints. Expected to be mounted at
// /tables/{tid}/order.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Post("/items", h.AppendItem)
	r.Delete("/items/{index}", h.RemoveItem)
	r.Post("/charge", h.Charge)
	r.Delete("/", h.Clear)
}

// --- Request / Response types ---

type appendItemRequest struct {
	Category string `json:"category"`
	Product  string `json:"product"`          // normalized product name
	Source   string `json:"source,omitempty"` // variant pick, required when ambiguous
}

type lineItemResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type orderResponse struct {
	TableID string             `json:"table_id"`
	Items   []lineItemResponse `json:"items"`
	Total   string             `json:"total"`
}

type chargeResponse struct {
	TableID string `json:"table_id"`
	Total   string `json:"total"`
}

func toLineItemResponse(it ledger.LineItem) lineItemResponse {
	return lineItemResponse{
		ID:    it.ID.String(),
		Name:  it.Name,
		Price: it.Price.StringFixed(2),
	}
}

func (h *OrderHandler) orderResponseFor(id ledger.TableID) orderResponse {
	order := h.ledger.Order(id)
	items := make([]lineItemResponse, len(order))
	for i, it := range order {
		items[i] = toLineItemResponse(it)
	}
	return orderResponse{
		TableID: string(id),
		Items:   items,
		Total:   h.ledger.Total(id).StringFixed(2),
	}
}

func tableIDParam(w http.ResponseWriter, r *http.Request) (ledger.TableID, bool) {
	id, ok := ledger.ParseTableID(chi.URLParam(r, "tid"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table ID"})
		return "", false
	}
	return id, true
}

// --- Handlers ---

// Get returns the table's order and total.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := tableIDParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.orderResponseFor(id))
}

// AppendItem resolves the product in the catalog and appends one unit.
// A product with several variants needs a source pick; without one the
// response lists the options and nothing is appended.
func (h *OrderHandler) AppendItem(w http.ResponseWriter, r *http.Request) {
	id, ok := tableIDParam(w, r)
	if !ok {
		return
	}

	var req appendItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Category == "" || req.Product == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category and product are required"})
		return
	}

	cat, okCat := h.menu.Category(req.Category)
	if !okCat {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "category not found"})
		return
	}

	group, okGroup := menu.Group(menu.ResolveVariants(cat), menu.NormalizeName(req.Product))
	if !okGroup {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}

	chosen, err := pickVariant(group, req.Source)
	if err != nil {
		if errors.Is(err, errVariantChoiceNeeded) {
			writeJSON(w, http.StatusConflict, map[string]interface{}{
				"error":    "variant selection required",
				"product":  group.Name,
				"variants": toVariantOptions(group),
			})
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "variant not found"})
		return
	}

	if _, err := h.ledger.Append(r.Context(), id, chosen.Item.Name, chosen.DisplayPrice); err != nil {
		if errors.Is(err, ledger.ErrInactiveTable) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "table is not the active table"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := h.orderResponseFor(id)
	notifyTable(h.hub, id, ws.EventOrderUpdated, resp)
	writeJSON(w, http.StatusCreated, resp)
}

// RemoveItem deletes the line item at the given position. Out-of-range
// indices are tolerated: the UI may hold stale positions.
func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := tableIDParam(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid index"})
		return
	}

	h.ledger.RemoveAt(r.Context(), id, index)

	resp := h.orderResponseFor(id)
	notifyTable(h.hub, id, ws.EventOrderUpdated, resp)
	writeJSON(w, http.StatusOK, resp)
}

// Charge totals the order and clears it. Charging an empty order is
// rejected.
func (h *OrderHandler) Charge(w http.ResponseWriter, r *http.Request) {
	id, ok := tableIDParam(w, r)
	if !ok {
		return
	}

	total, err := h.ledger.Charge(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrEmptyOrder) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "order is empty"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := chargeResponse{TableID: string(id), Total: total.StringFixed(2)}
	notifyTable(h.hub, id, ws.EventOrderCharged, resp)
	writeJSON(w, http.StatusOK, resp)
}

// Clear empties the order without charging. A non-empty order needs
// ?confirm=true so the UI can ask first.
func (h *OrderHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id, ok := tableIDParam(w, r)
	if !ok {
		return
	}

	if h.ledger.HasOrder(id) && r.URL.Query().Get("confirm") != "true" {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":            "order is not empty",
			"confirm_required": true,
		})
		return
	}

	h.ledger.Clear(r.Context(), id)

	resp := h.orderResponseFor(id)
	notifyTable(h.hub, id, ws.EventOrderUpdated, resp)
	writeJSON(w, http.StatusOK, resp)
}

// --- Variant selection ---

var errVariantChoiceNeeded = errors.New("variant selection required")

// pickVariant applies the selection rule: a single-variant group appends
// directly; an ambiguous group requires an explicit source pick.
func pickVariant(g menu.VariantGroup, source string) (menu.Variant, error) {
	if !g.Ambiguous() {
		return g.Variants[0], nil
	}
	if source == "" {
		return menu.Variant{}, errVariantChoiceNeeded
	}
	for _, v := range g.Variants {
		if v.Source == source {
			return v, nil
		}
	}
	return menu.Variant{}, errors.New("variant not found")
}
