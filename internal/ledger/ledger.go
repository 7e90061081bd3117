// Package ledger owns every table's running order and the floor-plan size.
// It is the authoritative in-memory state for the session; the store is a
// durable mirror written after each mutation and read once at startup.
package ledger

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taperia-pos/api/internal/store"
)

// Bar is the fixed identifier of the bar counter. It is always present and
// not counted among the numbered tables.
const Bar TableID = "barra"

const defaultTableCount = 10

// Errors returned by the ledger.
var (
	ErrInactiveTable = errors.New("table is not the active table")
	ErrEmptyOrder    = errors.New("order is empty")
	ErrMinTables     = errors.New("at least one table required")
	ErrPendingOrder  = errors.New("table has a pending order")
)

// TableID identifies the bar or a numbered table. Numbered tables use the
// decimal string form of their number, which is also the persisted form.
type TableID string

// TableNumber builds the identifier for numbered table n.
func TableNumber(n int) TableID {
	return TableID(strconv.Itoa(n))
}

// ParseTableID accepts the bar literal or a positive table number.
func ParseTableID(s string) (TableID, bool) {
	if TableID(s) == Bar {
		return Bar, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return "", false
	}
	return TableNumber(n), true
}

// LineItem is one purchased unit at a fixed price. Quantity is not a field:
// two beers are two line items.
type LineItem struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Ledger maps tables to their orders. All access goes through its methods;
// a single mutex keeps charge atomic under concurrent HTTP handlers.
type Ledger struct {
	mu         sync.Mutex
	store      store.KV
	orders     map[TableID][]LineItem
	tableCount int
	current    TableID // "" until a table is selected
}

// Open seeds a ledger from the store. Load failures are logged and degrade
// to empty state; in-memory state is authoritative from here on.
func Open(ctx context.Context, kv store.KV) *Ledger {
	l := &Ledger{
		store:      kv,
		orders:     make(map[TableID][]LineItem),
		tableCount: defaultTableCount,
	}
	l.loadState(ctx)
	return l
}

// SelectTable makes the given table the active working order. The table
// being left needs no save: it was persisted on every mutation.
func (l *Ledger) SelectTable(id TableID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = id
}

// CurrentTable returns the active table, or "" when none is selected.
func (l *Ledger) CurrentTable() TableID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Append records one purchased unit on the given table and persists. The
// table must be the currently active one.
func (l *Ledger) Append(ctx context.Context, id TableID, name string, price decimal.Decimal) (LineItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == "" || id != l.current {
		return LineItem{}, ErrInactiveTable
	}

	item := LineItem{ID: uuid.New(), Name: name, Price: price}
	l.orders[id] = append(l.orders[id], item)
	l.persistOrders(ctx)
	return item, nil
}

// RemoveAt deletes the line item at index. Out-of-range indices are a
// silent no-op: stale UI references are expected under rapid interaction.
func (l *Ledger) RemoveAt(ctx context.Context, id TableID, index int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	order := l.orders[id]
	if index < 0 || index >= len(order) {
		return
	}
	l.orders[id] = append(order[:index], order[index+1:]...)
	l.persistOrders(ctx)
}

// Order returns a copy of the table's line items in insertion order.
func (l *Ledger) Order(id TableID) []LineItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	order := l.orders[id]
	out := make([]LineItem, len(order))
	copy(out, order)
	return out
}

// Total sums the table's line-item prices.
func (l *Ledger) Total(id TableID) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return totalOf(l.orders[id])
}

// HasOrder reports whether the table has at least one line item. Callers
// that clear a table use this to decide whether confirmation is needed.
func (l *Ledger) HasOrder(id TableID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.orders[id]) > 0
}

// Charge computes the table's total and clears its order in one step.
// An empty order is rejected. No caller can observe the order between the
// total being taken and the clear.
func (l *Ledger) Charge(ctx context.Context, id TableID) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	order := l.orders[id]
	if len(order) == 0 {
		return decimal.Zero, ErrEmptyOrder
	}

	total := totalOf(order)
	l.orders[id] = []LineItem{}
	l.persistOrders(ctx)
	return total, nil
}

// Clear empties the table's order without charging. Confirmation for a
// non-empty order is the caller's concern (see HasOrder).
func (l *Ledger) Clear(ctx context.Context, id TableID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.orders[id] = []LineItem{}
	l.persistOrders(ctx)
}

// TableCount returns the number of numbered tables.
func (l *Ledger) TableCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tableCount
}

// AddTable grows the floor plan by one table and returns the new count.
func (l *Ledger) AddTable(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tableCount++
	l.persistCount(ctx)
	return l.tableCount
}

// RemoveTable shrinks the floor plan by one table. The count never drops
// below one. When the highest-numbered table still has an order, the caller
// must confirm; its order is then dropped before the count decrements.
// Without confirmation neither the count nor the order changes.
func (l *Ledger) RemoveTable(ctx context.Context, confirm bool) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.tableCount <= 1 {
		return l.tableCount, ErrMinTables
	}

	highest := TableNumber(l.tableCount)
	if len(l.orders[highest]) > 0 {
		if !confirm {
			return l.tableCount, ErrPendingOrder
		}
		delete(l.orders, highest)
		l.persistOrders(ctx)
	}

	l.tableCount--
	l.persistCount(ctx)
	return l.tableCount, nil
}

func totalOf(order []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range order {
		total = total.Add(item.Price)
	}
	return total
}
