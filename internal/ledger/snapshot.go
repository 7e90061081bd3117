package ledger

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
)

// Storage keys. The schema is two flat, versionless keys: the serialized
// table->order map and the table count as a decimal string.
const (
	ordersKey = "pos_table_orders"
	countKey  = "pos_table_count"
)

// loadState seeds orders and table count from the store. Any failure falls
// back to empty/default state with a logged error; it never aborts startup.
func (l *Ledger) loadState(ctx context.Context) {
	if raw, ok, err := l.store.Load(ctx, ordersKey); err != nil {
		log.Printf("ERROR: load saved orders: %v", err)
	} else if ok {
		var snap map[TableID][]LineItem
		if err := json.Unmarshal([]byte(raw), &snap); err != nil {
			log.Printf("ERROR: decode saved orders: %v", err)
		} else {
			l.orders = snap
		}
	}
	if l.orders == nil {
		l.orders = make(map[TableID][]LineItem)
	}

	if raw, ok, err := l.store.Load(ctx, countKey); err != nil {
		log.Printf("ERROR: load table count: %v", err)
	} else if ok {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			l.tableCount = n
		} else {
			log.Printf("ERROR: invalid table count %q, using default", raw)
		}
	}
}

// persistOrders mirrors the orders map to the store. A write failure is
// logged and swallowed: the in-memory ledger stays authoritative for the
// rest of the session. Callers hold l.mu.
func (l *Ledger) persistOrders(ctx context.Context) {
	raw, err := json.Marshal(l.orders)
	if err != nil {
		log.Printf("ERROR: encode orders: %v", err)
		return
	}
	if err := l.store.Save(ctx, ordersKey, string(raw)); err != nil {
		log.Printf("ERROR: persist orders: %v", err)
	}
}

// persistCount mirrors the table count to the store. Callers hold l.mu.
func (l *Ledger) persistCount(ctx context.Context) {
	if err := l.store.Save(ctx, countKey, strconv.Itoa(l.tableCount)); err != nil {
		log.Printf("ERROR: persist table count: %v", err)
	}
}
