package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/taperia-pos/api/internal/store"
)

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// openOn returns a ledger seeded from the given store with the table
// already selected, since most operations require an active table.
func openOn(t *testing.T, kv store.KV, id TableID) *Ledger {
	t.Helper()
	l := Open(context.Background(), kv)
	l.SelectTable(id)
	return l
}

// failingKV loads nothing and fails every write.
type failingKV struct{}

func (failingKV) Load(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

func (failingKV) Save(ctx context.Context, key, value string) error {
	return errors.New("quota exceeded")
}

func TestParseTableID(t *testing.T) {
	if id, ok := ParseTableID("barra"); !ok || id != Bar {
		t.Fatalf("ParseTableID(barra) = %q, %v", id, ok)
	}
	if id, ok := ParseTableID("4"); !ok || id != TableNumber(4) {
		t.Fatalf("ParseTableID(4) = %q, %v", id, ok)
	}
	for _, bad := range []string{"0", "-1", "mesa", ""} {
		if _, ok := ParseTableID(bad); ok {
			t.Fatalf("ParseTableID(%q) should fail", bad)
		}
	}
}

func TestAppendRequiresActiveTable(t *testing.T) {
	ctx := context.Background()
	l := Open(ctx, store.NewMemory())

	// No table selected yet.
	if _, err := l.Append(ctx, TableNumber(1), "Caña", price("3.50")); !errors.Is(err, ErrInactiveTable) {
		t.Fatalf("expected ErrInactiveTable, got %v", err)
	}

	// Selected table 1; appending to table 2 is rejected.
	l.SelectTable(TableNumber(1))
	if _, err := l.Append(ctx, TableNumber(2), "Caña", price("3.50")); !errors.Is(err, ErrInactiveTable) {
		t.Fatalf("expected ErrInactiveTable for inactive table, got %v", err)
	}

	if _, err := l.Append(ctx, TableNumber(1), "Caña", price("3.50")); err != nil {
		t.Fatalf("append to active table: %v", err)
	}
	if len(l.Order(TableNumber(1))) != 1 {
		t.Fatal("line item not appended")
	}
	if len(l.Order(TableNumber(2))) != 0 {
		t.Fatal("inactive table must stay untouched")
	}
}

func TestTotalAndRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	table := TableNumber(4)

	l := openOn(t, kv, table)
	for _, p := range []string{"2.00", "3.50", "1.25"} {
		if _, err := l.Append(ctx, table, "Tapa", price(p)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	if got := l.Total(table).StringFixed(2); got != "6.75" {
		t.Fatalf("total = %s, want 6.75", got)
	}

	// A fresh ledger over the same store sees the same order, same prices,
	// same sequence.
	reloaded := Open(ctx, kv)
	order := reloaded.Order(table)
	if len(order) != 3 {
		t.Fatalf("reloaded order has %d items, want 3", len(order))
	}
	for i, want := range []string{"2.00", "3.50", "1.25"} {
		if got := order[i].Price.StringFixed(2); got != want {
			t.Fatalf("reloaded item %d price = %s, want %s", i, got, want)
		}
	}
	if got := reloaded.Total(table).StringFixed(2); got != "6.75" {
		t.Fatalf("reloaded total = %s", got)
	}
}

func TestChargeClearsExactlyOneTable(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()

	l := openOn(t, kv, TableNumber(1))
	l.Append(ctx, TableNumber(1), "Caña", price("3.50"))
	l.Append(ctx, TableNumber(1), "Tortilla", price("6.00"))

	l.SelectTable(TableNumber(2))
	l.Append(ctx, TableNumber(2), "Croquetas", price("5.25"))

	total, err := l.Charge(ctx, TableNumber(1))
	if err != nil {
		t.Fatalf("charge: %v", err)
	}
	if got := total.StringFixed(2); got != "9.50" {
		t.Fatalf("charged total = %s, want 9.50", got)
	}

	if len(l.Order(TableNumber(1))) != 0 {
		t.Fatal("charged table should be empty")
	}
	if got := l.Total(TableNumber(1)).StringFixed(2); got != "0.00" {
		t.Fatalf("charged table total = %s, want 0.00", got)
	}
	if len(l.Order(TableNumber(2))) != 1 {
		t.Fatal("other table's order must be untouched")
	}

	// The cleared order survives a reload as cleared.
	reloaded := Open(ctx, kv)
	if len(reloaded.Order(TableNumber(1))) != 0 {
		t.Fatal("charge was not persisted")
	}
}

func TestChargeEmptyOrderRejected(t *testing.T) {
	ctx := context.Background()
	l := openOn(t, store.NewMemory(), TableNumber(1))

	if _, err := l.Charge(ctx, TableNumber(1)); !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("expected ErrEmptyOrder, got %v", err)
	}
}

func TestRemoveAtBounds(t *testing.T) {
	ctx := context.Background()
	table := TableNumber(3)
	l := openOn(t, store.NewMemory(), table)

	l.Append(ctx, table, "Caña", price("3.50"))
	l.Append(ctx, table, "Tortilla", price("6.00"))

	// Out of range in both directions: silent no-ops.
	l.RemoveAt(ctx, table, 5)
	l.RemoveAt(ctx, table, -1)
	if len(l.Order(table)) != 2 {
		t.Fatal("out-of-range remove must not change the order")
	}

	// Removing index 0 promotes the former index 1.
	l.RemoveAt(ctx, table, 0)
	order := l.Order(table)
	if len(order) != 1 || order[0].Name != "Tortilla" {
		t.Fatalf("after remove: %+v", order)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	table := Bar
	l := openOn(t, store.NewMemory(), table)

	l.Append(ctx, table, "Caña", price("3.50"))
	if !l.HasOrder(table) {
		t.Fatal("HasOrder should be true")
	}

	l.Clear(ctx, table)
	if l.HasOrder(table) {
		t.Fatal("order not cleared")
	}
}

func TestTableCountDefaultsAndFloor(t *testing.T) {
	ctx := context.Background()
	l := Open(ctx, store.NewMemory())

	if l.TableCount() != 10 {
		t.Fatalf("default table count = %d, want 10", l.TableCount())
	}

	if got := l.AddTable(ctx); got != 11 {
		t.Fatalf("AddTable = %d, want 11", got)
	}

	// Shrink all the way down to one table.
	for i := 0; i < 10; i++ {
		if _, err := l.RemoveTable(ctx, false); err != nil {
			t.Fatalf("remove table %d: %v", i, err)
		}
	}
	if l.TableCount() != 1 {
		t.Fatalf("table count = %d, want 1", l.TableCount())
	}

	// The hard floor.
	if _, err := l.RemoveTable(ctx, false); !errors.Is(err, ErrMinTables) {
		t.Fatalf("expected ErrMinTables, got %v", err)
	}
	if l.TableCount() != 1 {
		t.Fatal("table count changed despite rejection")
	}
}

func TestRemoveTableWithPendingOrder(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	l := Open(ctx, kv)

	highest := TableNumber(10)
	l.SelectTable(highest)
	l.Append(ctx, highest, "Caña", price("3.50"))

	// Without confirmation: nothing changes.
	if _, err := l.RemoveTable(ctx, false); !errors.Is(err, ErrPendingOrder) {
		t.Fatalf("expected ErrPendingOrder, got %v", err)
	}
	if l.TableCount() != 10 || !l.HasOrder(highest) {
		t.Fatal("unconfirmed remove must leave count and order unchanged")
	}

	// With confirmation: the order is dropped, then the count shrinks.
	count, err := l.RemoveTable(ctx, true)
	if err != nil {
		t.Fatalf("confirmed remove: %v", err)
	}
	if count != 9 {
		t.Fatalf("table count = %d, want 9", count)
	}
	if l.HasOrder(highest) {
		t.Fatal("pending order should be gone")
	}

	// Both changes persisted.
	reloaded := Open(ctx, kv)
	if reloaded.TableCount() != 9 || reloaded.HasOrder(highest) {
		t.Fatal("remove-table state not persisted")
	}
}

func TestPersistedTableCountLoads(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	kv.Save(ctx, "pos_table_count", "7")

	if got := Open(ctx, kv).TableCount(); got != 7 {
		t.Fatalf("table count = %d, want 7", got)
	}
}

func TestCorruptStateDegradesToDefaults(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	kv.Save(ctx, "pos_table_orders", "{not json")
	kv.Save(ctx, "pos_table_count", "many")

	l := Open(ctx, kv)
	if l.TableCount() != 10 {
		t.Fatalf("corrupt count should fall back to 10, got %d", l.TableCount())
	}
	if l.HasOrder(Bar) {
		t.Fatal("corrupt orders should fall back to empty")
	}
}

func TestWriteFailureKeepsMemoryAuthoritative(t *testing.T) {
	ctx := context.Background()
	table := TableNumber(1)
	l := openOn(t, failingKV{}, table)

	if _, err := l.Append(ctx, table, "Caña", price("3.50")); err != nil {
		t.Fatalf("append must not fail on a store write error: %v", err)
	}
	if got := l.Total(table).StringFixed(2); got != "3.50" {
		t.Fatalf("in-memory state lost after write failure: total = %s", got)
	}

	if total, err := l.Charge(ctx, table); err != nil || total.StringFixed(2) != "3.50" {
		t.Fatalf("charge over failing store: total=%v err=%v", total, err)
	}
}
