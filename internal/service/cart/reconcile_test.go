package cart

import (
	"encoding/json"
	"reflect"
	"testing"

	"storefront-client/internal/domain"
	"storefront-client/internal/normalize"
)

func classify(t *testing.T, raw string) normalize.Result {
	t.Helper()
	var payload interface{}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	res, err := normalize.Classify(payload)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	return res
}

func line(lineID, productRef string, qty int, price float64) domain.CartLine {
	return domain.CartLine{
		LineID:     lineID,
		ProductRef: productRef,
		Quantity:   qty,
		Snapshot:   domain.ProductSnapshot{Price: price},
	}
}

func TestReconcileFullReplacesLines(t *testing.T) {
	prev := domain.Cart{Lines: []domain.CartLine{line("old", "P0", 1, 99)}, Total: 99}
	res := classify(t, `{"cart": [{"_id": "A", "product": {"_id": "P1", "price": 10}, "quantity": 2}], "totalPrice": 20}`)

	next := Reconcile(prev, res, OpFetch, "")
	if len(next.Lines) != 1 || next.Lines[0].LineID != "A" {
		t.Fatalf("unexpected lines: %+v", next.Lines)
	}
	if next.Total != 20 {
		t.Fatalf("expected server total 20, got %v", next.Total)
	}
	if prev.Lines[0].LineID != "old" {
		t.Fatalf("previous cart mutated")
	}
}

func TestReconcileFullIdempotent(t *testing.T) {
	res := classify(t, `{"cart": [{"_id": "A", "product": {"_id": "P1", "price": 10}, "quantity": 2}], "totalPrice": 20}`)
	first := Reconcile(domain.Cart{}, res, OpFetch, "")
	second := Reconcile(first, res, OpFetch, "")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same payload applied twice diverged: %+v vs %+v", first, second)
	}
}

func TestReconcilePatchReplacesInPlace(t *testing.T) {
	prev := domain.Cart{Lines: []domain.CartLine{
		line("A", "P1", 2, 10),
		line("B", "P2", 1, 5),
	}, Total: 25}
	res := classify(t, `{"cart": {"_id": "A", "product": {"_id": "P1", "price": 10}, "quantity": 3}, "totalPrice": 30}`)

	next := Reconcile(prev, res, OpUpdate, "A")
	if len(next.Lines) != 2 {
		t.Fatalf("patch changed line count: %d", len(next.Lines))
	}
	if next.Lines[0].LineID != "A" || next.Lines[1].LineID != "B" {
		t.Fatalf("patch broke line order: %+v", next.Lines)
	}
	if next.Lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", next.Lines[0].Quantity)
	}
	// The echoed total (30) covers only the patched line; the aggregate is
	// 3x10 + 1x5.
	if next.Total != 35 {
		t.Fatalf("expected recomputed total 35, got %v", next.Total)
	}
}

func TestReconcilePatchSingleLineMatchesEchoTotal(t *testing.T) {
	prev := domain.Cart{Lines: []domain.CartLine{line("A", "P1", 2, 10)}, Total: 20}
	res := classify(t, `{"cart": {"_id": "A", "product": {"_id": "P1"}, "quantity": 3}, "totalPrice": 30}`)

	next := Reconcile(prev, res, OpUpdate, "A")
	if len(next.Lines) != 1 || next.Lines[0].Quantity != 3 {
		t.Fatalf("unexpected lines: %+v", next.Lines)
	}
	// Echo carried no price; the stored snapshot's price survives the merge
	// and the recomputed total happens to equal the echoed one.
	if next.Total != 30 {
		t.Fatalf("expected recomputed total 30, got %v", next.Total)
	}
}

func TestReconcilePatchUnknownLineAppends(t *testing.T) {
	prev := domain.Cart{Lines: []domain.CartLine{line("A", "P1", 2, 10)}, Total: 20}
	res := classify(t, `{"cart": {"_id": "C", "product": {"_id": "P3", "price": 7}, "quantity": 1}}`)

	next := Reconcile(prev, res, OpAdd, "P3")
	if len(next.Lines) != 2 {
		t.Fatalf("expected append, got %d lines", len(next.Lines))
	}
	if next.Lines[1].LineID != "C" {
		t.Fatalf("appended line not last: %+v", next.Lines)
	}
	if next.Total != 27 {
		t.Fatalf("expected total 27, got %v", next.Total)
	}
}

func TestReconcilePatchMatchesAcrossIDFields(t *testing.T) {
	// Stored line only carries a nested product id; the echo addresses it by
	// top-level _id plus the same product ref.
	prev := domain.Cart{Lines: []domain.CartLine{line("P1", "P1", 1, 10)}}
	res := classify(t, `{"_id": "line-9", "product": {"_id": "P1", "price": 10}, "quantity": 4}`)

	next := Reconcile(prev, res, OpUpdate, "")
	if len(next.Lines) != 1 {
		t.Fatalf("cross-field match failed, got %d lines", len(next.Lines))
	}
	if next.Lines[0].Quantity != 4 || next.Total != 40 {
		t.Fatalf("unexpected reconciled line: %+v total %v", next.Lines[0], next.Total)
	}
}

func TestReconcileRemoveDeletesTarget(t *testing.T) {
	prev := domain.Cart{Lines: []domain.CartLine{
		line("A", "P1", 2, 10),
		line("B", "P2", 1, 5),
	}, Total: 25}
	res := classify(t, `{"cart": {"_id": "A", "product": {"_id": "P1"}, "quantity": 2}, "totalPrice": 0}`)

	next := Reconcile(prev, res, OpRemove, "A")
	if len(next.Lines) != 1 || next.Lines[0].LineID != "B" {
		t.Fatalf("unexpected remaining lines: %+v", next.Lines)
	}
	if next.Total != 5 {
		t.Fatalf("expected total recomputed to 5, got %v", next.Total)
	}
}

func TestReconcileRemoveByNestedProductID(t *testing.T) {
	// The stored line's only top-level id differs from the removal target;
	// only product._id matches.
	prev := domain.Cart{Lines: []domain.CartLine{line("line-1", "P1", 1, 10)}}
	res := classify(t, `{"_id": "line-1", "product": "P1", "quantity": 1}`)

	next := Reconcile(prev, res, OpRemove, "P1")
	if len(next.Lines) != 0 {
		t.Fatalf("expected removal via nested product id, got %+v", next.Lines)
	}
	if next.Total != 0 {
		t.Fatalf("expected zero total, got %v", next.Total)
	}
}

func TestClearedIsEmpty(t *testing.T) {
	c := Cleared()
	if len(c.Lines) != 0 || c.Total != 0 {
		t.Fatalf("unexpected cleared cart: %+v", c)
	}
}

func TestStoreDropsStaleEpoch(t *testing.T) {
	store := NewStore()
	res := classify(t, `{"cart": [{"_id": "A", "product": {"_id": "P1", "price": 10}, "quantity": 2}], "totalPrice": 20}`)

	epoch := store.Begin()
	store.Clear()

	got, applied := store.Apply(epoch, res, OpFetch, "")
	if applied {
		t.Fatalf("stale response applied")
	}
	if len(got.Lines) != 0 {
		t.Fatalf("stale response leaked into state: %+v", got)
	}

	got, applied = store.Apply(store.Begin(), res, OpFetch, "")
	if !applied || len(got.Lines) != 1 {
		t.Fatalf("fresh response not applied: %+v", got)
	}
}
