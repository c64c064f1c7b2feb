package normalize

import (
	"encoding/json"
	"errors"
	"testing"

	"storefront-client/internal/domain"
)

func decode(t *testing.T, raw string) interface{} {
	t.Helper()
	var payload interface{}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return payload
}

func TestClassifyEnvelopedList(t *testing.T) {
	payload := decode(t, `{
		"cart": [
			{"_id": "A", "product": {"_id": "P1", "productName": "Tea", "price": 10}, "quantity": 2},
			{"_id": "B", "product": {"_id": "P2", "productName": "Mug", "price": 5}, "quantity": 1}
		],
		"totalPrice": 25
	}`)

	res, err := Classify(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != KindFull {
		t.Fatalf("expected full result, got %v", res.Kind)
	}
	if len(res.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(res.Lines))
	}
	if !res.HasTotal || res.Total != 25 {
		t.Fatalf("expected server total 25, got %v (has=%v)", res.Total, res.HasTotal)
	}
	if res.Lines[0].LineID != "A" || res.Lines[0].ProductRef != "P1" {
		t.Fatalf("unexpected first line: %+v", res.Lines[0])
	}
}

func TestClassifyEnvelopedListDefaultsTotalToZero(t *testing.T) {
	payload := decode(t, `{"cart": [{"_id": "A", "product": {"_id": "P1", "price": 10}, "quantity": 2}]}`)
	res, err := Classify(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.HasTotal || res.Total != 0 {
		t.Fatalf("expected defaulted total 0, got %v (has=%v)", res.Total, res.HasTotal)
	}
}

func TestClassifyEnvelopedSingleRecord(t *testing.T) {
	payload := decode(t, `{"cart": {"_id": "A", "product": {"_id": "P1", "price": 10}, "quantity": 3}, "totalPrice": 30}`)
	res, err := Classify(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != KindPatch {
		t.Fatalf("expected patch result, got %v", res.Kind)
	}
	if res.Line.LineID != "A" || res.Line.Quantity != 3 {
		t.Fatalf("unexpected line: %+v", res.Line)
	}
	if !res.HasTotal || res.Total != 30 {
		t.Fatalf("expected echoed total 30, got %v (has=%v)", res.Total, res.HasTotal)
	}
}

func TestClassifyEnvelopedSingleRecordWithoutTotal(t *testing.T) {
	payload := decode(t, `{"cart": {"_id": "A", "product": {"_id": "P1", "price": 10}, "quantity": 3}}`)
	res, err := Classify(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.HasTotal {
		t.Fatalf("expected total left unset for caller to recompute")
	}
}

func TestClassifyBareListComputesTotal(t *testing.T) {
	payload := decode(t, `[
		{"_id": "A", "product": {"_id": "P1", "price": 10}, "quantity": 2},
		{"_id": "B", "product": {"_id": "P2", "price": 5}}
	]`)
	res, err := Classify(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != KindFull || len(res.Lines) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	// 2x10 plus the defaulted quantity of 1 at price 5.
	if !res.HasTotal || res.Total != 25 {
		t.Fatalf("expected computed total 25, got %v", res.Total)
	}
}

func TestClassifyBareObjectIsPatch(t *testing.T) {
	payload := decode(t, `{"_id": "A", "product": {"_id": "P1", "price": 10}, "quantity": 2}`)
	res, err := Classify(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != KindPatch || res.HasTotal {
		t.Fatalf("expected patch without total, got %+v", res)
	}
}

func TestClassifyFullLineCountMatchesPayload(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		items := make([]interface{}, 0, n)
		for i := 0; i < n; i++ {
			items = append(items, map[string]interface{}{
				"_id":      string(rune('a' + i)),
				"product":  map[string]interface{}{"_id": "p", "price": float64(2)},
				"quantity": float64(1),
			})
		}
		res, err := Classify(items)
		if err != nil {
			t.Fatalf("n=%d unexpected error: %v", n, err)
		}
		if len(res.Lines) != n {
			t.Fatalf("n=%d expected %d lines, got %d", n, n, len(res.Lines))
		}
	}
}

func TestClassifyMalformed(t *testing.T) {
	cases := map[string]interface{}{
		"nil payload":            nil,
		"scalar payload":         "oops",
		"number payload":         float64(3),
		"cart is scalar":         decode(t, `{"cart": 42}`),
		"element without shape":  decode(t, `[{"quantity": 2}]`),
		"enveloped bad element":  decode(t, `{"cart": [{"foo": "bar"}]}`),
		"object without id/prod": decode(t, `{"note": "hi"}`),
	}
	for name, payload := range cases {
		if _, err := Classify(payload); !errors.Is(err, domain.ErrMalformedResponse) {
			t.Fatalf("%s: expected ErrMalformedResponse, got %v", name, err)
		}
	}
}

func TestParseLineBareStringProduct(t *testing.T) {
	line, err := ParseLine(decode(t, `{"_id": "A", "product": "P9", "quantity": 4}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.ProductRef != "P9" || line.Quantity != 4 {
		t.Fatalf("unexpected line: %+v", line)
	}
}

func TestParseLineNumericIDAndStringPrice(t *testing.T) {
	line, err := ParseLine(decode(t, `{"id": 42, "product": {"id": 7, "price": "9.5"}, "quantity": "2"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.LineID != "42" || line.ProductRef != "7" {
		t.Fatalf("unexpected ids: %+v", line)
	}
	if line.Snapshot.Price != 9.5 || line.Quantity != 2 {
		t.Fatalf("unexpected coercion: %+v", line)
	}
}

func TestParseLineQuantityDefaultsToOne(t *testing.T) {
	line, err := ParseLine(decode(t, `{"_id": "A", "product": {"_id": "P1"}, "quantity": 0}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.Quantity != 1 {
		t.Fatalf("expected quantity defaulted to 1, got %d", line.Quantity)
	}
}
