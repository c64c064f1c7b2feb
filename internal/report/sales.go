// Package report assembles the admin sales report into CSV on the client
// side, so the browser can download it without a dedicated export endpoint.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"storefront-client/internal/domain"
	"storefront-client/internal/normalize"
)

// SalesRow is one order as it appears in the report.
type SalesRow struct {
	OrderID    string
	Status     string
	Items      int
	TotalPrice float64
	CreatedAt  string
}

// ParseOrders reads the orders payload, which arrives either as a bare list
// or enveloped under "orders". Ids are coalesced the same way cart line ids
// are.
func ParseOrders(raw json.RawMessage) ([]SalesRow, error) {
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode orders payload: %w", domain.ErrMalformedResponse)
	}

	var list []interface{}
	switch v := decoded.(type) {
	case []interface{}:
		list = v
	case map[string]interface{}:
		inner, ok := v["orders"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("orders payload carries no list: %w", domain.ErrMalformedResponse)
		}
		list = inner
	default:
		return nil, fmt.Errorf("orders payload is %T: %w", decoded, domain.ErrMalformedResponse)
	}

	rows := make([]SalesRow, 0, len(list))
	for _, el := range list {
		m, ok := el.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("order entry is %T: %w", el, domain.ErrMalformedResponse)
		}
		id := normalize.CoerceID(m["_id"])
		if id == "" {
			id = normalize.CoerceID(m["id"])
		}
		row := SalesRow{
			OrderID:    id,
			Status:     stringField(m, "status"),
			TotalPrice: floatField(m, "totalPrice"),
			CreatedAt:  stringField(m, "createdAt"),
		}
		if products, ok := m["products"].([]interface{}); ok {
			row.Items = len(products)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteSalesCSV writes the report with a header row.
func WriteSalesCSV(w io.Writer, rows []SalesRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"orderId", "status", "items", "totalPrice", "createdAt"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.OrderID,
			row.Status,
			strconv.Itoa(row.Items),
			strconv.FormatFloat(row.TotalPrice, 'f', 2, 64),
			row.CreatedAt,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func floatField(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
