package normalize

import (
	"strconv"

	"storefront-client/internal/domain"
)

// ParseLine interprets one raw line-like object into a CartLine. It fails
// with ErrMalformedResponse when raw is not an object or carries neither a
// resolvable id nor a product reference.
func ParseLine(raw interface{}) (domain.CartLine, error) {
	m, ok := raw.(map[string]interface{})
	if !ok || m == nil {
		return domain.CartLine{}, domain.ErrMalformedResponse
	}

	line := domain.CartLine{Quantity: 1}
	if q := parseInt(m["quantity"]); q >= 1 {
		line.Quantity = q
	}

	switch product := m["product"].(type) {
	case map[string]interface{}:
		line.ProductRef = CoerceID(product["_id"])
		if line.ProductRef == "" {
			line.ProductRef = CoerceID(product["id"])
		}
		line.Snapshot = parseProductSnapshot(product)
	case string:
		// Legacy rows carry the product as a bare id string.
		line.ProductRef = CoerceID(product)
	}

	line.LineID, line.AltID = resolveLineID(m)
	if line.LineID == "" {
		return domain.CartLine{}, domain.ErrMalformedResponse
	}
	return line, nil
}

func parseProductSnapshot(raw map[string]interface{}) domain.ProductSnapshot {
	var out domain.ProductSnapshot
	if v, ok := raw["productName"].(string); ok {
		out.Name = v
	} else if v, ok := raw["name"].(string); ok {
		out.Name = v
	}
	if v, ok := raw["image"].(string); ok {
		out.Image = v
	}
	if v, ok := raw["category"].(string); ok {
		out.Category = v
	}
	if v, ok := raw["stockStatus"].(string); ok {
		out.StockStatus = v
	}
	out.Price = parseFloat(raw["price"])
	// On product documents "quantity" means stock on hand, not cart quantity.
	out.Stock = parseInt(raw["quantity"])
	return out
}

func parseFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		if parsed, err := strconv.ParseFloat(t, 64); err == nil {
			return parsed
		}
	}
	return 0
}

func parseInt(v interface{}) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	case string:
		if parsed, err := strconv.Atoi(t); err == nil {
			return parsed
		}
	}
	return 0
}
