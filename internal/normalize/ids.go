// Package normalize turns the upstream service's loosely-shaped cart payloads
// into the canonical domain representation. The service has at least two
// response conventions in production (enveloped and bare, full and
// single-record echo), and ids appear under _id, id, or product._id
// interchangeably; everything here exists to absorb that variability.
package normalize

import (
	"strconv"
	"strings"
)

// CoerceID renders a raw identifier value as a trimmed string. Ids arrive as
// strings but occasionally as JSON numbers; anything else coerces to empty.
func CoerceID(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

// ValidItemID reports whether raw is usable to address a cart line: non-null
// and non-empty once string-coerced and trimmed. Checked before dispatching
// any cart mutation, so requests guaranteed to fail server-side are never
// sent.
func ValidItemID(raw interface{}) (string, bool) {
	id := CoerceID(raw)
	return id, id != ""
}

// resolveLineID picks the canonical line id from a raw line object:
// _id, then id, then the nested product's _id/id. Returns the canonical id
// plus the secondary top-level id when both were populated.
func resolveLineID(m map[string]interface{}) (lineID, altID string) {
	topPrimary := CoerceID(m["_id"])
	topSecondary := CoerceID(m["id"])

	switch {
	case topPrimary != "":
		lineID = topPrimary
		if topSecondary != "" && topSecondary != topPrimary {
			altID = topSecondary
		}
	case topSecondary != "":
		lineID = topSecondary
	default:
		if product, ok := m["product"].(map[string]interface{}); ok {
			lineID = CoerceID(product["_id"])
			if lineID == "" {
				lineID = CoerceID(product["id"])
			}
		}
	}
	return lineID, altID
}
