package normalize

import "storefront-client/internal/domain"

// Kind tags the two interpretable payload families.
type Kind int

const (
	// KindFull carries the entire cart line set.
	KindFull Kind = iota
	// KindPatch echoes only the single mutated line.
	KindPatch
)

// Result is the uniform intermediate form every cart response reduces to.
// HasTotal is false when the server supplied no usable aggregate and the
// caller must recompute.
type Result struct {
	Kind     Kind
	Lines    []domain.CartLine
	Line     domain.CartLine
	Total    float64
	HasTotal bool
}

// Classify interprets one raw cart response payload, in priority order:
// an enveloped list, an enveloped single record, a bare list, then a bare
// single record. Anything else fails with ErrMalformedResponse.
func Classify(payload interface{}) (Result, error) {
	switch body := payload.(type) {
	case map[string]interface{}:
		if wrapped, ok := body["cart"]; ok {
			switch cart := wrapped.(type) {
			case []interface{}:
				lines, err := parseLines(cart)
				if err != nil {
					return Result{}, err
				}
				// Enveloped full responses default the total to 0 when the
				// server omits it.
				return Result{
					Kind:     KindFull,
					Lines:    lines,
					Total:    parseFloat(body["totalPrice"]),
					HasTotal: true,
				}, nil
			case map[string]interface{}:
				line, err := ParseLine(cart)
				if err != nil {
					return Result{}, err
				}
				res := Result{Kind: KindPatch, Line: line}
				if _, ok := body["totalPrice"]; ok {
					res.Total = parseFloat(body["totalPrice"])
					res.HasTotal = true
				}
				return res, nil
			default:
				return Result{}, domain.ErrMalformedResponse
			}
		}
		line, err := ParseLine(body)
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: KindPatch, Line: line}, nil
	case []interface{}:
		lines, err := parseLines(body)
		if err != nil {
			return Result{}, err
		}
		// The legacy bare-array shape never carries a server total.
		res := Result{Kind: KindFull, Lines: lines, HasTotal: true}
		res.Total = domain.Cart{Lines: lines}.RecomputedTotal()
		return res, nil
	default:
		return Result{}, domain.ErrMalformedResponse
	}
}

func parseLines(raw []interface{}) ([]domain.CartLine, error) {
	lines := make([]domain.CartLine, 0, len(raw))
	for _, item := range raw {
		line, err := ParseLine(item)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}
