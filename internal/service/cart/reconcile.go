// Package cart owns the canonical client-side cart: the reconciler that
// merges normalized server responses into previous state, the store that
// serializes those merges, and the service that drives upstream mutations.
package cart

import (
	"storefront-client/internal/domain"
	"storefront-client/internal/normalize"
)

// Operation is the cart mutation a response answers. Remove responses are
// patch-applied by deletion rather than replacement.
type Operation int

const (
	OpFetch Operation = iota
	OpAdd
	OpUpdate
	OpRemove
)

// Reconcile applies a normalized result to the previous cart and returns the
// new canonical cart. It is referentially pure: prev is never mutated, and
// the same inputs always produce the same output.
//
// targetID is the id the caller addressed (remove/update); it takes
// precedence over the echoed line's own ids when locating the affected line.
func Reconcile(prev domain.Cart, res normalize.Result, op Operation, targetID string) domain.Cart {
	if res.Kind == normalize.KindFull {
		next := domain.Cart{Lines: append([]domain.CartLine(nil), res.Lines...)}
		if res.HasTotal {
			next.Total = res.Total
		} else {
			next.Total = next.RecomputedTotal()
		}
		return next
	}

	if op == OpRemove {
		next := domain.Cart{Lines: filterOut(prev.Lines, targetID, res.Line)}
		next.Total = next.RecomputedTotal()
		return next
	}

	lines := append([]domain.CartLine(nil), prev.Lines...)
	if idx := findLine(lines, targetID, res.Line); idx >= 0 {
		lines[idx] = mergeLine(lines[idx], res.Line)
	} else {
		lines = append(lines, res.Line)
	}
	// A patch echo's total reflects only the mutated line, never the
	// aggregate, so the aggregate is always recomputed here.
	next := domain.Cart{Lines: lines}
	next.Total = next.RecomputedTotal()
	return next
}

// Cleared is the direct clear transition; it bypasses normalization because
// the server's clear response is advisory only.
func Cleared() domain.Cart {
	return domain.Cart{Lines: []domain.CartLine{}, Total: 0}
}

// mergeLine lays the echoed line over the stored one. Mutation echoes are
// frequently sparse (an id and the new quantity, little else), so stored
// snapshot fields survive wherever the echo left them out; otherwise the
// recomputed aggregate would lose the line's price.
func mergeLine(existing, incoming domain.CartLine) domain.CartLine {
	out := incoming
	if out.AltID == "" {
		out.AltID = existing.AltID
	}
	if out.ProductRef == "" {
		out.ProductRef = existing.ProductRef
	}
	if out.Snapshot.Name == "" {
		out.Snapshot.Name = existing.Snapshot.Name
	}
	if out.Snapshot.Image == "" {
		out.Snapshot.Image = existing.Snapshot.Image
	}
	if out.Snapshot.Category == "" {
		out.Snapshot.Category = existing.Snapshot.Category
	}
	if out.Snapshot.Price == 0 {
		out.Snapshot.Price = existing.Snapshot.Price
	}
	if out.Snapshot.StockStatus == "" {
		out.Snapshot.StockStatus = existing.Snapshot.StockStatus
	}
	if out.Snapshot.Stock == 0 {
		out.Snapshot.Stock = existing.Snapshot.Stock
	}
	return out
}

func candidates(targetID string, line domain.CartLine) []string {
	ids := make([]string, 0, 4)
	for _, id := range []string{targetID, line.LineID, line.AltID, line.ProductRef} {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func findLine(lines []domain.CartLine, targetID string, incoming domain.CartLine) int {
	ids := candidates(targetID, incoming)
	for i, l := range lines {
		for _, id := range ids {
			if l.MatchesID(id) {
				return i
			}
		}
	}
	return -1
}

func filterOut(lines []domain.CartLine, targetID string, incoming domain.CartLine) []domain.CartLine {
	ids := candidates(targetID, incoming)
	kept := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		matched := false
		for _, id := range ids {
			if l.MatchesID(id) {
				matched = true
				break
			}
		}
		if !matched {
			kept = append(kept, l)
		}
	}
	return kept
}
