package domain

// ProductSnapshot carries the denormalized product fields a cart line needs
// for display. It reflects the product at last-known-fetch time and may be
// stale relative to the server's authoritative price.
type ProductSnapshot struct {
	Name        string  `json:"name,omitempty"`
	Image       string  `json:"image,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	Stock       int     `json:"stock,omitempty"`
	StockStatus string  `json:"stockStatus,omitempty"`
}

// CartLine is one product line in the cart. LineID is the canonical
// identifier resolved from whichever id field the server populated; AltID
// retains the secondary top-level id when the payload carried both, so that
// lookups by either value still hit this line.
type CartLine struct {
	LineID     string          `json:"lineId"`
	AltID      string          `json:"-"`
	ProductRef string          `json:"productRef"`
	Snapshot   ProductSnapshot `json:"product"`
	Quantity   int             `json:"quantity"`
}

// MatchesID reports whether target addresses this line. The server may
// reference a line by its top-level id while the stored copy only carries the
// nested product id (or vice versa), so all candidate fields are checked.
func (l CartLine) MatchesID(target string) bool {
	if target == "" {
		return false
	}
	return l.LineID == target || l.AltID == target || l.ProductRef == target
}

// Cart is the canonical client-side cart state.
type Cart struct {
	Lines []CartLine `json:"items"`
	Total float64    `json:"total"`
}

// RecomputedTotal sums snapshot price times quantity over all lines. It is
// the authoritative aggregate whenever a reconciliation patched fewer than
// all lines, since a patch-echo total only reflects the patched line.
func (c Cart) RecomputedTotal() float64 {
	var sum float64
	for _, l := range c.Lines {
		q := l.Quantity
		if q < 1 {
			q = 1
		}
		sum += l.Snapshot.Price * float64(q)
	}
	return sum
}

// FindLine returns the first line addressed by target, if any.
func (c Cart) FindLine(target string) (CartLine, bool) {
	for _, l := range c.Lines {
		if l.MatchesID(target) {
			return l, true
		}
	}
	return CartLine{}, false
}
