package domain

// ShippingAddress is the delivery contact block required on every order.
type ShippingAddress struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
}

// OrderItem is one product entry of an order submission.
type OrderItem struct {
	Product  string  `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// DraftOrder is assembled from cart, form, and identity at submission time.
// It is constructed once per checkout attempt and never persisted locally.
type DraftOrder struct {
	User            string          `json:"user"`
	Products        []OrderItem     `json:"products"`
	TotalPrice      float64         `json:"totalPrice"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Notes           string          `json:"notes,omitempty"`
}
