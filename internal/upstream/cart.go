package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// Cart responses are decoded into interface{} and returned as-is. The server
// answers in whatever shape it feels like (enveloped or bare, list or single
// line); the normalize package is the only place that interprets them.

func (c *Client) FetchCart(ctx context.Context) (interface{}, error) {
	var out interface{}
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) (interface{}, error) {
	body := map[string]interface{}{"product": productID, "quantity": quantity}
	var out interface{}
	if err := c.do(ctx, http.MethodPost, "/cart", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID string, quantity int) (interface{}, error) {
	body := map[string]interface{}{"quantity": quantity}
	var out interface{}
	if err := c.do(ctx, http.MethodPut, "/cart/"+url.PathEscape(itemID), body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveFromCart returns nil when the server answers with an empty body,
// which some deployments do for deletes.
func (c *Client) RemoveFromCart(ctx context.Context, itemID string) (interface{}, error) {
	var out interface{}
	if err := c.do(ctx, http.MethodDelete, "/cart/"+url.PathEscape(itemID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cart", nil, nil)
}
