package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Admin endpoints relay the payload untouched, same as catalog reads. Role
// enforcement is the server's; the HTTP layer only gates the admin routes on
// the locally known role to avoid pointless round trips.

func (c *Client) AdminProducts(ctx context.Context, query url.Values) (json.RawMessage, error) {
	path := "/admin/products"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	raw, _, err := c.doRaw(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

func (c *Client) CreateProduct(ctx context.Context, product json.RawMessage) (json.RawMessage, error) {
	raw, _, err := c.doRaw(ctx, http.MethodPost, "/admin/products", product)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, product json.RawMessage) (json.RawMessage, error) {
	raw, _, err := c.doRaw(ctx, http.MethodPatch, "/admin/products/"+url.PathEscape(id), product)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/products/"+url.PathEscape(id), nil, nil)
}

func (c *Client) UpdateInventory(ctx context.Context, id string, quantity int) (json.RawMessage, error) {
	body := map[string]int{"quantity": quantity}
	raw, _, err := c.doRaw(ctx, http.MethodPatch, "/admin/products/"+url.PathEscape(id)+"/inventory", body)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

func (c *Client) SalesReport(ctx context.Context, query url.Values) (json.RawMessage, error) {
	path := "/admin/reports/sales"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	raw, _, err := c.doRaw(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

func (c *Client) InventoryReport(ctx context.Context) (json.RawMessage, error) {
	raw, _, err := c.doRaw(ctx, http.MethodGet, "/admin/reports/inventory", nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}
