package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Catalog reads are relayed untouched. The UI renders product payloads
// directly, so there is nothing to gain from decoding them here.

func (c *Client) Products(ctx context.Context, query url.Values) (json.RawMessage, error) {
	path := "/products"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	raw, _, err := c.doRaw(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

func (c *Client) ProductByID(ctx context.Context, id string) (json.RawMessage, error) {
	raw, _, err := c.doRaw(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}
