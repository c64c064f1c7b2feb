package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"storefront-client/internal/domain"
	"storefront-client/internal/normalize"
)

// SubmitOrder posts a validated draft and returns the created order's id
// alongside the raw confirmation payload. The id lives at the top level or
// under an "order" envelope depending on the deployment.
func (c *Client) SubmitOrder(ctx context.Context, draft domain.DraftOrder) (string, json.RawMessage, error) {
	raw, _, err := c.doRaw(ctx, http.MethodPost, "/orders", draft)
	if err != nil {
		return "", nil, err
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", nil, fmt.Errorf("POST /orders: undecodable body: %w", domain.ErrMalformedResponse)
	}
	id := orderID(decoded)
	if id == "" {
		if nested, ok := decoded["order"].(map[string]interface{}); ok {
			id = orderID(nested)
		}
	}
	if id == "" {
		return "", nil, fmt.Errorf("POST /orders: no order id in response: %w", domain.ErrMalformedResponse)
	}
	return id, json.RawMessage(raw), nil
}

func orderID(m map[string]interface{}) string {
	if id := normalize.CoerceID(m["_id"]); id != "" {
		return id
	}
	return normalize.CoerceID(m["id"])
}

func (c *Client) Orders(ctx context.Context) (json.RawMessage, error) {
	raw, _, err := c.doRaw(ctx, http.MethodGet, "/orders", nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

func (c *Client) OrderByID(ctx context.Context, id string) (json.RawMessage, error) {
	raw, _, err := c.doRaw(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

func (c *Client) CancelOrder(ctx context.Context, id, reason string) (json.RawMessage, error) {
	body := map[string]string{"reason": reason}
	raw, _, err := c.doRaw(ctx, http.MethodPost, "/orders/"+url.PathEscape(id)+"/cancel", body)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// InitializePayment starts the payment flow for a submitted order. The
// payload carries the provider's redirect reference.
func (c *Client) InitializePayment(ctx context.Context, orderID string) (json.RawMessage, error) {
	raw, _, err := c.doRaw(ctx, http.MethodPost, "/orders/"+url.PathEscape(orderID)+"/payments", nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// VerifyPayment confirms a payment by provider reference after the redirect
// returns.
func (c *Client) VerifyPayment(ctx context.Context, reference string) (json.RawMessage, error) {
	raw, _, err := c.doRaw(ctx, http.MethodGet, "/payments/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}
