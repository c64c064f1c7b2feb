package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"storefront-client/internal/domain"
	"storefront-client/internal/normalize"
)

// Login exchanges credentials for a token. The token arrives as "token" or
// "accessToken" in the body, or in the Authorization response header; the
// profile may ride along under "user" or as the body itself.
func (c *Client) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	body := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "/users/login", body)
}

// Register creates an account. Response handling matches Login.
func (c *Client) Register(ctx context.Context, name, email, password string) (string, *domain.User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.authenticate(ctx, "/users/signUp", body)
}

func (c *Client) authenticate(ctx context.Context, path string, body map[string]string) (string, *domain.User, error) {
	raw, header, err := c.doRaw(ctx, http.MethodPost, path, body)
	if err != nil {
		return "", nil, err
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", nil, fmt.Errorf("POST %s: undecodable body: %w", path, domain.ErrMalformedResponse)
	}

	token := stringField(decoded, "token")
	if token == "" {
		token = stringField(decoded, "accessToken")
	}
	if token == "" {
		token = header.Get("Authorization")
	}
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))

	var user *domain.User
	if nested, ok := decoded["user"].(map[string]interface{}); ok {
		user = parseUser(nested)
	} else {
		user = parseUser(decoded)
	}
	return token, user, nil
}

// Logout tells the server to drop the session. Local teardown happens in the
// identity service whether or not this call succeeds.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/users/logout", nil, nil)
}

// Profile fetches the authenticated user.
func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	var decoded map[string]interface{}
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &decoded); err != nil {
		return nil, err
	}
	if nested, ok := decoded["user"].(map[string]interface{}); ok {
		return parseUser(nested), nil
	}
	return parseUser(decoded), nil
}

// parseUser coalesces the user's id fields the same way line ids are
// coalesced: "_id" wins over "id".
func parseUser(m map[string]interface{}) *domain.User {
	if m == nil {
		return nil
	}
	id := normalize.CoerceID(m["_id"])
	if id == "" {
		id = normalize.CoerceID(m["id"])
	}
	return &domain.User{
		StableID: id,
		Email:    stringField(m, "email"),
		Name:     stringField(m, "name"),
		Role:     stringField(m, "role"),
	}
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}
