// Package upstream is the REST client for the remote storefront service.
// It plays the repository role for this process: every read and mutation of
// products, carts, and orders goes through it. Responses are handed back
// loosely decoded because the service's shapes are unstable in production;
// interpretation belongs to the callers.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront-client/internal/domain"
)

// TokenSource supplies the current bearer token, empty when logged out.
type TokenSource interface {
	Token() string
}

// Client issues authenticated requests against the upstream base URL.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
	logger  *log.Logger

	// onAuthFailure runs whenever a call is answered with 401, before the
	// error is returned. The identity service hooks session teardown here.
	onAuthFailure func()
}

func New(baseURL string, tokens TokenSource, onAuthFailure func(), logger *log.Logger) *Client {
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpc:         &http.Client{Timeout: 15 * time.Second},
		tokens:        tokens,
		logger:        logger,
		onAuthFailure: onAuthFailure,
	}
}

// SetHTTPClient overrides the transport, used by tests and by callers that
// need custom timeouts.
func (c *Client) SetHTTPClient(httpc *http.Client) {
	c.httpc = httpc
}

// doRaw performs one request and returns the raw response body. Statuses are
// mapped onto the client error taxonomy; the returned header is needed by
// callers that read tokens out of it.
func (c *Client) doRaw(ctx context.Context, method, path string, body interface{}) ([]byte, http.Header, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.tokens.Token(); token != "" {
		if !strings.HasPrefix(token, "Bearer ") {
			token = "Bearer " + token
		}
		req.Header.Set("Authorization", token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %v: %w", method, path, err, domain.ErrTransport)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.Header, fmt.Errorf("%s %s: read body: %v: %w", method, path, err, domain.ErrTransport)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, resp.Header, nil
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if c.onAuthFailure != nil {
			c.onAuthFailure()
		}
		return nil, resp.Header, fmt.Errorf("%s %s: %w", method, path, domain.ErrAuthRequired)
	case resp.StatusCode == http.StatusNotFound:
		return nil, resp.Header, fmt.Errorf("%s %s: %w", method, path, domain.ErrItemNotFound)
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, resp.Header, parseValidationBody(raw)
	default:
		c.logger.Printf("upstream: %s %s answered %d: %.200s", method, path, resp.StatusCode, raw)
		return nil, resp.Header, fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, domain.ErrServerError)
	}
}

// do performs a request and decodes the response into out when provided.
// An undecodable 2xx body (an HTML error page, say) is a malformed response.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	raw, _, err := c.doRaw(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: undecodable body: %w", method, path, domain.ErrMalformedResponse)
	}
	return nil
}
