package weathersdk

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Default per-request timeouts. The legacy transport is the shorter,
// unauthenticated variant used by the login and signup call sites.
const (
	DefaultTimeout       = 8 * time.Second
	DefaultLegacyTimeout = 5 * time.Second
)

// transport performs the actual network calls against a fixed base URL with
// a bounded timeout. It knows nothing about caching or token refresh; it
// only sends, receives, and normalizes failures into the SDK error taxonomy.
type transport struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter // nil means unlimited
}

func newTransport(baseURL string, timeout time.Duration, limiter *rate.Limiter) *transport {
	return &transport{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

// roundTrip sends req, attaching bearer as an Authorization header when
// non-empty, and returns the raw response body. Failures come back as
// RequestSetupError, NetworkError, or HTTPError.
func (t *transport) roundTrip(ctx context.Context, req request, bearer string) (json.RawMessage, error) {
	u := t.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.form != nil:
		body = strings.NewReader(req.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.body != nil:
		body = bytes.NewReader(req.body)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return nil, &RequestSetupError{Err: err}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	if bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+bearer)
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, &RequestSetupError{Err: err}
		}
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseErrorBody(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// decodeJSON unmarshals a raw response into target, tolerating empty bodies
// (e.g. 204-style responses) when target is nil.
func decodeJSON(raw json.RawMessage, target any) error {
	if target == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, target)
}
