package weathersdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// doAuthed sends a request with the current bearer credential attached and
// transparently recovers from a single 401 by refreshing the credential pair
// and replaying the request once. The replay goes straight to the transport,
// so a second 401 propagates: at most one retry per original request.
func (c *Client) doAuthed(ctx context.Context, req request) (json.RawMessage, error) {
	raw, err := c.api.roundTrip(ctx, req, c.sess.credentials().AccessToken)
	if err == nil || !isUnauthorized(err) || req.attempt > 0 {
		return raw, err
	}

	// One-shot recovery. Without a refresh credential there is nothing to
	// try; the original 401 stands.
	if c.sess.credentials().RefreshToken == "" {
		return nil, err
	}

	c.logger.DebugContext(ctx, "access rejected, refreshing credentials", "endpoint", req.path)
	if rerr := c.refreshCredentials(ctx); rerr != nil {
		// Refresh failure is terminal for this session; it, not the
		// original 401, is what the caller needs to see.
		return nil, rerr
	}

	replay := req.withAttempt(req.attempt + 1)
	return c.api.roundTrip(ctx, replay, c.sess.credentials().AccessToken)
}

// refreshCredentials exchanges the refresh credential for a new pair.
// Concurrent callers share a single in-flight refresh: parallel 401s wake up
// to the same outcome instead of each issuing a redundant refresh that could
// race on storage writes. The refresh call bypasses doAuthed so it can never
// intercept itself.
func (c *Client) refreshCredentials(ctx context.Context) error {
	_, err, _ := c.refresh.Do("refresh", func() (any, error) {
		creds := c.sess.credentials()
		if creds.RefreshToken == "" {
			return nil, &AuthExpiredError{Err: ErrNoRefreshCredential}
		}

		body, err := marshalBody(map[string]string{"refresh_token": creds.RefreshToken})
		if err != nil {
			return nil, err
		}

		req := newRequest(http.MethodPost, "/v1/refresh").withBody(body)
		raw, err := c.api.roundTrip(ctx, req, "")
		if err != nil {
			// The refresh credential is no longer usable. Drop the
			// session so callers are forced back through login.
			c.sess.clear(ctx)
			c.clearCaches()
			c.logger.WarnContext(ctx, "credential refresh failed, session cleared", "error", err)
			return nil, &AuthExpiredError{Err: err}
		}

		var tok tokenResponse
		if err := decodeJSON(raw, &tok); err != nil {
			c.sess.clear(ctx)
			c.clearCaches()
			return nil, &AuthExpiredError{Err: fmt.Errorf("decode refresh response: %w", err)}
		}

		pair := Credentials{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken}
		if !pair.Valid() {
			c.sess.clear(ctx)
			c.clearCaches()
			return nil, &AuthExpiredError{Err: ErrIncompletePair}
		}

		if err := c.sess.set(ctx, pair, c.sess.username()); err != nil {
			return nil, err
		}
		c.logger.InfoContext(ctx, "credentials refreshed")
		return nil, nil
	})
	return err
}
