package weathersdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/overcastlabs/skycast/pkg/timedcache"
)

// prefsCacheKey is the single key of the specialized preferences cache. The
// cache holds one document per client, so the endpoint itself is the key.
var prefsCacheKey = timedcache.Key("/v1/user/preferences", nil)

// Preferences returns the user's preferences. A fresh entry in the
// five-minute preferences cache short-circuits the network. On a network
// failure the durable fallback copy in the keyring is served instead, so
// the UI keeps its units and theme while offline.
func (c *Client) Preferences(ctx context.Context) (Preferences, error) {
	if p, ok := c.prefsCache.Get(prefsCacheKey); ok {
		return p, nil
	}

	raw, err := c.Get(ctx, "/v1/user/preferences", nil, false)
	if err != nil {
		var netErr *NetworkError
		if errors.As(err, &netErr) {
			if fallback, ferr := c.storedPreferences(ctx); ferr == nil {
				c.logger.WarnContext(ctx, "serving stored preferences, host unreachable")
				return fallback, nil
			}
		}
		return Preferences{}, err
	}

	var p Preferences
	if err := decodeJSON(raw, &p); err != nil {
		return Preferences{}, fmt.Errorf("decode preferences response: %w", err)
	}

	c.cachePreferences(ctx, p)
	return p, nil
}

// UpdatePreferences writes the preferences and write-throughs the server's
// updated copy into the preferences cache and the durable fallback, so a
// subsequent read observes the update without a network round trip.
func (c *Client) UpdatePreferences(ctx context.Context, p Preferences) (Preferences, error) {
	raw, err := c.Post(ctx, "/v1/user/preferences", p)
	if err != nil {
		return Preferences{}, err
	}

	updated := p
	if len(raw) > 0 {
		if err := decodeJSON(raw, &updated); err != nil {
			return Preferences{}, fmt.Errorf("decode preferences response: %w", err)
		}
	}

	c.cachePreferences(ctx, updated)
	return updated, nil
}

// ResetPreferencesCache drops the cached preferences, forcing the next read
// to the network.
func (c *Client) ResetPreferencesCache() {
	c.prefsCache.Clear()
}

func (c *Client) cachePreferences(ctx context.Context, p Preferences) {
	c.prefsCache.Set(prefsCacheKey, p)
	if data, err := json.Marshal(p); err == nil {
		_ = c.sess.keyring.Set(ctx, KeyPreferences, string(data))
	}
}

func (c *Client) storedPreferences(ctx context.Context) (Preferences, error) {
	data, err := c.sess.keyring.Get(ctx, KeyPreferences)
	if err != nil {
		return Preferences{}, err
	}
	var p Preferences
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return Preferences{}, err
	}
	return p, nil
}
