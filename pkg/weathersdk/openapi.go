package weathersdk

import (
	"context"
	"encoding/json"

	"github.com/overcastlabs/skycast/pkg/timedcache"
)

var schemaCacheKey = timedcache.Key("/openapi.json", nil)

// Schema fetches the service's OpenAPI document, used for self-describing
// documentation rendering. The document changes only on deploys, so it gets
// the longest-lived of the three caches (30 minutes).
func (c *Client) Schema(ctx context.Context) (json.RawMessage, error) {
	if doc, ok := c.schemaCache.Get(schemaCacheKey); ok {
		return doc, nil
	}

	raw, err := c.Get(ctx, "/openapi.json", nil, false)
	if err != nil {
		return nil, err
	}

	c.schemaCache.Set(schemaCacheKey, raw)
	return raw, nil
}
