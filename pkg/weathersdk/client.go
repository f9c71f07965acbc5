package weathersdk

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/overcastlabs/skycast/pkg/slogx"
	"github.com/overcastlabs/skycast/pkg/timedcache"
)

// Cache lifetimes for the three independent cache instances. They are never
// shared or merged.
const (
	GetCacheMaxAge         = 10 * time.Minute
	PreferencesCacheMaxAge = 5 * time.Minute
	SchemaCacheMaxAge      = 30 * time.Minute
)

// Client is the single entry point to the weather service. It composes the
// response caches, the HTTP transport, and the auth-refresh interceptor, and
// owns the session state. A Client is safe for concurrent use, and multiple
// independent Clients can coexist in one process.
type Client struct {
	baseURL string
	logger  *slog.Logger

	api    *transport // authenticated calls, 8s timeout
	legacy *transport // unauthenticated login/signup calls, 5s timeout

	sess     *session
	refresh  singleflight.Group
	validate *validator.Validate

	getCache    *timedcache.Cache[json.RawMessage]
	prefsCache  *timedcache.Cache[Preferences]
	schemaCache *timedcache.Cache[json.RawMessage]
}

// Option configures a Client.
type Option func(*options)

type options struct {
	timeout       time.Duration
	legacyTimeout time.Duration
	keyring       Keyring
	logger        *slog.Logger
	parser        ExpiryParser
	limiter       *rate.Limiter
}

// WithKeyring sets the durable storage for credentials and the preference
// fallback copy. Defaults to an in-memory keyring.
func WithKeyring(k Keyring) Option {
	return func(o *options) { o.keyring = k }
}

// WithLogger sets the logger. Defaults to discarding everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTimeout sets the timeout for authenticated calls.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLegacyTimeout sets the timeout for the unauthenticated login/signup
// transport.
func WithLegacyTimeout(d time.Duration) Option {
	return func(o *options) { o.legacyTimeout = d }
}

// WithExpiryParser substitutes the token expiry inspection. Defaults to
// reading the JWT exp claim.
func WithExpiryParser(p ExpiryParser) Option {
	return func(o *options) { o.parser = p }
}

// WithRateLimit caps outbound request rate on the authenticated transport.
func WithRateLimit(l *rate.Limiter) Option {
	return func(o *options) { o.limiter = l }
}

// New returns a Client talking to the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	o := options{
		timeout:       DefaultTimeout,
		legacyTimeout: DefaultLegacyTimeout,
		keyring:       NewMemoryKeyring(),
		logger:        slogx.Discard(),
		parser:        jwtExpiryParser{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Client{
		baseURL:     baseURL,
		logger:      o.logger,
		api:         newTransport(baseURL, o.timeout, o.limiter),
		legacy:      newTransport(baseURL, o.legacyTimeout, nil),
		sess:        newSession(o.keyring, o.parser),
		validate:    validator.New(),
		getCache:    timedcache.New[json.RawMessage](GetCacheMaxAge),
		prefsCache:  timedcache.New[Preferences](PreferencesCacheMaxAge),
		schemaCache: timedcache.New[json.RawMessage](SchemaCacheMaxAge),
	}
}

// Get performs an authenticated GET. When useCache is true a fresh cached
// response short-circuits the network entirely, and a successful response is
// stored before being returned.
func (c *Client) Get(ctx context.Context, endpoint string, params map[string]string, useCache bool) (json.RawMessage, error) {
	if useCache {
		if v, ok := c.getCache.Get(timedcache.Key(endpoint, params)); ok {
			c.logger.DebugContext(ctx, "cache hit", "endpoint", endpoint)
			return v, nil
		}
	}

	req := newRequest(http.MethodGet, endpoint).withQuery(queryParams(params))
	raw, err := c.doAuthed(slogx.WithRequestID(ctx, req.id), req)
	if err != nil {
		c.logger.WarnContext(ctx, "request failed", "endpoint", endpoint, "error", err)
		return nil, err
	}

	if useCache {
		c.getCache.Set(timedcache.Key(endpoint, params), raw)
	}
	c.logger.DebugContext(ctx, "request ok", "endpoint", endpoint)
	return raw, nil
}

// Post performs an authenticated POST with a JSON body. Never cached.
func (c *Client) Post(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.send(ctx, http.MethodPost, endpoint, body)
}

// Delete performs an authenticated DELETE with a JSON body. Never cached.
func (c *Client) Delete(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.send(ctx, http.MethodDelete, endpoint, body)
}

func (c *Client) send(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	req := newRequest(method, endpoint)
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &RequestSetupError{Err: err}
		}
		req = req.withBody(payload)
	}

	raw, err := c.doAuthed(slogx.WithRequestID(ctx, req.id), req)
	if err != nil {
		c.logger.WarnContext(ctx, "request failed", "endpoint", endpoint, "method", method, "error", err)
		return nil, err
	}
	c.logger.DebugContext(ctx, "request ok", "endpoint", endpoint, "method", method)
	return raw, nil
}

// clearCaches empties all three cache instances. Called on logout and on
// unrecoverable refresh failure so no response outlives the session that
// fetched it.
func (c *Client) clearCaches() {
	c.getCache.Clear()
	c.prefsCache.Clear()
	c.schemaCache.Clear()
}
