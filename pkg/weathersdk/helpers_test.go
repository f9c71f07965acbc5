package weathersdk

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// countingHandler wraps a handler and counts the requests that reach it,
// optionally per path.
type countingHandler struct {
	total   atomic.Int64
	byPath  map[string]*atomic.Int64
	handler http.HandlerFunc
}

func newCountingHandler(handler http.HandlerFunc, paths ...string) *countingHandler {
	byPath := make(map[string]*atomic.Int64, len(paths))
	for _, p := range paths {
		byPath[p] = &atomic.Int64{}
	}
	return &countingHandler{byPath: byPath, handler: handler}
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.total.Add(1)
	if c, ok := h.byPath[r.URL.Path]; ok {
		c.Add(1)
	}
	h.handler(w, r)
}

func (h *countingHandler) count(path string) int64 {
	if c, ok := h.byPath[path]; ok {
		return c.Load()
	}
	return 0
}

func newTestClient(t *testing.T, h http.Handler, opts ...Option) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, opts...)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// makeJWT builds a signed token with the given expiry. The SDK never
// verifies signatures, so the signing key is irrelevant.
func makeJWT(t *testing.T, exp time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   "test-user",
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// loginAs seeds the client with an authenticated session without a network
// round trip.
func loginAs(t *testing.T, c *Client, username string) {
	t.Helper()

	creds := Credentials{
		AccessToken:  makeJWT(t, time.Now().Add(time.Hour)),
		RefreshToken: "refresh-token",
	}
	require.NoError(t, c.sess.set(t.Context(), creds, username))
}

// stubParser reports a fixed expiry for every token.
type stubParser struct {
	exp time.Time
}

func (p stubParser) ExpiresAt(string) (time.Time, error) { return p.exp, nil }
