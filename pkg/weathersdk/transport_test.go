package weathersdk

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransportErrorTaxonomy(t *testing.T) {
	t.Parallel()

	t.Run("unreachable host is NetworkError", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close() // nothing listens here anymore

		tr := newTransport(srv.URL, DefaultTimeout, nil)
		_, err := tr.roundTrip(t.Context(), newRequest(http.MethodGet, "/weather/forecast"), "")

		var netErr *NetworkError
		require.ErrorAs(t, err, &netErr)
	})

	t.Run("non-2xx is HTTPError with detail field", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"detail": "username already registered"}`))
		}))
		t.Cleanup(srv.Close)

		tr := newTransport(srv.URL, DefaultTimeout, nil)
		_, err := tr.roundTrip(t.Context(), newRequest(http.MethodPost, "/v1/user"), "")

		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Equal(t, http.StatusConflict, httpErr.Status)
		require.Equal(t, "username already registered", httpErr.Detail)
	})

	t.Run("non-2xx without detail gets generic message", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream exploded"))
		}))
		t.Cleanup(srv.Close)

		tr := newTransport(srv.URL, DefaultTimeout, nil)
		_, err := tr.roundTrip(t.Context(), newRequest(http.MethodGet, "/weather/forecast"), "")

		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Equal(t, http.StatusBadGateway, httpErr.Status)
		require.Equal(t, "HTTP 502: Bad Gateway", httpErr.Detail)
	})

	t.Run("structured detail array is preserved", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"detail": [{"loc": ["body", "email"], "msg": "invalid email"}]}`))
		}))
		t.Cleanup(srv.Close)

		tr := newTransport(srv.URL, DefaultTimeout, nil)
		_, err := tr.roundTrip(t.Context(), newRequest(http.MethodPost, "/v1/user"), "")

		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Contains(t, httpErr.Detail, "invalid email")
	})

	t.Run("malformed method is RequestSetupError", func(t *testing.T) {
		t.Parallel()

		tr := newTransport("http://localhost:0", DefaultTimeout, nil)
		req := newRequest("bad method", "/x")
		_, err := tr.roundTrip(t.Context(), req, "")

		var setupErr *RequestSetupError
		require.ErrorAs(t, err, &setupErr)
	})
}

func TestTransportHeadersAndBodies(t *testing.T) {
	t.Parallel()

	var (
		gotAuth        string
		gotContentType string
		gotBody        string
		gotQuery       url.Values
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotQuery = r.URL.Query()
		require.NoError(t, r.ParseForm())
		gotBody = r.PostForm.Encode()
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	tr := newTransport(srv.URL, DefaultTimeout, nil)

	t.Run("bearer attached when present", func(t *testing.T) {
		req := newRequest(http.MethodGet, "/v1/user/me")
		_, err := tr.roundTrip(t.Context(), req, "the-token")
		require.NoError(t, err)
		require.Equal(t, "Bearer the-token", gotAuth)
	})

	t.Run("no bearer when absent", func(t *testing.T) {
		req := newRequest(http.MethodGet, "/weather/forecast").
			withQuery(url.Values{"city_name": {"London"}})
		_, err := tr.roundTrip(t.Context(), req, "")
		require.NoError(t, err)
		require.Empty(t, gotAuth)
		require.Equal(t, "London", gotQuery.Get("city_name"))
	})

	t.Run("form body is form-encoded", func(t *testing.T) {
		req := newRequest(http.MethodPost, "/v1/login").
			withForm(url.Values{"username": {"alice"}, "password": {"secret"}})
		_, err := tr.roundTrip(t.Context(), req, "")
		require.NoError(t, err)
		require.Equal(t, "application/x-www-form-urlencoded", gotContentType)
		require.Contains(t, gotBody, "username=alice")
	})

	t.Run("json body is json", func(t *testing.T) {
		req := newRequest(http.MethodPost, "/v1/refresh").
			withBody([]byte(`{"refresh_token":"r"}`))
		_, err := tr.roundTrip(t.Context(), req, "")
		require.NoError(t, err)
		require.Equal(t, "application/json", gotContentType)
	})
}

func TestRequestDescriptorImmutable(t *testing.T) {
	t.Parallel()

	req := newRequest(http.MethodGet, "/weather/forecast")
	replay := req.withAttempt(1)

	require.Zero(t, req.attempt)
	require.Equal(t, 1, replay.attempt)
	require.Equal(t, req.id, replay.id)

	other := newRequest(http.MethodGet, "/weather/forecast")
	require.NotEqual(t, req.id, other.id)
	require.Zero(t, other.attempt, "retry state must not leak across requests")
}
