package weathersdk

import (
	"encoding/json"
	"net/url"

	"github.com/oklog/ulid/v2"
)

// request is an immutable description of one outgoing call. Retry state
// lives in the explicit attempt counter, not in a mutable flag on a shared
// object, so it can never leak across requests. withAttempt returns a copy.
type request struct {
	id     string
	method string
	path   string
	query  url.Values
	body   []byte     // JSON payload, nil for none
	form   url.Values // form payload, mutually exclusive with body

	// attempt is 0 for the original send and 1 for the single replay the
	// auth interceptor is allowed after a refresh.
	attempt int
}

func newRequest(method, path string) request {
	return request{
		id:     ulid.Make().String(),
		method: method,
		path:   path,
	}
}

func (r request) withQuery(q url.Values) request {
	r.query = q
	return r
}

func (r request) withBody(body []byte) request {
	r.body = body
	return r
}

func (r request) withForm(form url.Values) request {
	r.form = form
	return r
}

func (r request) withAttempt(n int) request {
	r.attempt = n
	return r
}

// marshalBody serializes a JSON request body, reporting failure as a
// RequestSetupError since nothing was sent.
func marshalBody(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, &RequestSetupError{Err: err}
	}
	return b, nil
}

// queryParams converts a flat parameter map to url.Values.
func queryParams(params map[string]string) url.Values {
	if len(params) == 0 {
		return nil
	}
	q := make(url.Values, len(params))
	for name, value := range params {
		q.Set(name, value)
	}
	return q
}
