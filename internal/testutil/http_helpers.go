package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
)

// NewRequestWithURLParams creates an HTTP request with chi URL parameters.
// This helper simplifies testing chi handlers that use chi.URLParam() to extract path parameters.
//
// Example:
//
//	req := testutil.NewRequestWithURLParams(
//	    http.MethodGet,
//	    "/api/users/1/orders",
//	    map[string]string{"userID": "1"},
//	)
func NewRequestWithURLParams(method, path string, params map[string]string) *http.Request {
	return newRequest(method, path, nil, params)
}

// NewJSONRequestWithURLParams is NewRequestWithURLParams with a JSON body.
//
// Example:
//
//	req := testutil.NewJSONRequestWithURLParams(
//	    http.MethodPost,
//	    "/api/users/1/orders",
//	    `{"orders":[...]}`,
//	    map[string]string{"userID": "1"},
//	)
func NewJSONRequestWithURLParams(method, path, body string, params map[string]string) *http.Request {
	req := newRequest(method, path, strings.NewReader(body), params)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithQueryParams adds query parameters to req.
// This helper simplifies testing handlers that use r.URL.Query() to extract query string parameters.
//
// Example:
//
//	req := testutil.WithQueryParams(
//	    testutil.NewRequestWithURLParams(http.MethodGet, "/api/users/1/holdings", map[string]string{"userID": "1"}),
//	    map[string]string{"date": "2017-06-14"},
//	)
func WithQueryParams(req *http.Request, queryParams map[string]string) *http.Request {
	if len(queryParams) > 0 {
		q := req.URL.Query()
		for key, value := range queryParams {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	return req
}

func newRequest(method, path string, body io.Reader, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, body)

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for key, value := range params {
			rctx.URLParams.Add(key, value)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req
}
