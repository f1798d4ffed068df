package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// NewJSONServer starts a server answering every request with statusCode and
// body. Each request is passed to inspect first when it is non-nil.
func NewJSONServer(t *testing.T, statusCode int, body string, inspect func(r *http.Request)) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inspect != nil {
			inspect(r)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}
