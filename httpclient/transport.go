package httpclient

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultTimeout = 30 * time.Second

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

var _ Doer = (*http.Client)(nil)

// Completion receives the outcome of one execution. When err is non-nil the
// other arguments are meaningless. resp.Body has already been drained into
// body.
type Completion func(body []byte, resp *http.Response, err error)

// Transport performs the network I/O for a request and invokes completion
// exactly once, possibly from another goroutine.
type Transport interface {
	Execute(req *http.Request, completion Completion)
}

type TransportFunc func(req *http.Request, completion Completion)

func (f TransportFunc) Execute(req *http.Request, completion Completion) {
	f(req, completion)
}

type HTTPTransport struct {
	doer            Doer
	timeout         time.Duration
	maxResponseSize int64 // 0 means no limit
}

var _ Transport = (*HTTPTransport)(nil)

type HTTPTransportOption func(*HTTPTransport)

func NewHTTPTransport(opts ...HTTPTransportOption) *HTTPTransport {
	transport := &HTTPTransport{
		doer:            nil,
		timeout:         DefaultTimeout,
		maxResponseSize: 0,
	}

	for _, opt := range opts {
		opt(transport)
	}

	if transport.doer == nil {
		transport.doer = &http.Client{ //nolint:exhaustruct
			Timeout: transport.timeout,
		}
	}

	return transport
}

// WithDoer replaces the default client. The doer's own timeout applies.
func WithDoer(doer Doer) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.doer = doer
	}
}

// WithTimeout sets the timeout of the default client. It has no effect
// together with WithDoer.
func WithTimeout(timeout time.Duration) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.timeout = timeout
	}
}

func WithMaxResponseSize(size int64) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.maxResponseSize = size
	}
}

func (t *HTTPTransport) Execute(req *http.Request, completion Completion) {
	go func() {
		body, resp, err := t.roundTrip(req)
		completion(body, resp, err)
	}()
}

func (t *HTTPTransport) roundTrip(req *http.Request) ([]byte, *http.Response, error) {
	resp, err := t.doer.Do(req)
	if err != nil {
		return nil, nil, err
	}

	if resp == nil {
		return nil, nil, nil
	}

	if resp.Body == nil {
		return nil, resp, nil
	}
	defer resp.Body.Close()

	body := io.Reader(resp.Body)
	if t.maxResponseSize > 0 {
		body = io.LimitReader(resp.Body, t.maxResponseSize+1)
	}

	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response body: %w", err)
	}

	if t.maxResponseSize > 0 && int64(len(bodyBytes)) > t.maxResponseSize {
		return nil, nil, ErrResponseTooLarge
	}

	return bodyBytes, resp, nil
}
