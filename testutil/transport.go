package testutil

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/andyle182810/netkit/httpclient"
)

// StubTransport completes every request with the same canned outcome.
type StubTransport struct {
	Body       []byte
	StatusCode int
	// NoResponse completes without response metadata.
	NoResponse bool
	Err        error

	calls   atomic.Int32
	mu      sync.Mutex
	lastReq *http.Request
}

var _ httpclient.Transport = (*StubTransport)(nil)

func NewStubTransport(statusCode int, body string) *StubTransport {
	return &StubTransport{ //nolint:exhaustruct
		Body:       []byte(body),
		StatusCode: statusCode,
	}
}

func NewFailingTransport(err error) *StubTransport {
	return &StubTransport{Err: err} //nolint:exhaustruct
}

func (s *StubTransport) Execute(req *http.Request, completion httpclient.Completion) {
	s.calls.Add(1)

	s.mu.Lock()
	s.lastReq = req
	s.mu.Unlock()

	go func() {
		switch {
		case s.Err != nil:
			completion(nil, nil, s.Err)
		case s.NoResponse:
			completion(s.Body, nil, nil)
		default:
			completion(s.Body, &http.Response{ //nolint:exhaustruct
				StatusCode: s.StatusCode,
				Header:     http.Header{},
				Request:    req,
			}, nil)
		}
	}()
}

func (s *StubTransport) Calls() int {
	return int(s.calls.Load())
}

func (s *StubTransport) LastRequest() *http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastReq
}

// RecordingDecoder counts Decode calls and delegates to a JSONDecoder.
type RecordingDecoder struct {
	calls atomic.Int32
}

var _ httpclient.Decoder = (*RecordingDecoder)(nil)

func (d *RecordingDecoder) Decode(data []byte, v any) error {
	d.calls.Add(1)

	return httpclient.JSONDecoder{Strict: false}.Decode(data, v)
}

func (d *RecordingDecoder) Calls() int {
	return int(d.calls.Load())
}
