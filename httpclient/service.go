package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var errDecoderPanic = errors.New("httpclient: decoder panicked")

// Service turns Endpoints into requests, runs them on a Transport and decodes
// successful bodies. It holds no per-call state and may be shared.
type Service struct {
	transport Transport
	decoder   Decoder
	logger    zerolog.Logger
	debug     bool
}

func New(opts ...Option) *Service {
	s := &Service{
		transport: NewHTTPTransport(),
		decoder:   JSONDecoder{Strict: false},
		logger:    zerolog.Nop(),
		debug:     false,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// BuildRequest assembles the request described by endpoint without executing
// it. The only error it returns is a KindWrongURLFormat NetworkError.
func (s *Service) BuildRequest(ctx context.Context, endpoint Endpoint) (*http.Request, error) {
	rawURL, err := buildURL(endpoint)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if body := endpoint.Body(); body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, endpoint.Method().String(), rawURL, bodyReader)
	if err != nil {
		return nil, NewWrongURLFormat()
	}

	for _, header := range endpoint.Headers() {
		req.Header.Set(header.Field, header.Value)
	}

	return req, nil
}

func buildURL(endpoint Endpoint) (string, error) {
	if endpoint.Scheme() == "" || endpoint.Host() == "" {
		return "", NewWrongURLFormat()
	}

	composed := url.URL{ //nolint:exhaustruct
		Scheme:   endpoint.Scheme(),
		Host:     endpoint.Host(),
		Path:     endpoint.Path(),
		RawQuery: encodeQuery(endpoint.QueryItems()),
	}

	rawURL := composed.String()

	parsed, err := url.Parse(rawURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return "", NewWrongURLFormat()
	}

	return rawURL, nil
}

// encodeQuery keeps the caller's order and duplicates, unlike url.Values.
func encodeQuery(items []QueryItem) string {
	if len(items) == 0 {
		return ""
	}

	pairs := make([]string, 0, len(items))
	for _, item := range items {
		pairs = append(pairs, url.QueryEscape(item.Name)+"="+url.QueryEscape(item.Value))
	}

	return strings.Join(pairs, "&")
}

// do runs one call and decodes into target, which must be a pointer. done is
// invoked exactly once with nil or a *NetworkError.
func (s *Service) do(ctx context.Context, endpoint Endpoint, target any, done func(error)) {
	callID := ""
	if s.debug {
		callID = uuid.NewString()
	}

	req, err := s.BuildRequest(ctx, endpoint)
	if err != nil {
		s.logFailure(callID, endpoint.Method().String(), "", err)
		done(err)

		return
	}

	var once sync.Once

	s.transport.Execute(req, func(body []byte, resp *http.Response, execErr error) {
		duplicate := true

		once.Do(func() {
			duplicate = false

			netErr := s.classify(body, resp, execErr, target)
			if netErr != nil {
				s.logFailure(callID, req.Method, req.URL.String(), netErr)
				done(netErr)

				return
			}

			s.logSuccess(callID, req.Method, req.URL.String(), resp.StatusCode)
			done(nil)
		})

		if duplicate && s.debug {
			s.logger.Debug().
				Str("call_id", callID).
				Str("url", req.URL.String()).
				Msg("Transport completed more than once, ignoring")
		}
	})
}

func (s *Service) classify(body []byte, resp *http.Response, execErr error, target any) *NetworkError {
	if execErr != nil {
		return NewUnderlying(execErr)
	}

	if resp == nil {
		return NewInvalidServerResponse()
	}

	if len(body) == 0 {
		return NewMissingData()
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return NewInvalidServerResponseWithStatusCode(resp.StatusCode)
	}

	if err := s.decode(body, target); err != nil {
		return NewDecodingError(err)
	}

	return nil
}

func (s *Service) decode(body []byte, target any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errDecoderPanic, r)
		}
	}()

	return s.decoder.Decode(body, target) //nolint:wrapcheck
}

func (s *Service) logFailure(callID, method, rawURL string, err error) {
	if !s.debug {
		return
	}

	event := s.logger.Debug().
		Str("call_id", callID).
		Str("method", method).
		Str("url", rawURL).
		Err(err)

	if netErr, ok := AsNetworkError(err); ok {
		event = event.Str("error_kind", netErr.Kind.String())
		if netErr.StatusCode != 0 {
			event = event.Int("status_code", netErr.StatusCode)
		}
	}

	event.Msg("Request failed")
}

func (s *Service) logSuccess(callID, method, rawURL string, statusCode int) {
	if !s.debug {
		return
	}

	s.logger.Trace().
		Str("call_id", callID).
		Str("method", method).
		Str("url", rawURL).
		Int("status_code", statusCode).
		Msg("Request succeeded")
}
