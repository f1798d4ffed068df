package httpclient

import (
	"github.com/rs/zerolog"
)

const (
	HeaderContentType = "Content-Type"
	HeaderXRequestID  = "X-Request-ID"
	ContentTypeJSON   = "application/json"
)

type Option func(*Service)

func WithTransport(transport Transport) Option {
	return func(s *Service) {
		if transport != nil {
			s.transport = transport
		}
	}
}

func WithDecoder(decoder Decoder) Option {
	return func(s *Service) {
		if decoder != nil {
			s.decoder = decoder
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithDebug turns on diagnostic logging of every failed call. Logging never
// changes what a call returns.
func WithDebug(enabled bool) Option {
	return func(s *Service) {
		s.debug = enabled
	}
}
