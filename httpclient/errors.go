package httpclient

import (
	"errors"
	"fmt"
)

var (
	ErrWrongURLFormat                      = errors.New("httpclient: wrong url format")
	ErrInvalidServerResponseWithStatusCode = errors.New("httpclient: invalid server response with status code")
	ErrInvalidServerResponse               = errors.New("httpclient: invalid server response")
	ErrMissingData                         = errors.New("httpclient: missing response data")
	ErrDecodingError                       = errors.New("httpclient: decoding error")
	ErrConnectionError                     = errors.New("httpclient: connection error")
	ErrUnderlying                          = errors.New("httpclient: underlying error")
	ErrResponseTooLarge                    = errors.New("httpclient: response body too large")
)

// ErrorKind tags the variant held by a NetworkError.
type ErrorKind int

const (
	KindWrongURLFormat ErrorKind = iota + 1
	KindInvalidServerResponseWithStatusCode
	KindInvalidServerResponse
	KindMissingData
	KindDecodingError
	KindConnectionError
	KindUnderlying
)

func (k ErrorKind) String() string {
	switch k {
	case KindWrongURLFormat:
		return "wrong_url_format"
	case KindInvalidServerResponseWithStatusCode:
		return "invalid_server_response_with_status_code"
	case KindInvalidServerResponse:
		return "invalid_server_response"
	case KindMissingData:
		return "missing_data"
	case KindDecodingError:
		return "decoding_error"
	case KindConnectionError:
		return "connection_error"
	case KindUnderlying:
		return "underlying"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindWrongURLFormat:
		return ErrWrongURLFormat
	case KindInvalidServerResponseWithStatusCode:
		return ErrInvalidServerResponseWithStatusCode
	case KindInvalidServerResponse:
		return ErrInvalidServerResponse
	case KindMissingData:
		return ErrMissingData
	case KindDecodingError:
		return ErrDecodingError
	case KindConnectionError:
		return ErrConnectionError
	case KindUnderlying:
		return ErrUnderlying
	default:
		return nil
	}
}

// NetworkError is the only error type the Service reports. StatusCode is set
// for KindInvalidServerResponseWithStatusCode, Err for the kinds that wrap a
// cause.
type NetworkError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	switch e.Kind {
	case KindInvalidServerResponseWithStatusCode:
		return fmt.Sprintf("%s %d", ErrInvalidServerResponseWithStatusCode, e.StatusCode)
	case KindDecodingError, KindConnectionError, KindUnderlying:
		return fmt.Sprintf("%s: %v", e.Kind.sentinel(), e.Err)
	case KindWrongURLFormat, KindInvalidServerResponse, KindMissingData:
		return e.Kind.sentinel().Error()
	default:
		return fmt.Sprintf("httpclient: network error (%s)", e.Kind)
	}
}

// Is reports whether target is the sentinel for this error's kind.
func (e *NetworkError) Is(target error) bool {
	sentinel := e.Kind.sentinel()

	return sentinel != nil && target == sentinel //nolint:errorlint
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func NewWrongURLFormat() *NetworkError {
	return &NetworkError{Kind: KindWrongURLFormat, StatusCode: 0, Err: nil}
}

func NewInvalidServerResponseWithStatusCode(statusCode int) *NetworkError {
	return &NetworkError{Kind: KindInvalidServerResponseWithStatusCode, StatusCode: statusCode, Err: nil}
}

func NewInvalidServerResponse() *NetworkError {
	return &NetworkError{Kind: KindInvalidServerResponse, StatusCode: 0, Err: nil}
}

func NewMissingData() *NetworkError {
	return &NetworkError{Kind: KindMissingData, StatusCode: 0, Err: nil}
}

func NewDecodingError(cause error) *NetworkError {
	return &NetworkError{Kind: KindDecodingError, StatusCode: 0, Err: cause}
}

// NewConnectionError is available to callers and transports; the Service
// itself reports every transport failure as KindUnderlying.
func NewConnectionError(cause error) *NetworkError {
	return &NetworkError{Kind: KindConnectionError, StatusCode: 0, Err: cause}
}

func NewUnderlying(cause error) *NetworkError {
	return &NetworkError{Kind: KindUnderlying, StatusCode: 0, Err: cause}
}

func AsNetworkError(err error) (*NetworkError, bool) {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr, true
	}

	return nil, false
}
