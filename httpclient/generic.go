//nolint:ireturn
package httpclient

import (
	"context"
)

// Result holds the outcome of one call: Value when Err is nil, otherwise the
// zero value and a *NetworkError.
type Result[T any] struct {
	Value T
	Err   error
}

// Request executes endpoint and reports the outcome to completion exactly
// once. It returns as soon as the request has been handed to the transport.
func Request[T any](ctx context.Context, s *Service, endpoint Endpoint, completion func(Result[T])) {
	var value T

	s.do(ctx, endpoint, &value, func(err error) {
		if err != nil {
			var zero T

			completion(Result[T]{Value: zero, Err: err})

			return
		}

		completion(Result[T]{Value: value, Err: nil})
	})
}

// Fetch is the blocking form of Request. It waits for the transport without
// any timeout of its own.
func Fetch[T any](ctx context.Context, s *Service, endpoint Endpoint) (T, error) {
	resultCh := make(chan Result[T], 1)

	Request(ctx, s, endpoint, func(result Result[T]) {
		resultCh <- result
	})

	result := <-resultCh

	return result.Value, result.Err
}
