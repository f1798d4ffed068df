package httpclient

import "slices"

// Header is a single header assignment. Order matters and fields may repeat.
type Header struct {
	Value string
	Field string
}

type QueryItem struct {
	Name  string
	Value string
}

// Endpoint describes everything needed to build one request. The Service
// only reads it.
type Endpoint interface {
	Scheme() string
	Host() string
	Method() Method
	Path() string
	Headers() []Header
	QueryItems() []QueryItem
	// Body returns nil when the request carries no body.
	Body() []byte
}

// StaticEndpoint is a plain value implementation of Endpoint.
type StaticEndpoint struct {
	scheme  string
	host    string
	method  Method
	path    string
	headers []Header
	query   []QueryItem
	body    []byte
}

var _ Endpoint = StaticEndpoint{} //nolint:exhaustruct

type EndpointOption func(*StaticEndpoint)

func NewEndpoint(scheme, host string, method Method, path string, opts ...EndpointOption) StaticEndpoint {
	endpoint := StaticEndpoint{
		scheme:  scheme,
		host:    host,
		method:  method,
		path:    path,
		headers: nil,
		query:   nil,
		body:    nil,
	}

	for _, opt := range opts {
		opt(&endpoint)
	}

	return endpoint
}

func WithHeader(value, field string) EndpointOption {
	return func(e *StaticEndpoint) {
		e.headers = append(e.headers, Header{Value: value, Field: field})
	}
}

func WithQuery(name, value string) EndpointOption {
	return func(e *StaticEndpoint) {
		e.query = append(e.query, QueryItem{Name: name, Value: value})
	}
}

func WithBody(body []byte) EndpointOption {
	return func(e *StaticEndpoint) {
		e.body = body
	}
}

func (e StaticEndpoint) Scheme() string { return e.scheme }
func (e StaticEndpoint) Host() string   { return e.host }
func (e StaticEndpoint) Method() Method { return e.method }
func (e StaticEndpoint) Path() string   { return e.path }

func (e StaticEndpoint) Headers() []Header {
	return slices.Clone(e.headers)
}

func (e StaticEndpoint) QueryItems() []QueryItem {
	return slices.Clone(e.query)
}

func (e StaticEndpoint) Body() []byte {
	return e.body
}
