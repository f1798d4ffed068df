package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andyle182810/netkit/cmd/netfetch/internal/config"
	"github.com/andyle182810/netkit/httpclient"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	errInvalidHeader = errors.New("header must look like 'Field: Value'")
	errInvalidQuery  = errors.New("query item must look like 'name=value'")
)

type outcome struct {
	path string
	body json.RawMessage
	err  error
}

func newService(cfg *config.Config, logger zerolog.Logger) *httpclient.Service {
	var transport httpclient.Transport

	switch cfg.Transport {
	case "resty":
		transport = httpclient.NewRestyTransport(cfg.Timeout)
	default:
		transport = httpclient.NewHTTPTransport(
			httpclient.WithTimeout(cfg.Timeout),
			httpclient.WithMaxResponseSize(cfg.MaxResponseSize),
		)
	}

	return httpclient.New(
		httpclient.WithTransport(transport),
		httpclient.WithDecoder(httpclient.JSONDecoder{Strict: cfg.StrictDecoding}),
		httpclient.WithLogger(logger),
		httpclient.WithDebug(cfg.Debug),
	)
}

// endpoints builds one endpoint per path. The generated X-Request-ID and the
// JSON Content-Type go ahead of the user's headers, so -H can override both.
func (c cli) endpoints() ([]httpclient.StaticEndpoint, error) {
	method, err := httpclient.ParseMethod(c.Method)
	if err != nil {
		return nil, err
	}

	shared := make([]httpclient.EndpointOption, 0, len(c.Header)+len(c.Query)+2)

	if c.Data != "" {
		shared = append(shared,
			httpclient.WithHeader(httpclient.ContentTypeJSON, httpclient.HeaderContentType),
			httpclient.WithBody([]byte(c.Data)),
		)
	}

	for _, raw := range c.Header {
		field, value, found := strings.Cut(raw, ":")
		if !found || strings.TrimSpace(field) == "" {
			return nil, fmt.Errorf("%w: %q", errInvalidHeader, raw)
		}

		shared = append(shared, httpclient.WithHeader(strings.TrimSpace(value), strings.TrimSpace(field)))
	}

	for _, raw := range c.Query {
		name, value, found := strings.Cut(raw, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("%w: %q", errInvalidQuery, raw)
		}

		shared = append(shared, httpclient.WithQuery(name, value))
	}

	endpoints := make([]httpclient.StaticEndpoint, 0, len(c.Paths))

	for _, path := range c.Paths {
		opts := append([]httpclient.EndpointOption{
			httpclient.WithHeader(uuid.NewString(), httpclient.HeaderXRequestID),
		}, shared...)

		endpoints = append(endpoints, httpclient.NewEndpoint(c.Scheme, c.Host, method, path, opts...))
	}

	return endpoints, nil
}

// fetchAll runs every endpoint through the one shared service, at most limit
// at a time, and returns outcomes in input order.
func fetchAll(
	ctx context.Context,
	svc *httpclient.Service,
	endpoints []httpclient.StaticEndpoint,
	limit int,
) []outcome {
	outcomes := make([]outcome, len(endpoints))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(limit)

	for idx, endpoint := range endpoints {
		group.Go(func() error {
			body, err := httpclient.Fetch[json.RawMessage](groupCtx, svc, endpoint)
			outcomes[idx] = outcome{path: endpoint.Path(), body: body, err: err}

			return nil
		})
	}

	_ = group.Wait()

	return outcomes
}

// report prints successes to out and failures to errOut. It returns false
// when any fetch failed.
func report(out, errOut io.Writer, outcomes []outcome, indent bool) bool {
	ok := true

	for _, result := range outcomes {
		if result.err != nil {
			ok = false

			fmt.Fprintf(errOut, "netfetch: %s: %v\n", result.path, result.err)

			continue
		}

		body := []byte(result.body)

		if indent {
			var buf bytes.Buffer
			if err := json.Indent(&buf, body, "", "  "); err == nil {
				body = buf.Bytes()
			}
		}

		if len(outcomes) > 1 {
			fmt.Fprintf(out, "%s: ", result.path)
		}

		fmt.Fprintf(out, "%s\n", body)
	}

	return ok
}
