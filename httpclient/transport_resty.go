package httpclient

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyTransport executes requests through a resty client. Resty may add a
// Content-Type header for bodies that were sent without one. Bodies are sent
// for every method, GET included.
type RestyTransport struct {
	client *resty.Client
}

var _ Transport = (*RestyTransport)(nil)

func NewRestyTransport(timeout time.Duration) *RestyTransport {
	client := resty.New()
	client.SetTimeout(timeout)

	return NewRestyTransportWithClient(client)
}

// NewRestyTransportWithClient uses client as is, except that GET payloads are
// enabled on it.
func NewRestyTransportWithClient(client *resty.Client) *RestyTransport {
	client.SetAllowGetMethodPayload(true)

	return &RestyTransport{client: client}
}

func (t *RestyTransport) Execute(req *http.Request, completion Completion) {
	go func() {
		body, resp, err := t.roundTrip(req)
		completion(body, resp, err)
	}()
}

func (t *RestyTransport) roundTrip(req *http.Request) ([]byte, *http.Response, error) {
	restyReq := t.client.R().SetContext(req.Context())
	restyReq.Header = req.Header.Clone()

	if req.GetBody != nil {
		reader, err := req.GetBody()
		if err != nil {
			return nil, nil, fmt.Errorf("copy request body: %w", err)
		}

		bodyBytes, err := io.ReadAll(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("copy request body: %w", err)
		}

		restyReq.SetBody(bodyBytes)
	}

	resp, err := restyReq.Execute(req.Method, req.URL.String())
	if err != nil {
		return nil, nil, err
	}

	return resp.Body(), resp.RawResponse, nil
}
