package httpclient_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/andyle182810/netkit/httpclient"
	"github.com/andyle182810/netkit/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errConnectionReset = errors.New("connection reset by peer")

type item struct {
	ID int `json:"id"`
}

func itemEndpoint(opts ...httpclient.EndpointOption) httpclient.StaticEndpoint {
	return httpclient.NewEndpoint("https", "example.com", httpclient.MethodGet, "/api/42", opts...)
}

func TestFetch_DecodesSuccessfulResponse(t *testing.T) {
	t.Parallel()

	transport := testutil.NewStubTransport(http.StatusOK, `{"id":42}`)
	svc := httpclient.New(httpclient.WithTransport(transport))

	got, err := httpclient.Fetch[item](t.Context(), svc, itemEndpoint())

	require.NoError(t, err)
	require.Equal(t, 42, got.ID)
	require.Equal(t, 1, transport.Calls())
}

func TestFetch_NotFoundReportsStatusCode(t *testing.T) {
	t.Parallel()

	transport := testutil.NewStubTransport(http.StatusNotFound, `{}`)
	svc := httpclient.New(httpclient.WithTransport(transport))

	_, err := httpclient.Fetch[item](t.Context(), svc, itemEndpoint())

	require.ErrorIs(t, err, httpclient.ErrInvalidServerResponseWithStatusCode)

	netErr, ok := httpclient.AsNetworkError(err)
	require.True(t, ok)
	require.Equal(t, httpclient.KindInvalidServerResponseWithStatusCode, netErr.Kind)
	require.Equal(t, http.StatusNotFound, netErr.StatusCode)
}

func TestFetch_StatusOutsideSuccessRangeIgnoresBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		body       string
	}{
		{name: "informational", statusCode: 199, body: `{"id":1}`},
		{name: "redirect", statusCode: http.StatusMultipleChoices, body: `{"id":1}`},
		{name: "bad request with error payload", statusCode: http.StatusBadRequest, body: `{"message":"bad"}`},
		{name: "server error with garbage", statusCode: http.StatusInternalServerError, body: `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			decoder := &testutil.RecordingDecoder{}
			svc := httpclient.New(
				httpclient.WithTransport(testutil.NewStubTransport(tt.statusCode, tt.body)),
				httpclient.WithDecoder(decoder),
			)

			_, err := httpclient.Fetch[item](t.Context(), svc, itemEndpoint())

			netErr, ok := httpclient.AsNetworkError(err)
			require.True(t, ok)
			assert.Equal(t, httpclient.KindInvalidServerResponseWithStatusCode, netErr.Kind)
			assert.Equal(t, tt.statusCode, netErr.StatusCode)
			assert.Zero(t, decoder.Calls())
		})
	}
}

func TestFetch_SuccessRangeMatchesDirectDecoding(t *testing.T) {
	t.Parallel()

	body := `{"id":7}`

	var want item
	require.NoError(t, json.Unmarshal([]byte(body), &want))

	for _, statusCode := range []int{http.StatusOK, http.StatusCreated, http.StatusAccepted, 299} {
		transport := testutil.NewStubTransport(statusCode, body)
		svc := httpclient.New(httpclient.WithTransport(transport))

		got, err := httpclient.Fetch[item](t.Context(), svc, itemEndpoint())

		require.NoError(t, err, "status %d", statusCode)
		require.Equal(t, want, got, "status %d", statusCode)
	}
}

func TestFetch_AbsentBodyReportsMissingData(t *testing.T) {
	t.Parallel()

	transport := testutil.NewStubTransport(http.StatusOK, "")
	transport.Body = nil

	decoder := &testutil.RecordingDecoder{}
	svc := httpclient.New(httpclient.WithTransport(transport), httpclient.WithDecoder(decoder))

	_, err := httpclient.Fetch[item](t.Context(), svc, itemEndpoint())

	require.ErrorIs(t, err, httpclient.ErrMissingData)
	require.Zero(t, decoder.Calls())
}

func TestFetch_ZeroLengthBodyReportsMissingData(t *testing.T) {
	t.Parallel()

	transport := testutil.NewStubTransport(http.StatusNoContent, "")
	svc := httpclient.New(httpclient.WithTransport(transport))

	_, err := httpclient.Fetch[item](t.Context(), svc, itemEndpoint())

	require.ErrorIs(t, err, httpclient.ErrMissingData)
}

func TestFetch_IncompatibleBodyReportsDecodingError(t *testing.T) {
	t.Parallel()

	transport := testutil.NewStubTransport(http.StatusOK, `{"id":"forty-two"}`)
	svc := httpclient.New(httpclient.WithTransport(transport))

	got, err := httpclient.Fetch[item](t.Context(), svc, itemEndpoint())

	require.ErrorIs(t, err, httpclient.ErrDecodingError)
	require.Zero(t, got)

	var typeErr *json.UnmarshalTypeError
	require.ErrorAs(t, err, &typeErr)
}

func TestFetch_DecoderPanicReportsDecodingError(t *testing.T) {
	t.Parallel()

	svc := httpclient.New(
		httpclient.WithTransport(testutil.NewStubTransport(http.StatusOK, `{"id":1}`)),
		httpclient.WithDecoder(httpclient.DecoderFunc(func([]byte, any) error {
			panic("boom")
		})),
	)

	_, err := httpclient.Fetch[item](t.Context(), svc, itemEndpoint())

	require.ErrorIs(t, err, httpclient.ErrDecodingError)
	require.Contains(t, err.Error(), "boom")
}

func TestFetch_TransportFailureReportsUnderlying(t *testing.T) {
	t.Parallel()

	decoder := &testutil.RecordingDecoder{}
	svc := httpclient.New(
		httpclient.WithTransport(testutil.NewFailingTransport(errConnectionReset)),
		httpclient.WithDecoder(decoder),
	)

	_, err := httpclient.Fetch[item](t.Context(), svc, itemEndpoint())

	require.ErrorIs(t, err, httpclient.ErrUnderlying)
	require.ErrorIs(t, err, errConnectionReset)
	require.NotErrorIs(t, err, httpclient.ErrConnectionError)
	require.Zero(t, decoder.Calls())
}

func TestFetch_MissingResponseMetadataReportsInvalidServerResponse(t *testing.T) {
	t.Parallel()

	transport := testutil.NewStubTransport(0, `{"id":1}`)
	transport.NoResponse = true

	svc := httpclient.New(httpclient.WithTransport(transport))

	_, err := httpclient.Fetch[item](t.Context(), svc, itemEndpoint())

	require.ErrorIs(t, err, httpclient.ErrInvalidServerResponse)
	require.NotErrorIs(t, err, httpclient.ErrInvalidServerResponseWithStatusCode)
}

func TestFetch_WrongURLFormatNeverInvokesTransport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		scheme string
		host   string
	}{
		{name: "empty scheme", scheme: "", host: "example.com"},
		{name: "empty host", scheme: "https", host: ""},
		{name: "empty scheme and host", scheme: "", host: ""},
		{name: "invalid port", scheme: "https", host: "example.com:port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transport := testutil.NewStubTransport(http.StatusOK, `{"id":1}`)
			svc := httpclient.New(httpclient.WithTransport(transport))
			endpoint := httpclient.NewEndpoint(tt.scheme, tt.host, httpclient.MethodGet, "/api/42")

			_, err := httpclient.Fetch[item](t.Context(), svc, endpoint)

			require.ErrorIs(t, err, httpclient.ErrWrongURLFormat)
			require.Zero(t, transport.Calls())
		})
	}
}

func TestBuildRequest_AssemblesURLMethodAndBody(t *testing.T) {
	t.Parallel()

	svc := httpclient.New()
	endpoint := httpclient.NewEndpoint("https", "example.com", httpclient.MethodPost, "/api/items",
		httpclient.WithQuery("q", "a b&c"),
		httpclient.WithQuery("tag", "x"),
		httpclient.WithQuery("tag", "y"),
		httpclient.WithBody([]byte(`{"name":"widget"}`)),
	)

	req, err := svc.BuildRequest(t.Context(), endpoint)

	require.NoError(t, err)
	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, "https://example.com/api/items?q=a+b%26c&tag=x&tag=y", req.URL.String())
	require.Equal(t, []string{"x", "y"}, req.URL.Query()["tag"])

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"widget"}`, string(body))
}

func TestBuildRequest_WithoutBodyHasNoBody(t *testing.T) {
	t.Parallel()

	req, err := httpclient.New().BuildRequest(t.Context(), itemEndpoint())

	require.NoError(t, err)
	require.Nil(t, req.Body)
	require.Equal(t, "https://example.com/api/42", req.URL.String())
}

func TestBuildRequest_HeadersLastWriteWins(t *testing.T) {
	t.Parallel()

	endpoint := itemEndpoint(
		httpclient.WithHeader("a", "X"),
		httpclient.WithHeader("json", "Accept"),
		httpclient.WithHeader("b", "X"),
	)

	req, err := httpclient.New().BuildRequest(t.Context(), endpoint)

	require.NoError(t, err)
	require.Equal(t, "b", req.Header.Get("X"))
	require.Equal(t, []string{"b"}, req.Header.Values("X"))
	require.Equal(t, "json", req.Header.Get("Accept"))
}

func TestBuildRequest_HeadersAreCaseInsensitivePerField(t *testing.T) {
	t.Parallel()

	endpoint := itemEndpoint(
		httpclient.WithHeader("first", "x-trace"),
		httpclient.WithHeader("second", "X-Trace"),
	)

	req, err := httpclient.New().BuildRequest(t.Context(), endpoint)

	require.NoError(t, err)
	require.Equal(t, "second", req.Header.Get("X-Trace"))
}

func TestFetch_ForwardsHeadersToTransport(t *testing.T) {
	t.Parallel()

	transport := testutil.NewStubTransport(http.StatusOK, `{"id":1}`)
	svc := httpclient.New(httpclient.WithTransport(transport))
	requestID := testutil.RandomString(16)

	_, err := httpclient.Fetch[item](t.Context(), svc, itemEndpoint(
		httpclient.WithHeader(requestID, httpclient.HeaderXRequestID),
	))

	require.NoError(t, err)
	require.Equal(t, requestID, transport.LastRequest().Header.Get(httpclient.HeaderXRequestID))
}
