package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

var errTrailingData = errors.New("httpclient: trailing data after JSON value")

type Decoder interface {
	Decode(data []byte, v any) error
}

type DecoderFunc func(data []byte, v any) error

func (f DecoderFunc) Decode(data []byte, v any) error {
	return f(data, v)
}

// JSONDecoder is the default Decoder. In strict mode unknown object fields
// and trailing values are rejected.
type JSONDecoder struct {
	Strict bool
}

var _ Decoder = JSONDecoder{} //nolint:exhaustruct

func (d JSONDecoder) Decode(data []byte, v any) error {
	if !d.Strict {
		return json.Unmarshal(data, v) //nolint:wrapcheck
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err //nolint:wrapcheck
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}

	return nil
}
