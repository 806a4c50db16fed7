package redstruct

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang/snappy"
)

// Encoder is a stateless, invertible transform applied to items before
// storage and after retrieval. Decode(Encode(x)) must reproduce x's
// observable value for every representable x.
type Encoder interface {
	Encode(item any) (string, error)
	Decode(s string) (any, error)
}

// JSONEncoder serializes items as JSON text. Numbers inside composite
// values come back as float64, per encoding/json.
type JSONEncoder struct{}

func (JSONEncoder) Encode(item any) (string, error) {
	b, err := json.Marshal(item)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (JSONEncoder) Decode(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// CompressionEncoder stores items as base64-wrapped snappy-compressed JSON.
// Decode parses the decompressed text as JSON only; stored values are data,
// never evaluated.
type CompressionEncoder struct{}

func (CompressionEncoder) Encode(item any) (string, error) {
	b, err := json.Marshal(item)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(snappy.Encode(nil, b)), nil
}

func (CompressionEncoder) Decode(s string) (any, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	b, err := snappy.Decode(nil, raw)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}

var errNotString = errors.New("stored value is not a string")

// Encoded wraps a Structure with an Encoder, transforming items on the way
// in and out. Size and Empty delegate untouched. Decorators chain: wrapping
// an Encoded in another Encoded applies the outer transform first on put
// and last on get.
type Encoded struct {
	inner Structure
	enc   Encoder
}

func NewEncoded(inner Structure, enc Encoder) *Encoded {
	return &Encoded{inner: inner, enc: enc}
}

func (e *Encoded) Kind() Kind { return e.inner.Kind() }

func (e *Encoded) Size(ctx context.Context) (int64, error) { return e.inner.Size(ctx) }

func (e *Encoded) Empty(ctx context.Context) (bool, error) { return e.inner.Empty(ctx) }

// Put encodes item and delegates. On encoder failure the inner structure is
// never touched.
func (e *Encoded) Put(ctx context.Context, item any) error {
	s, err := e.enc.Encode(item)
	if err != nil {
		return &EncodeError{Item: item, Err: err}
	}
	return e.inner.Put(ctx, s)
}

func (e *Encoded) Get(ctx context.Context) (any, bool, error) {
	v, ok, err := e.inner.Get(ctx)
	if err != nil || !ok {
		return nil, ok, err
	}
	return e.decode(v)
}

func (e *Encoded) GetWait(ctx context.Context, timeout time.Duration) (any, bool, error) {
	v, ok, err := e.inner.GetWait(ctx, timeout)
	if err != nil || !ok {
		return nil, ok, err
	}
	return e.decode(v)
}

// decode runs after the pop, so a failure here means the raw value has
// already left the store and is only recoverable from DecodeError.Raw.
func (e *Encoded) decode(v any) (any, bool, error) {
	s, ok := v.(string)
	if !ok {
		return nil, false, &DecodeError{Raw: fmt.Sprint(v), Err: errNotString}
	}
	item, err := e.enc.Decode(s)
	if err != nil {
		return nil, false, &DecodeError{Raw: s, Err: err}
	}
	return item, true, nil
}
