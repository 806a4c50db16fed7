package redstruct

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidName   = errors.New("redstruct: invalid structure name")
	ErrConnectivity  = errors.New("redstruct: store unreachable")
	ErrConfiguration = errors.New("redstruct: invalid configuration")
	ErrRoutingIndex  = errors.New("redstruct: bad routing index")
)

// EncodeError reports an encoder failure on put. The item never reached
// the store.
type EncodeError struct {
	Item any
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("redstruct: encode %v: %v", e.Item, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// DecodeError reports a decoder failure on get. Raw holds the stored value,
// which has already been popped from the store and cannot be recovered here.
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("redstruct: decode %q: %v", e.Raw, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
