package redstruct

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Kind names the concrete variant of a Structure and doubles as its
// default namespace.
type Kind string

const (
	KindQueue Kind = "queue"
	KindStack Kind = "stack"
)

// Structure is one Redis-list-backed collection. Queue and Stack implement
// it directly; Encoded and Multi implement it by composition.
//
// Base structures store items as strings; anything else is stringified by
// the client on put. Callers needing typed items wrap the structure in an
// Encoded decorator.
type Structure interface {
	Kind() Kind

	// Size reports the store's current length for this structure.
	// Approximate under concurrent writers.
	Size(ctx context.Context) (int64, error)

	Empty(ctx context.Context) (bool, error)

	// Put appends item without blocking.
	Put(ctx context.Context, item any) error

	// Get attempts an immediate removal. The second return is false when
	// the structure is empty.
	Get(ctx context.Context) (any, bool, error)

	// GetWait removes an item, waiting up to timeout for one to appear.
	// A timeout <= 0 waits indefinitely. Returning (nil, false, nil)
	// after the wait elapses is a normal outcome, not an error.
	GetWait(ctx context.Context, timeout time.Duration) (any, bool, error)
}

type end int

const (
	left end = iota
	right
)

// base holds the store client and key shared by Queue and Stack.
// The two variants differ only in which end Get pops.
type base struct {
	cmd  redis.Cmdable
	key  string
	kind Kind
}

func newBase(ctx context.Context, cmd redis.Cmdable, kind Kind, name string, opts ...Option) (base, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return base{}, ErrInvalidName
	}

	opt := Options{Namespace: string(kind)}
	for _, fn := range opts {
		if fn != nil {
			fn(&opt)
		}
	}
	if opt.Namespace == "" {
		opt.Namespace = string(kind)
	}
	// The constructors take the name positionally; a WithName option that
	// disagrees is a caller mistake, never silently resolved either way.
	if opt.Name != "" && opt.Name != name {
		return base{}, fmt.Errorf("%w: conflicting names %q and %q", ErrConfiguration, name, opt.Name)
	}

	if err := cmd.Ping(ctx).Err(); err != nil {
		return base{}, fmt.Errorf("%w: %v", ErrConnectivity, err)
	}

	return base{cmd: cmd, key: opt.Namespace + ":" + name, kind: kind}, nil
}

func (b base) Kind() Kind { return b.kind }

// Key returns the persisted list key, "<namespace>:<name>".
func (b base) Key() string { return b.key }

func (b base) Size(ctx context.Context) (int64, error) {
	return b.cmd.LLen(ctx, b.key).Result()
}

func (b base) Empty(ctx context.Context) (bool, error) {
	n, err := b.Size(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (b base) Put(ctx context.Context, item any) error {
	return b.cmd.RPush(ctx, b.key, item).Err()
}

func (b base) pop(ctx context.Context, e end) (any, bool, error) {
	var s string
	var err error
	if e == left {
		s, err = b.cmd.LPop(ctx, b.key).Result()
	} else {
		s, err = b.cmd.RPop(ctx, b.key).Result()
	}
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

// popWait blocks with BLPOP/BRPOP for waits >= 1s (Redis blocking pops are
// seconds-resolution; the wait is rounded up to avoid truncation). For
// sub-second waits it polls with small sleeps up to the deadline.
func (b base) popWait(ctx context.Context, e end, timeout time.Duration) (any, bool, error) {
	if timeout <= 0 || timeout >= time.Second {
		wait := timeout
		if wait > 0 {
			wait = ((wait + time.Second - 1) / time.Second) * time.Second
		} else {
			wait = 0
		}
		var res []string
		var err error
		if e == left {
			res, err = b.cmd.BLPop(ctx, wait, b.key).Result()
		} else {
			res, err = b.cmd.BRPop(ctx, wait, b.key).Result()
		}
		if err == redis.Nil {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		if len(res) == 2 {
			return res[1], true, nil
		}
		return nil, false, nil
	}

	deadline := time.Now().Add(timeout)
	for {
		v, ok, err := b.pop(ctx, e)
		if err != nil || ok {
			return v, ok, err
		}
		if time.Now().After(deadline) {
			return nil, false, nil
		}

		// Sleep a bit to avoid hot-looping.
		remaining := time.Until(deadline)
		sleep := 10 * time.Millisecond
		if remaining < sleep {
			sleep = remaining
		}
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-time.After(sleep):
		}
	}
}
