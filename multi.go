package redstruct

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// HashFunc maps an item's string form to a 32-bit routing hash.
type HashFunc func(s string) uint32

func defaultHash(s string) uint32 {
	return uint32(xxhash.Sum64String(s))
}

type multiOptions struct {
	preserve bool
	hash     HashFunc
}

type MultiOption func(*multiOptions)

// WithPreserveOrder enables order-preserving mode. The first structure
// passed to NewMulti is consumed as the order structure; the rest are data
// children and must share one kind.
func WithPreserveOrder() MultiOption {
	return func(o *multiOptions) { o.preserve = true }
}

// WithHash replaces the default xxhash routing function.
func WithHash(fn HashFunc) MultiOption {
	return func(o *multiOptions) {
		if fn != nil {
			o.hash = fn
		}
	}
}

// Multi composes several same-kind structures behind the Structure
// interface.
//
// In load-balancing mode (the default) Put routes by item hash while Get
// pops a uniformly random child. The two routes are independent, so
// per-item FIFO/LIFO ordering is not guaranteed; only the aggregate size
// accounting is. Use WithPreserveOrder when ordering matters.
//
// In preserving mode every Put records the target child index in the order
// structure before writing the payload, and Get replays those records. The
// two writes are not atomic as a pair: a crash between them can leave a
// routing record with no payload (or, on the read side, a payload whose
// record was already consumed).
type Multi struct {
	children []Structure
	order    Structure
	kind     Kind
	hash     HashFunc
}

// NewMulti builds a composite over structures. Load-balancing mode needs at
// least 2 structures; preserving mode needs at least 3 (one order structure
// plus at least 2 data children).
func NewMulti(structures []Structure, opts ...MultiOption) (*Multi, error) {
	o := multiOptions{hash: defaultHash}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	for i, s := range structures {
		if s == nil {
			return nil, fmt.Errorf("%w: structure %d is nil", ErrConfiguration, i)
		}
	}

	m := &Multi{hash: o.hash}
	if o.preserve {
		if len(structures) < 3 {
			return nil, fmt.Errorf("%w: preserving mode needs an order structure and at least 2 children, got %d structures", ErrConfiguration, len(structures))
		}
		m.order = structures[0]
		m.children = structures[1:]
		m.kind = m.children[0].Kind()
		for _, c := range m.children[1:] {
			if c.Kind() != m.kind {
				return nil, fmt.Errorf("%w: mixed child kinds %q and %q", ErrConfiguration, m.kind, c.Kind())
			}
		}
	} else {
		if len(structures) < 2 {
			return nil, fmt.Errorf("%w: need at least 2 children, got %d", ErrConfiguration, len(structures))
		}
		m.children = structures
		m.kind = m.children[0].Kind()
	}
	return m, nil
}

func (m *Multi) Kind() Kind { return m.kind }

// Size sums the data children. Order-structure entries are routing
// metadata, not payload, and are never counted.
func (m *Multi) Size(ctx context.Context) (int64, error) {
	var total int64
	for _, c := range m.children {
		n, err := c.Size(ctx)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (m *Multi) Empty(ctx context.Context) (bool, error) {
	n, err := m.Size(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Put routes item to children[hash(item) % len(children)]. In preserving
// mode the routing record is written first; the pair is not atomic.
func (m *Multi) Put(ctx context.Context, item any) error {
	idx := int(m.hash(stringForm(item)) % uint32(len(m.children)))
	if m.order != nil {
		if err := m.order.Put(ctx, strconv.Itoa(idx)); err != nil {
			return err
		}
	}
	return m.children[idx].Put(ctx, item)
}

func (m *Multi) Get(ctx context.Context) (any, bool, error) {
	if m.order == nil {
		return m.children[rand.Intn(len(m.children))].Get(ctx)
	}
	v, ok, err := m.order.Get(ctx)
	if err != nil || !ok {
		return nil, false, err
	}
	idx, err := m.parseIndex(v)
	if err != nil {
		return nil, false, err
	}
	return m.children[idx].Get(ctx)
}

func (m *Multi) GetWait(ctx context.Context, timeout time.Duration) (any, bool, error) {
	if m.order == nil {
		return m.children[rand.Intn(len(m.children))].GetWait(ctx, timeout)
	}
	v, ok, err := m.order.GetWait(ctx, timeout)
	if err != nil || !ok {
		return nil, false, err
	}
	idx, err := m.parseIndex(v)
	if err != nil {
		return nil, false, err
	}
	return m.children[idx].GetWait(ctx, timeout)
}

// parseIndex turns an order-structure payload back into a child index.
// Anything non-numeric or out of range is an invariant violation, never
// clamped.
func (m *Multi) parseIndex(v any) (int, error) {
	s, _ := v.(string)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrRoutingIndex, s)
	}
	if n < 0 || n >= len(m.children) {
		return 0, fmt.Errorf("%w: %d with %d children", ErrRoutingIndex, n, len(m.children))
	}
	return n, nil
}

func stringForm(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
