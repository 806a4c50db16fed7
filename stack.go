package redstruct

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stack is a LIFO structure: Put appends to the right of the list,
// Get pops from the right.
type Stack struct {
	base
}

// NewStack binds a stack to the list key "<namespace>:<name>" (namespace
// defaults to "stack") and verifies the store is reachable.
func NewStack(ctx context.Context, cmd redis.Cmdable, name string, opts ...Option) (*Stack, error) {
	b, err := newBase(ctx, cmd, KindStack, name, opts...)
	if err != nil {
		return nil, err
	}
	return &Stack{base: b}, nil
}

func (s *Stack) Get(ctx context.Context) (any, bool, error) {
	return s.pop(ctx, right)
}

func (s *Stack) GetWait(ctx context.Context, timeout time.Duration) (any, bool, error) {
	return s.popWait(ctx, right, timeout)
}
