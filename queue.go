package redstruct

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Queue is a FIFO structure: Put appends to the right of the list,
// Get pops from the left.
type Queue struct {
	base
}

// NewQueue binds a queue to the list key "<namespace>:<name>" (namespace
// defaults to "queue") and verifies the store is reachable.
func NewQueue(ctx context.Context, cmd redis.Cmdable, name string, opts ...Option) (*Queue, error) {
	b, err := newBase(ctx, cmd, KindQueue, name, opts...)
	if err != nil {
		return nil, err
	}
	return &Queue{base: b}, nil
}

func (q *Queue) Get(ctx context.Context) (any, bool, error) {
	return q.pop(ctx, left)
}

func (q *Queue) GetWait(ctx context.Context, timeout time.Duration) (any, bool, error) {
	return q.popWait(ctx, left, timeout)
}
