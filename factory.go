package redstruct

import (
	"context"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Factory builds structures with auto-generated names ("queue-1",
// "stack-1", ...). The per-kind counters live on the factory, not in
// package state, so naming is scoped to whoever owns the factory.
type Factory struct {
	cmd redis.Cmdable

	mu       sync.Mutex
	counters map[Kind]int
}

func NewFactory(cmd redis.Cmdable) *Factory {
	return &Factory{cmd: cmd, counters: make(map[Kind]int)}
}

func (f *Factory) nextName(kind Kind) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[kind]++
	return string(kind) + "-" + strconv.Itoa(f.counters[kind])
}

// Queue builds a queue named by WithName, or "queue-<n>" when no name is
// given.
func (f *Factory) Queue(ctx context.Context, opts ...Option) (*Queue, error) {
	return NewQueue(ctx, f.cmd, f.name(KindQueue, opts), opts...)
}

// Stack builds a stack named by WithName, or "stack-<n>" when no name is
// given.
func (f *Factory) Stack(ctx context.Context, opts ...Option) (*Stack, error) {
	return NewStack(ctx, f.cmd, f.name(KindStack, opts), opts...)
}

func (f *Factory) name(kind Kind, opts []Option) string {
	var opt Options
	for _, fn := range opts {
		if fn != nil {
			fn(&opt)
		}
	}
	if opt.Name != "" {
		return opt.Name
	}
	return f.nextName(kind)
}
