package redstruct

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Handler processes one item taken from a structure. A nil return consumes
// the item; an error puts it back at the structure's tail (best effort, so
// an item can be lost if the process dies between the pop and the re-put).
type Handler func(ctx context.Context, s Structure, item any) error

type PoolOption func(*Pool)

func WithWorkers(n int) PoolOption {
	return func(p *Pool) { p.workers = n }
}

// WithPollInterval bounds each worker's blocking wait per structure. It is
// also the upper bound on how long Stop waits for an idle worker.
func WithPollInterval(d time.Duration) PoolOption {
	return func(p *Pool) { p.pollInterval = d }
}

// Pool drains a fixed set of structures with a group of worker goroutines.
// Each worker walks the structures round-robin, waiting up to the poll
// interval on each before moving on.
type Pool struct {
	structures   []Structure
	handler      Handler
	workers      int
	pollInterval time.Duration

	processed atomic.Int64

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewPool(structures []Structure, handler Handler, opts ...PoolOption) (*Pool, error) {
	if len(structures) == 0 {
		return nil, fmt.Errorf("%w: pool needs at least 1 structure", ErrConfiguration)
	}
	for i, s := range structures {
		if s == nil {
			return nil, fmt.Errorf("%w: structure %d is nil", ErrConfiguration, i)
		}
	}
	if handler == nil {
		return nil, fmt.Errorf("%w: nil handler", ErrConfiguration)
	}

	p := &Pool{
		structures:   structures,
		handler:      handler,
		workers:      4,
		pollInterval: 500 * time.Millisecond,
		stopCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.workers < 1 {
		p.workers = 1
	}
	if p.pollInterval <= 0 {
		p.pollInterval = 500 * time.Millisecond
	}
	return p, nil
}

func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Stop halts the workers and waits for in-flight handlers to return.
// Safe to call more than once.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	p.wg.Wait()
}

// Processed reports how many items handlers have consumed since Start.
func (p *Pool) Processed() int64 {
	return p.processed.Load()
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for i := id; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		default:
		}

		s := p.structures[i%len(p.structures)]
		item, ok, err := s.GetWait(ctx, p.pollInterval)
		if err != nil {
			// Store errors back off for one interval rather than hot-loop.
			select {
			case <-ctx.Done():
				return
			case <-p.stopCh:
				return
			case <-time.After(p.pollInterval):
			}
			continue
		}
		if !ok {
			continue
		}

		if err := p.handler(ctx, s, item); err != nil {
			_ = s.Put(ctx, item)
			continue
		}
		p.processed.Add(1)
	}
}
