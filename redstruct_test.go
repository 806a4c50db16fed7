package redstruct_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	redstruct "github.com/aura-studio/redstruct"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	s := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() {
		_ = c.Close()
		s.Close()
	})
	return s, c
}

func mustNewQueue(t *testing.T, cmd redis.Cmdable, name string, opts ...redstruct.Option) *redstruct.Queue {
	t.Helper()

	q, err := redstruct.NewQueue(context.Background(), cmd, name, opts...)
	require.NoError(t, err)
	return q
}

func mustNewStack(t *testing.T, cmd redis.Cmdable, name string, opts ...redstruct.Option) *redstruct.Stack {
	t.Helper()

	s, err := redstruct.NewStack(context.Background(), cmd, name, opts...)
	require.NoError(t, err)
	return s
}

func mustGet(t *testing.T, s redstruct.Structure) any {
	t.Helper()

	v, ok, err := s.Get(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	return v
}

func mustSize(t *testing.T, s redstruct.Structure) int64 {
	t.Helper()

	n, err := s.Size(context.Background())
	require.NoError(t, err)
	return n
}

func TestConnect(t *testing.T) {
	s := miniredis.RunT(t)
	ctx := context.Background()

	c, err := redstruct.Connect(ctx, &redis.Options{Addr: s.Addr()})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	// Nothing listens on port 1; construction must surface ErrConnectivity
	// rather than hand back a dead client.
	_, err = redstruct.Connect(ctx, &redis.Options{Addr: "127.0.0.1:1"})
	require.ErrorIs(t, err, redstruct.ErrConnectivity)
}

func TestNewQueue_InvalidName(t *testing.T) {
	_, c := newTestRedis(t)
	ctx := context.Background()

	_, err := redstruct.NewQueue(ctx, c, "")
	require.ErrorIs(t, err, redstruct.ErrInvalidName)

	_, err = redstruct.NewQueue(ctx, c, "   ")
	require.ErrorIs(t, err, redstruct.ErrInvalidName)

	_, err = redstruct.NewStack(ctx, c, "")
	require.ErrorIs(t, err, redstruct.ErrInvalidName)
}

// TestNewQueue_ConflictingName: the positional name wins the API, so a
// WithName option that disagrees with it is rejected rather than ignored.
func TestNewQueue_ConflictingName(t *testing.T) {
	_, c := newTestRedis(t)
	ctx := context.Background()

	_, err := redstruct.NewQueue(ctx, c, "a", redstruct.WithName("b"))
	require.ErrorIs(t, err, redstruct.ErrConfiguration)

	_, err = redstruct.NewStack(ctx, c, "a", redstruct.WithName("b"))
	require.ErrorIs(t, err, redstruct.ErrConfiguration)

	// A matching WithName is harmless; the Factory forwards one.
	q, err := redstruct.NewQueue(ctx, c, "a", redstruct.WithName("a"))
	require.NoError(t, err)
	require.Equal(t, "queue:a", q.Key())
}

func TestNewQueue_StoreDown(t *testing.T) {
	c := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = c.Close() })

	_, err := redstruct.NewQueue(context.Background(), c, "q1")
	require.ErrorIs(t, err, redstruct.ErrConnectivity)
}

// TestQueue_Scenario walks the canonical put/get/size sequence on the
// default "queue" namespace.
func TestQueue_Scenario(t *testing.T) {
	_, c := newTestRedis(t)
	ctx := context.Background()

	q := mustNewQueue(t, c, "t1")
	require.Equal(t, "queue:t1", q.Key())

	require.NoError(t, q.Put(ctx, "x"))
	require.NoError(t, q.Put(ctx, "y"))
	require.EqualValues(t, 2, mustSize(t, q))

	require.Equal(t, "x", mustGet(t, q))
	require.EqualValues(t, 1, mustSize(t, q))

	require.Equal(t, "y", mustGet(t, q))

	empty, err := q.Empty(ctx)
	require.NoError(t, err)
	require.True(t, empty)
}

func TestFactory_AutoNames(t *testing.T) {
	_, c := newTestRedis(t)
	ctx := context.Background()
	f := redstruct.NewFactory(c)

	q1, err := f.Queue(ctx)
	require.NoError(t, err)
	require.Equal(t, "queue:queue-1", q1.Key())

	q2, err := f.Queue(ctx)
	require.NoError(t, err)
	require.Equal(t, "queue:queue-2", q2.Key())

	// Counters are per kind, so the first stack starts at 1.
	s1, err := f.Stack(ctx)
	require.NoError(t, err)
	require.Equal(t, "stack:stack-1", s1.Key())

	named, err := f.Queue(ctx, redstruct.WithName("jobs"), redstruct.WithNamespace("work"))
	require.NoError(t, err)
	require.Equal(t, "work:jobs", named.Key())

	// An explicit name must not advance the counter.
	q3, err := f.Queue(ctx)
	require.NoError(t, err)
	require.Equal(t, "queue:queue-3", q3.Key())
}
