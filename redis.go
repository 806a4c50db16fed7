package redstruct

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Connect dials the store with the given connection parameters (address,
// DB index, credentials are forwarded verbatim) and verifies liveness with
// a ping. There is no built-in retry; callers retry construction if they
// want one.
func Connect(ctx context.Context, opt *redis.Options) (*redis.Client, error) {
	c := redis.NewClient(opt)
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	return c, nil
}
