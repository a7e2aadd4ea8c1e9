package lock

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisTTL   = 10 * time.Second
	defaultRedisRetry = 25 * time.Millisecond
)

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every process pointed at the same server. A
// held key expires after TTL so a crashed holder cannot wedge it.
type Redis struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
	Retry  time.Duration
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		Client: client,
		Prefix: "hrdesk:lock:",
		TTL:    defaultRedisTTL,
		Retry:  defaultRedisRetry,
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	fullKey := r.Prefix + key
	token := uuid.NewString()

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		acquired, err := r.Client.SetNX(ctx, fullKey, token, r.TTL).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("redis setnx: %w", err)
		}
		if acquired {
			return func() {
				if err := releaseScript.Run(context.Background(), r.Client, []string{fullKey}, token).Err(); err != nil {
					log.Printf("lock release %s: %v", key, err)
				}
			}, nil
		}

		timer := time.NewTimer(r.Retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
