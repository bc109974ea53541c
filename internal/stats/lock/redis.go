package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockTimeout is returned when a key stays held past the wait budget.
var ErrLockTimeout = errors.New("stats lock wait timed out")

// releaseScript deletes the key only if this holder still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis serialises updates across replicas with SET NX locks. TTL bounds how
// long a crashed holder can block the key.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		client: client,
		prefix: "soukscan:stats:lock:",
		ttl:    5 * time.Second,
		wait:   3 * time.Second,
		retry:  20 * time.Millisecond,
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	fullKey := r.prefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(r.wait)

	for {
		ok, err := r.client.SetNX(ctx, fullKey, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire stats lock: %w", err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.retry):
		}
	}

	return func() {
		// Released with a fresh context so a cancelled request still frees the key.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, r.client, []string{fullKey}, token).Err()
	}, nil
}
