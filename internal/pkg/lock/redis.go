package lock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
)

type tokenGenerator interface {
	Generate() string
}

// releaseScript deletes the key only when the stored token matches, so a
// lock that expired and was re-acquired by another owner is never released
// by the previous holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const (
	defaultRetryBackoff = 50 * time.Millisecond
	defaultMaxRetries   = 4
)

// RedisLocker implements Locker with a SETNX lock and a compare-and-delete
// release. Acquisition retries a few times with constant backoff, then fails
// fast with ErrNotAcquired; the TTL bounds how long a crashed holder can
// wedge an account.
type RedisLocker struct {
	client *redis.Client
	prefix string
	token  tokenGenerator
}

// NewRedisLocker constructs a RedisLocker. token generates unique owner
// tokens (a UUID generator is fine).
func NewRedisLocker(client *redis.Client, token tokenGenerator) *RedisLocker {
	return &RedisLocker{
		client: client,
		prefix: "lock:",
		token:  token,
	}
}

// Acquire takes the lock for key with the given TTL.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := l.token.Generate()

	backoff := retry.WithMaxRetries(defaultMaxRetries, retry.NewConstant(defaultRetryBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		ok, err := l.client.SetNX(ctx, l.prefix+key, token, ttl).Result()
		if err != nil {
			return err
		}
		if !ok {
			return retry.RetryableError(ErrNotAcquired)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// Release frees the lock when token still owns it. Releasing a lock that
// already expired is not an error.
func (l *RedisLocker) Release(ctx context.Context, key, token string) error {
	return releaseScript.Run(ctx, l.client, []string{l.prefix + key}, token).Err()
}
