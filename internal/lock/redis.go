package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v7"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const keyPrefix = "voucherbot:lock:"

// releaseScript deletes the key only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every bot worker talking to the same Redis
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
	logger *zap.Logger
}

// NewRedis creates a distributed locker. ttl bounds how long a crashed worker can hold a chat.
func NewRedis(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Redis {
	return &Redis{
		client: client,
		ttl:    ttl,
		retry:  50 * time.Millisecond,
		logger: logger,
	}
}

// Lock polls SET NX until the chat key is ours or ctx is done
func (r *Redis) Lock(ctx context.Context, chatID int64) (func(), error) {
	key := fmt.Sprintf("%s%d", keyPrefix, chatID)
	token := uuid.NewString()
	client := r.client.WithContext(ctx)

	for {
		ok, err := client.SetNX(key, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock for chat %d: %w", chatID, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.retry):
		}
	}

	return func() {
		// the update context may already be cancelled
		if err := releaseScript.Run(r.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
			r.logger.Warn("Failed to release chat lock", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}, nil
}
