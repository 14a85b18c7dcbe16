package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/photoevents/photo-api/internal/core/domain"
)

const defaultLockTTL = 2 * time.Minute

// releaseScript deletes the lock only while it still holds our token, so an
// expired lock re-acquired by another request is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// UploadLock serializes uploads of one uploader into one event.
// Key format: upload-lock:<event_id>:<user_id>
type UploadLock struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewUploadLock creates an UploadLock. The ttl bounds how long a crashed
// request can keep the lock.
func NewUploadLock(client *redis.Client, ttl time.Duration, log zerolog.Logger) *UploadLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &UploadLock{client: client, ttl: ttl, log: log}
}

// Acquire takes the lock or fails with domain.ErrUploadInProgress.
func (l *UploadLock) Acquire(ctx context.Context, eventID, userID string) (func(), error) {
	key := lockKey(eventID, userID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("upload lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrUploadInProgress
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			l.log.Warn().Err(err).Str("key", key).Msg("failed to release upload lock")
		}
	}, nil
}

func lockKey(eventID, userID string) string {
	return fmt.Sprintf("upload-lock:%s:%s", eventID, userID)
}
