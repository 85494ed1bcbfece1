package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
)

// TurnLocker serialises chat and document turns on one triage request.
type TurnLocker interface {
	// Acquire takes the lock for the request. It fails with ErrConflict when
	// another turn holds it. The returned release func must be called.
	Acquire(ctx context.Context, triageRequestID uuid.UUID) (release func(), err error)
}

// NewTurnLocker returns a Redis-backed locker, or a no-op locker when client
// is nil (concurrent turns then race with last-write-wins).
func NewTurnLocker(client *redis.Client, ttl time.Duration, logger *zap.Logger) TurnLocker {
	if client == nil {
		return noopTurnLocker{}
	}
	if ttl <= 0 {
		ttl = 3 * time.Minute
	}
	return &redisTurnLocker{
		client: client,
		ttl:    ttl,
		logger: logger.Named("turn-lock"),
	}
}

type noopTurnLocker struct{}

func (noopTurnLocker) Acquire(context.Context, uuid.UUID) (func(), error) {
	return func() {}, nil
}

type redisTurnLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// releaseScript deletes the key only while it still holds our token, so an
// expired lock re-taken by another turn is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// TurnLockKey is the Redis key guarding a request's turns.
func TurnLockKey(triageRequestID uuid.UUID) string {
	return "triage:turn:" + triageRequestID.String()
}

func (l *redisTurnLocker) Acquire(ctx context.Context, triageRequestID uuid.UUID) (func(), error) {
	key := TurnLockKey(triageRequestID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, apperrors.Internal("Failed to acquire turn lock", fmt.Errorf("setnx %s: %w", key, err))
	}
	if !ok {
		return nil, apperrors.Conflict("Another message is still being processed for this request. Please wait and try again.")
	}

	release := func() {
		// The turn's ctx may already be cancelled.
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("Failed to release turn lock",
				zap.String("key", key),
				zap.Error(err))
		}
	}
	return release, nil
}
