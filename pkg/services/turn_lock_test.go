package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
)

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisTurnLocker_SerialisesTurns(t *testing.T) {
	mr, client := newMiniredisClient(t)
	locker := NewTurnLocker(client, time.Minute, zap.NewNop())
	ctx := context.Background()
	id := uuid.New()

	release, err := locker.Acquire(ctx, id)
	require.NoError(t, err)
	assert.True(t, mr.Exists(TurnLockKey(id)))

	_, err = locker.Acquire(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	other, err := locker.Acquire(ctx, uuid.New())
	require.NoError(t, err)
	other()

	release()
	assert.False(t, mr.Exists(TurnLockKey(id)))

	again, err := locker.Acquire(ctx, id)
	require.NoError(t, err)
	again()
}

func TestRedisTurnLocker_ExpiredLockIsNotStolenBack(t *testing.T) {
	mr, client := newMiniredisClient(t)
	locker := NewTurnLocker(client, time.Second, zap.NewNop())
	ctx := context.Background()
	id := uuid.New()

	staleRelease, err := locker.Acquire(ctx, id)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	freshRelease, err := locker.Acquire(ctx, id)
	require.NoError(t, err)

	staleRelease()
	assert.True(t, mr.Exists(TurnLockKey(id)), "stale release must not drop the new holder's lock")

	freshRelease()
	assert.False(t, mr.Exists(TurnLockKey(id)))
}

func TestNewTurnLocker_NilClientIsNoop(t *testing.T) {
	locker := NewTurnLocker(nil, 0, zap.NewNop())
	id := uuid.New()

	r1, err := locker.Acquire(context.Background(), id)
	require.NoError(t, err)
	r2, err := locker.Acquire(context.Background(), id)
	require.NoError(t, err)
	r1()
	r2()
}

func TestRedisTurnLocker_RedisDown(t *testing.T) {
	mr, client := newMiniredisClient(t)
	locker := NewTurnLocker(client, time.Minute, zap.NewNop())
	mr.Close()

	_, err := locker.Acquire(context.Background(), uuid.New())

	assert.ErrorIs(t, err, apperrors.ErrInternal)
}
