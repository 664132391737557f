package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCounter struct {
	count int64
	calls int
	err   error
}

func (s *stubCounter) CountAvailable(context.Context) (int64, error) {
	s.calls++
	return s.count, s.err
}

func newTestCache(t *testing.T, source BoatCounter) (*CapacityCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCapacityCache(client, source, time.Minute, zap.NewNop()), mr
}

func TestCapacityCache_CachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	source := &stubCounter{count: 3}
	c, mr := newTestCache(t, source)

	n, err := c.AvailableBoatCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	source.count = 1
	n, err = c.AvailableBoatCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, 1, source.calls)

	require.NoError(t, c.Invalidate(ctx))
	n, err = c.AvailableBoatCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 2, source.calls)

	mr.FastForward(2 * time.Minute)
	source.count = 4
	n, err = c.AvailableBoatCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestCapacityCache_FallsBackWhenRedisIsDown(t *testing.T) {
	source := &stubCounter{count: 2}
	c, mr := newTestCache(t, source)
	mr.Close()

	n, err := c.AvailableBoatCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestCapacityCache_PropagatesSourceErrors(t *testing.T) {
	source := &stubCounter{err: errors.New("db down")}
	c, _ := newTestCache(t, source)

	_, err := c.AvailableBoatCount(context.Background())
	assert.Error(t, err)
}

func TestCapacityCache_IgnoresMalformedEntries(t *testing.T) {
	source := &stubCounter{count: 5}
	c, mr := newTestCache(t, source)
	require.NoError(t, mr.Set(capacityKey, "many"))

	n, err := c.AvailableBoatCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}
