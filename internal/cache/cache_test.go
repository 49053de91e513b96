package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient keeps values in a map and can be told to fail.
type fakeClient struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failErr error
	deleted []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeClient) Get(_ context.Context, key string) *redis.StringCmd {
	if f.failErr != nil {
		return redis.NewStringResult("", f.failErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeClient) Set(_ context.Context, key string, value interface{}, exp time.Duration) *redis.StatusCmd {
	if f.failErr != nil {
		return redis.NewStatusResult("", f.failErr)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.failErr != nil {
		return redis.NewIntResult(0, f.failErr)
	}
	var n int64
	for _, k := range keys {
		f.deleted = append(f.deleted, k)
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

type item struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
}

func TestRedisLists_MissThenHit(t *testing.T) {
	fc := newFakeClient()
	c := &RedisLists{rdb: fc, ttl: time.Minute}
	ctx := context.Background()

	var got []item
	ok, err := c.Get(ctx, KeyFutures, &got)
	require.NoError(t, err)
	assert.False(t, ok)

	want := []item{{ID: 2, Content: "B"}, {ID: 1, Content: "A"}}
	require.NoError(t, c.Set(ctx, KeyFutures, want))
	assert.Equal(t, time.Minute, fc.ttls[KeyFutures])

	ok, err = c.Get(ctx, KeyFutures, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestRedisLists_Invalidate(t *testing.T) {
	fc := newFakeClient()
	c := &RedisLists{rdb: fc, ttl: time.Minute}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, KeyPosts, []item{{ID: 1}}))
	require.NoError(t, c.Invalidate(ctx, KeyPosts))
	assert.Equal(t, []string{KeyPosts}, fc.deleted)

	var got []item
	ok, err := c.Get(ctx, KeyPosts, &got)
	require.NoError(t, err)
	assert.False(t, ok)

	// no keys is a no-op
	require.NoError(t, c.Invalidate(ctx))
	assert.Len(t, fc.deleted, 1)
}

func TestRedisLists_Errors(t *testing.T) {
	fc := newFakeClient()
	fc.failErr = errors.New("connection refused")
	c := &RedisLists{rdb: fc, ttl: time.Minute}
	ctx := context.Background()

	var got []item
	ok, err := c.Get(ctx, KeyPosts, &got)
	assert.False(t, ok)
	assert.ErrorIs(t, err, fc.failErr)

	assert.ErrorIs(t, c.Set(ctx, KeyPosts, []item{}), fc.failErr)
	assert.ErrorIs(t, c.Invalidate(ctx, KeyPosts), fc.failErr)
}

func TestRedisLists_CorruptValue(t *testing.T) {
	fc := newFakeClient()
	fc.data[KeyPosts] = "{not json"
	c := &RedisLists{rdb: fc, ttl: time.Minute}

	var got []item
	ok, err := c.Get(context.Background(), KeyPosts, &got)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestRedisLists_SetUnencodable(t *testing.T) {
	c := &RedisLists{rdb: newFakeClient(), ttl: time.Minute}
	assert.Error(t, c.Set(context.Background(), KeyPosts, make(chan int)))
}

func TestNop(t *testing.T) {
	var c Lists = Nop{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, KeyPosts, []item{{ID: 1}}))
	var got []item
	ok, err := c.Get(ctx, KeyPosts, &got)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	require.NoError(t, c.Invalidate(ctx, KeyPosts, KeyFutures))
}
