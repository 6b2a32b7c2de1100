package cart

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisPersistence, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisPersistence(client, "session1"), mr
}

func TestRedisLoad_Success(t *testing.T) {
	p, mr := setupTestRedis(t)

	lines := []Line{
		{Product: product("1", "Headphones", "99.99"), Quantity: 2},
		{Product: product("2", "Watch", "199.99"), Quantity: 3},
	}
	data, err := json.Marshal(lines)
	require.NoError(t, err)
	require.NoError(t, mr.Set(cartKey("session1"), string(data)))

	result, err := p.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "1", result[0].Product.ID)
	assert.Equal(t, 2, result[0].Quantity)
	assert.True(t, result[1].Product.Price.Equal(lines[1].Product.Price))
}

func TestRedisLoad_NoSnapshot(t *testing.T) {
	p, _ := setupTestRedis(t)

	result, err := p.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
	assert.Nil(t, result)
}

func TestRedisLoad_InvalidJSON(t *testing.T) {
	p, mr := setupTestRedis(t)

	require.NoError(t, mr.Set(cartKey("session1"), `[{"product":`))

	_, err := p.Load(context.Background())
	require.ErrorContains(t, err, "unmarshal cart failed")
}

func TestRedisSave_RoundTrip(t *testing.T) {
	p, mr := setupTestRedis(t)

	lines := []Line{{Product: product("5", "Backpack", "79.99"), Quantity: 1}}
	require.NoError(t, p.Save(context.Background(), lines))

	stored, err := mr.Get(cartKey("session1"))
	require.NoError(t, err)

	var roundTrip []Line
	require.NoError(t, json.Unmarshal([]byte(stored), &roundTrip))
	require.Len(t, roundTrip, 1)
	assert.Equal(t, "Backpack", roundTrip[0].Product.Name)
	assert.True(t, roundTrip[0].Product.Price.Equal(lines[0].Product.Price))
}

func TestRedisSave_SetsTTL(t *testing.T) {
	p, mr := setupTestRedis(t)

	require.NoError(t, p.Save(context.Background(), nil))

	ttl := mr.TTL(cartKey("session1"))
	assert.True(t, ttl >= 7*24*time.Hour, "TTL should be at least base TTL")
	assert.True(t, ttl <= 7*24*time.Hour+time.Hour, "TTL should be base + max jitter")
}

func TestRedisDelete(t *testing.T) {
	p, mr := setupTestRedis(t)

	require.NoError(t, mr.Set(cartKey("session1"), "[]"))
	require.True(t, mr.Exists(cartKey("session1")))

	require.NoError(t, p.Delete(context.Background()))
	assert.False(t, mr.Exists(cartKey("session1")))
}

func TestRedisDelete_MissingKey(t *testing.T) {
	p, _ := setupTestRedis(t)

	assert.NoError(t, p.Delete(context.Background()))
}

func TestCartKey_Format(t *testing.T) {
	assert.Equal(t, "cart:abc", cartKey("abc"))
}
