package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis not available in this environment: %v", err)
	}
	prev := client
	SetClient(goredis.NewClient(&goredis.Options{Addr: srv.Addr()}))
	t.Cleanup(func() {
		_ = client.Close()
		client = prev
		srv.Close()
	})
	return srv
}

func TestInitInvalidURL(t *testing.T) {
	err := Init("://invalid-url", "")
	assert.Error(t, err)
}

func TestInitEmptyURLDisablesCache(t *testing.T) {
	require.NoError(t, Init("", ""))
	assert.False(t, Enabled())
}

func TestInit_PingFailure(t *testing.T) {
	orig := pingClient
	t.Cleanup(func() { pingClient = orig })
	pingClient = func(context.Context, *goredis.Client) error { return assert.AnError }

	err := Init("redis://127.0.0.1:6379", "secret")
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, Enabled())
}

func TestSetClientAndBasicOpsWithUnreachableRedis(t *testing.T) {
	cli := goredis.NewClient(&goredis.Options{
		Addr:         "127.0.0.1:0", // invalid/unreachable
		DialTimeout:  50 * time.Millisecond,
		ReadTimeout:  50 * time.Millisecond,
		WriteTimeout: 50 * time.Millisecond,
	})
	SetClient(cli)
	t.Cleanup(func() { SetClient(nil) })
	assert.NotNil(t, GetClient())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.Error(t, Set(ctx, "k", "v", time.Second))
	_, err := Get(ctx, "k")
	assert.Error(t, err)
}

func TestJSONRoundTripAndMiss(t *testing.T) {
	srv := useMiniredis(t)
	ctx := context.Background()

	type payload struct {
		Price    float64 `json:"price"`
		Decimals int     `json:"decimals"`
	}

	var out payload
	assert.ErrorIs(t, GetJSON(ctx, "price:1:0xabc", &out), ErrCacheMiss)

	require.NoError(t, SetJSON(ctx, "price:1:0xabc", payload{Price: 1.5, Decimals: 6}, time.Minute))
	require.NoError(t, GetJSON(ctx, "price:1:0xabc", &out))
	assert.Equal(t, payload{Price: 1.5, Decimals: 6}, out)

	srv.FastForward(2 * time.Minute)
	assert.ErrorIs(t, GetJSON(ctx, "price:1:0xabc", &out), ErrCacheMiss)
}
