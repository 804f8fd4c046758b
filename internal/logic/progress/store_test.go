package progress

import (
	"context"
	"crypto/sha256"
	"os"
	"testing"
	"time"

	"defi-reader-sol/internal/types"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(tag string) types.Pubkey {
	return types.Pubkey(sha256.Sum256([]byte(tag)))
}

func checkStore(t *testing.T, store SlotStore, addr types.Pubkey) {
	ctx := context.Background()

	_, ok, err := store.LastSlot(ctx, addr)
	require.NoError(t, err)
	assert.False(t, ok)

	steps := []struct {
		slot uint64
		want bool
	}{
		{10, true},
		{10, false},
		{9, false},
		{11, true},
	}
	for _, s := range steps {
		advanced, err := store.Advance(ctx, addr, s.slot)
		require.NoError(t, err)
		assert.Equal(t, s.want, advanced, "slot %d", s.slot)
	}

	slot, ok, err := store.LastSlot(ctx, addr)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(11), slot)
}

func TestMemorySlotStore(t *testing.T) {
	store := NewMemorySlotStore()
	checkStore(t, store, key("a"))

	// 不同账户互不影响
	advanced, err := store.Advance(context.Background(), key("b"), 1)
	require.NoError(t, err)
	assert.True(t, advanced)
}

func TestRedisSlotStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	account := key("redis-" + time.Now().Format(time.RFC3339Nano))
	store := NewRedisSlotStore(rdb, time.Minute)
	checkStore(t, store, account)
	rdb.Del(context.Background(), store.getKey(account))
}
