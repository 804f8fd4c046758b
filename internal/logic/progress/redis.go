package progress

import (
	"context"
	"fmt"
	"time"

	"defi-reader-sol/internal/types"

	"github.com/redis/go-redis/v9"
)

// Redis key 前缀
const slotPrefix = "progress:account:slot"

// 账户 slot 记录的 TTL，长期不更新的账户自然过期
const defaultTTL = 3 * 24 * time.Hour

// advanceScript 仅当新 slot 大于已记录值时写入，返回 1 表示已推进
var advanceScript = redis.NewScript(`
local cur = redis.call("GET", KEYS[1])
if cur and tonumber(cur) >= tonumber(ARGV[1]) then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return 1
`)

// RedisSlotStore 在 Redis 中按账户记录最后处理的 slot（幂等控制）
type RedisSlotStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ SlotStore = (*RedisSlotStore)(nil)

func NewRedisSlotStore(rdb *redis.Client, ttl time.Duration) *RedisSlotStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisSlotStore{rdb: rdb, ttl: ttl}
}

func (r *RedisSlotStore) getKey(address types.Pubkey) string {
	return fmt.Sprintf("%s:%s", slotPrefix, address)
}

func (r *RedisSlotStore) Advance(ctx context.Context, address types.Pubkey, slot uint64) (bool, error) {
	n, err := advanceScript.Run(ctx, r.rdb, []string{r.getKey(address)}, slot, r.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("redis advance slot error: %w", err)
	}
	return n == 1, nil
}

func (r *RedisSlotStore) LastSlot(ctx context.Context, address types.Pubkey) (uint64, bool, error) {
	slot, err := r.rdb.Get(ctx, r.getKey(address)).Uint64()
	switch {
	case err == redis.Nil:
		return 0, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("redis get error: %w", err)
	}
	return slot, true, nil
}
