// Package progress 记录每个账户最后发布的 slot，过滤重复或过期的账户更新
package progress

import (
	"context"
	"sync"

	"defi-reader-sol/internal/types"
)

type SlotStore interface {
	// Advance 当 slot 新于已记录值时记录并返回 true
	Advance(ctx context.Context, address types.Pubkey, slot uint64) (bool, error)
	LastSlot(ctx context.Context, address types.Pubkey) (uint64, bool, error)
}

// MemorySlotStore 未配置 Redis 时使用，进程重启后丢失
type MemorySlotStore struct {
	mu    sync.Mutex
	slots map[types.Pubkey]uint64
}

var _ SlotStore = (*MemorySlotStore)(nil)

func NewMemorySlotStore() *MemorySlotStore {
	return &MemorySlotStore{slots: make(map[types.Pubkey]uint64)}
}

func (m *MemorySlotStore) Advance(_ context.Context, address types.Pubkey, slot uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.slots[address]; ok && cur >= slot {
		return false, nil
	}
	m.slots[address] = slot
	return true, nil
}

func (m *MemorySlotStore) LastSlot(_ context.Context, address types.Pubkey) (uint64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[address]
	return slot, ok, nil
}
