package cache

import (
	"sync"
	"time"
)

// Store 抽象带 TTL 的键值缓存，供地理位置缓存与访问去重共用。
// 实现允许竞态下的近似语义：重复计算或多记一次均可接受。
type Store interface {
	// Has 返回键是否存在且未过期。
	Has(key string) bool
	// Put 写入键值并设置过期时间。
	Put(key string, value any, ttl time.Duration)
	// Remember 返回缓存值；未命中时执行 compute 并缓存其结果。
	Remember(key string, ttl time.Duration, compute func() (any, error)) (any, error)
	// Forget 删除键。
	Forget(key string)
}

type entry struct {
	value     any
	expiresAt time.Time
}

// MemoryStore 是 Store 的进程内实现，后台协程周期性清理过期键。
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	nowFn   func() time.Time
}

// NewMemoryStore 创建 MemoryStore 并启动清理协程。
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]entry),
		nowFn:   time.Now,
	}
	go s.janitor(10 * time.Minute)
	return s
}

// newMemoryStoreForTest 返回不带清理协程的实例，测试中可注入时钟。
func newMemoryStoreForTest(nowFn func() time.Time) *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry), nowFn: nowFn}
}

func (s *MemoryStore) janitor(interval time.Duration) {
	for {
		time.Sleep(interval)
		now := s.nowFn()
		s.mu.Lock()
		for key, e := range s.entries {
			if now.After(e.expiresAt) {
				delete(s.entries, key)
			}
		}
		s.mu.Unlock()
	}
}

// Has 返回键是否存在且未过期。
func (s *MemoryStore) Has(key string) bool {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return false
	}
	if s.nowFn().After(e.expiresAt) {
		s.Forget(key)
		return false
	}
	return true
}

// Put 写入键值并设置过期时间。
func (s *MemoryStore) Put(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: s.nowFn().Add(ttl)}
	s.mu.Unlock()
}

// Get 返回键对应的值，过期或不存在时 ok 为 false。
func (s *MemoryStore) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || s.nowFn().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Remember 返回缓存值；未命中时执行 compute 并以相同 TTL 缓存其结果。
// compute 返回错误时不缓存，错误原样上抛。
func (s *MemoryStore) Remember(key string, ttl time.Duration, compute func() (any, error)) (any, error) {
	if value, ok := s.Get(key); ok {
		return value, nil
	}

	value, err := compute()
	if err != nil {
		return nil, err
	}

	s.Put(key, value, ttl)
	return value, nil
}

// Forget 删除键。
func (s *MemoryStore) Forget(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}
