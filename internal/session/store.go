package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"xraychat/internal/model"
	"xraychat/internal/pkg/cache"
)

// ErrNotFound 会话不存在或已过期
var ErrNotFound = errors.New("session not found")

// Store 会话状态存储
type Store interface {
	Load(ctx context.Context, id string) (*model.Session, error)
	Save(ctx context.Context, s *model.Session) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore 进程内会话存储
type MemoryStore struct {
	mu        sync.RWMutex
	ttl       time.Duration
	sessions  map[string]*model.Session
	lastSweep time.Time
}

// NewMemoryStore 创建进程内会话存储，ttl 为 0 表示不过期
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:       ttl,
		sessions:  make(map[string]*model.Session),
		lastSweep: time.Now(),
	}
}

// Load 读取会话副本
func (m *MemoryStore) Load(ctx context.Context, id string) (*model.Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if m.ttl > 0 && time.Since(s.UpdatedAt) > m.ttl {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, ErrNotFound
	}

	cp := *s
	cp.Transcript = s.Transcript.Clone()
	return &cp, nil
}

// Save 保存会话副本，每隔一个 ttl 顺带清理过期会话
func (m *MemoryStore) Save(ctx context.Context, s *model.Session) error {
	now := time.Now()
	cp := *s
	cp.Transcript = s.Transcript.Clone()
	cp.UpdatedAt = now

	m.mu.Lock()
	m.sessions[s.ID] = &cp
	if m.ttl > 0 && now.Sub(m.lastSweep) >= m.ttl {
		m.sweep(now)
	}
	m.mu.Unlock()
	return nil
}

// sweep 删除过期会话，调用方持有写锁
func (m *MemoryStore) sweep(now time.Time) {
	for id, s := range m.sessions {
		if now.Sub(s.UpdatedAt) > m.ttl {
			delete(m.sessions, id)
		}
	}
	m.lastSweep = now
}

// Delete 删除会话
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// RedisStore 基于 Redis 的会话存储，多实例部署时共享
type RedisStore struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

// NewRedisStore 创建 Redis 会话存储
func NewRedisStore(c *cache.RedisCache, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: c, ttl: ttl}
}

// Load 读取会话
func (r *RedisStore) Load(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session
	if err := r.cache.Get(ctx, cache.SessionKey(id), &s); err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Save 保存会话并刷新过期时间
func (r *RedisStore) Save(ctx context.Context, s *model.Session) error {
	s.UpdatedAt = time.Now()
	return r.cache.Set(ctx, cache.SessionKey(s.ID), s, r.ttl)
}

// Delete 删除会话
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, cache.SessionKey(id))
}
