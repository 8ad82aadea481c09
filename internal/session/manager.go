package session

import (
	"context"
	"errors"
	"sync"

	"xraychat/internal/model"
)

// InitialState 新会话的输入框内容与对话记录
type InitialState func() (string, model.Transcript)

// Manager 会话管理器
// 同一会话的更新串行执行，不同会话互不阻塞
type Manager struct {
	store   Store
	initial InitialState

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewManager 创建会话管理器
func NewManager(store Store, initial InitialState) *Manager {
	return &Manager{
		store:   store,
		initial: initial,
		locks:   make(map[string]*sessionLock),
	}
}

// Get 读取会话，不存在时返回初始状态（不落盘）
func (m *Manager) Get(ctx context.Context, id string) (*model.Session, error) {
	s, err := m.store.Load(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return m.fresh(id), nil
	}
	return s, err
}

// Update 在会话锁内读取、修改并保存会话
func (m *Manager) Update(ctx context.Context, id string, fn func(s *model.Session) error) (*model.Session, error) {
	unlock := m.lock(id)
	defer unlock()

	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(s); err != nil {
		return nil, err
	}

	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Delete 删除会话
func (m *Manager) Delete(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()
	return m.store.Delete(ctx, id)
}

func (m *Manager) fresh(id string) *model.Session {
	text, transcript := m.initial()
	return &model.Session{
		ID:         id,
		Text:       text,
		Transcript: transcript,
	}
}

// lock 获取会话锁，引用计数归零时回收
func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}
