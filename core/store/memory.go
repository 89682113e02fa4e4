package store

import "sync"

// MemoryTokenStore 是进程内的 TokenStore 实现，主要用于测试与 Native 端兜底。
type MemoryTokenStore struct {
	mu       sync.RWMutex
	token    string
	hasToken bool
}

// NewMemoryTokenStore 创建内存存储。
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// SaveToken 实现 TokenStore。
func (m *MemoryTokenStore) SaveToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.hasToken = true
	return nil
}

// LoadToken 实现 TokenStore。
func (m *MemoryTokenStore) LoadToken() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.hasToken {
		return "", ErrTokenNotFound
	}
	return m.token, nil
}

// ClearToken 实现 TokenStore，可重复调用。
func (m *MemoryTokenStore) ClearToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.hasToken = false
	return nil
}
