// Package cache 提供请求管线使用的进程内响应缓存。
// 缓存仅是优化手段，所有操作都不会返回错误；过期条目等同不存在。
package cache

import (
	"strings"
	"sync"
	"time"
)

// DefaultTTL 为未显式指定时的条目存活时长。
const DefaultTTL = 30 * time.Second

// Key 由方法与完整 URL（含查询串）组成缓存键。
func Key(method, url string) string {
	return method + ":" + url
}

type entry struct {
	value     any
	expiresAt time.Time
}

// ResponseCache 按 方法:URL 维度缓存幂等 GET 的响应。
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// Option 配置缓存。
type Option func(*ResponseCache)

// WithNow 替换时间来源，便于测试过期逻辑。
func WithNow(now func() time.Time) Option {
	return func(c *ResponseCache) {
		if now != nil {
			c.now = now
		}
	}
}

// New 创建空缓存。
func New(opts ...Option) *ResponseCache {
	c := &ResponseCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Get 返回未过期的缓存值。读取不做主动淘汰，但绝不返回过期值。
func (c *ResponseCache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Put 整体覆盖写入，过期时间为 now + max(0, ttl)。
func (c *ResponseCache) Put(key string, value any, ttl time.Duration) {
	if c == nil {
		return
	}
	if ttl < 0 {
		ttl = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
}

// InvalidateAll 清空全部条目。登出、应用回前台、服务端刷新信号时调用。
func (c *ResponseCache) InvalidateAll() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// InvalidateByFragment 删除键中包含指定子串的条目，
// 用于写操作后只失效一个资源族而非全量清空。
func (c *ResponseCache) InvalidateByFragment(fragment string) {
	if c == nil || fragment == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.Contains(key, fragment) {
			delete(c.entries, key)
		}
	}
}

// Len 返回当前条目数（含已过期未淘汰的），仅用于观测。
func (c *ResponseCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
