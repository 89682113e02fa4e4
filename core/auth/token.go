package auth

import (
	"errors"
	"sync"

	"github.com/luoxbin/nearhub-desktop/core/httpclient"
	"github.com/luoxbin/nearhub-desktop/core/store"
)

// TokenHolder 是进程内 bearer token 的唯一事实来源。
// 内存值权威；落盘为异步尽力而为，失败只记日志不上抛。
// 落盘按代际串行：被更新操作超越的写入直接跳过，
// 保证磁盘最终收敛到最后一次内存状态。
type TokenHolder struct {
	mu     sync.RWMutex
	token  string
	gen    uint64
	store  store.TokenStore
	logger httpclient.Logger
	wg     sync.WaitGroup

	// persistMu 串行化对 store 的访问，防止慢写越过后发的清除
	persistMu sync.Mutex
}

// TokenHolderOption 配置 TokenHolder。
type TokenHolderOption func(*TokenHolder)

// WithTokenLogger 注入日志。
func WithTokenLogger(logger httpclient.Logger) TokenHolderOption {
	return func(h *TokenHolder) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewTokenHolder 创建 TokenHolder，st 可为 nil（仅内存模式）。
func NewTokenHolder(st store.TokenStore, opts ...TokenHolderOption) *TokenHolder {
	h := &TokenHolder{
		store:  st,
		logger: httpclient.NopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Get 同步读取当前令牌，空串表示未登录。
func (h *TokenHolder) Get() string {
	if h == nil {
		return ""
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Set 更新内存令牌并异步持久化；空串等同于 Clear。
func (h *TokenHolder) Set(token string) {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.token = token
	h.gen++
	gen := h.gen
	h.mu.Unlock()
	h.persist(token, gen)
}

// Clear 清除内存令牌并异步删除落盘值。
func (h *TokenHolder) Clear() {
	h.Set("")
}

// LoadFromStore 读取落盘令牌并写入内存，通常仅在启动时调用一次。
// 读取失败或不存在时保持内存状态不变并返回空串。
func (h *TokenHolder) LoadFromStore() string {
	if h == nil || h.store == nil {
		return ""
	}
	token, err := h.store.LoadToken()
	if err != nil {
		if !errors.Is(err, store.ErrTokenNotFound) {
			h.logger.Errorf("auth: 读取落盘令牌失败: %v", err)
		}
		return ""
	}
	if token == "" {
		return ""
	}
	h.mu.Lock()
	h.token = token
	h.mu.Unlock()
	return token
}

// Sync 等待所有挂起的持久化完成，供进程退出前或测试使用。
func (h *TokenHolder) Sync() {
	if h == nil {
		return
	}
	h.wg.Wait()
}

func (h *TokenHolder) persist(token string, gen uint64) {
	if h.store == nil {
		return
	}
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.persistMu.Lock()
		defer h.persistMu.Unlock()
		h.mu.RLock()
		latest := h.gen
		h.mu.RUnlock()
		if gen < latest {
			// 已有更新的状态在排队，本次写入作废
			return
		}
		var err error
		if token == "" {
			err = h.store.ClearToken()
		} else {
			err = h.store.SaveToken(token)
		}
		if err != nil {
			h.logger.Errorf("auth: 令牌持久化失败: %v", err)
		}
	}()
}
