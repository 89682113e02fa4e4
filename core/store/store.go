package store

import coreerrors "github.com/luoxbin/nearhub-desktop/core/errors"

// ErrTokenNotFound 用于标记存储中不存在令牌。
var ErrTokenNotFound = coreerrors.New(coreerrors.ErrCodeNotFound, "store: 未找到令牌")

// TokenStore 抽象 bearer token 的持久化。
// 实现必须容忍重复 Clear；Load 在无令牌时返回 ErrTokenNotFound。
type TokenStore interface {
	SaveToken(token string) error
	LoadToken() (string, error)
	ClearToken() error
}
