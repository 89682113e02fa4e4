package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	coreerrors "github.com/luoxbin/nearhub-desktop/core/errors"
)

// FileTokenStore 把令牌以 JSON 形式落盘到单个文件。
// 写入先落临时文件再 rename，避免中途断电留下半个文件。
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

type tokenFile struct {
	Token string `json:"token"`
}

// NewFileTokenStore 创建文件存储，path 为目标文件完整路径。
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	if path == "" {
		return nil, coreerrors.New(coreerrors.ErrCodeInvalidArgument, "store: 令牌文件路径不能为空")
	}
	return &FileTokenStore{path: path}, nil
}

// DefaultTokenPath 返回默认的令牌文件位置（用户配置目录下）。
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", coreerrors.Wrap(coreerrors.ErrCodeInvalidConfig, "store: 无法定位用户配置目录", err)
	}
	return filepath.Join(dir, "nearhub", "token.json"), nil
}

// SaveToken 实现 TokenStore。
func (f *FileTokenStore) SaveToken(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return coreerrors.Wrap(coreerrors.ErrCodeInvalidState, "store: 创建令牌目录失败", err)
	}
	data, err := json.Marshal(tokenFile{Token: token})
	if err != nil {
		return coreerrors.Wrap(coreerrors.ErrCodeInvalidState, "store: 序列化令牌失败", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return coreerrors.Wrap(coreerrors.ErrCodeInvalidState, "store: 写入令牌文件失败", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return coreerrors.Wrap(coreerrors.ErrCodeInvalidState, "store: 替换令牌文件失败", err)
	}
	return nil
}

// LoadToken 实现 TokenStore。
func (f *FileTokenStore) LoadToken() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrTokenNotFound
		}
		return "", coreerrors.Wrap(coreerrors.ErrCodeInvalidState, "store: 读取令牌文件失败", err)
	}
	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return "", coreerrors.Wrap(coreerrors.ErrCodeInvalidState, "store: 令牌文件格式非法", err)
	}
	if tf.Token == "" {
		return "", ErrTokenNotFound
	}
	return tf.Token, nil
}

// ClearToken 实现 TokenStore，文件不存在时视为成功。
func (f *FileTokenStore) ClearToken() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return coreerrors.Wrap(coreerrors.ErrCodeInvalidState, "store: 删除令牌文件失败", err)
	}
	return nil
}
