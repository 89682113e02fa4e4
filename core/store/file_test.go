package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nearhub", "token.json")
	st, err := NewFileTokenStore(path)
	require.NoError(t, err)

	_, err = st.LoadToken()
	assert.True(t, errors.Is(err, ErrTokenNotFound), "空存储应返回 ErrTokenNotFound")

	require.NoError(t, st.SaveToken("tok-123"))
	got, err := st.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", got)

	// 覆盖写入
	require.NoError(t, st.SaveToken("tok-456"))
	got, err = st.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "tok-456", got)
}

func TestFileTokenStoreClearIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	st, err := NewFileTokenStore(path)
	require.NoError(t, err)

	require.NoError(t, st.SaveToken("tok"))
	require.NoError(t, st.ClearToken())
	require.NoError(t, st.ClearToken(), "重复 Clear 不应报错")

	_, err = st.LoadToken()
	assert.True(t, errors.Is(err, ErrTokenNotFound))
}

func TestFileTokenStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	st, err := NewFileTokenStore(path)
	require.NoError(t, err)

	_, err = st.LoadToken()
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrTokenNotFound), "损坏文件应区别于不存在")
}

func TestFileTokenStoreEmptyPathRejected(t *testing.T) {
	_, err := NewFileTokenStore("")
	assert.Error(t, err)
}

func TestMemoryTokenStore(t *testing.T) {
	st := NewMemoryTokenStore()
	_, err := st.LoadToken()
	assert.True(t, errors.Is(err, ErrTokenNotFound))

	require.NoError(t, st.SaveToken("tok"))
	got, err := st.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	require.NoError(t, st.ClearToken())
	_, err = st.LoadToken()
	assert.True(t, errors.Is(err, ErrTokenNotFound))
}
