package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPutRoundTrip(t *testing.T) {
	c := New()
	key := Key("GET", "https://api.nearhub.app/users/nearby?lat=1&lon=2&shouldReload=1")

	_, ok := c.Get(key)
	assert.False(t, ok, "空缓存不应命中")

	c.Put(key, "value", DefaultTTL)
	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, "value", got)
}

func TestExpiredEntryTreatedAsAbsent(t *testing.T) {
	now := time.Now()
	clock := &now
	c := New(WithNow(func() time.Time { return *clock }))

	c.Put("GET:/a", 1, 30*time.Second)

	later := now.Add(29 * time.Second)
	clock = &later
	_, ok := c.Get("GET:/a")
	assert.True(t, ok, "TTL 内应命中")

	expired := now.Add(31 * time.Second)
	clock = &expired
	_, ok = c.Get("GET:/a")
	assert.False(t, ok, "过期后应视为不存在")
	assert.Equal(t, 1, c.Len(), "读取不做主动淘汰")
}

func TestNegativeTTLClampedToZero(t *testing.T) {
	c := New()
	c.Put("GET:/a", 1, -time.Second)
	_, ok := c.Get("GET:/a")
	assert.False(t, ok, "负 TTL 等同立即过期")
}

func TestInvalidateAll(t *testing.T) {
	c := New()
	c.Put("GET:/a", 1, time.Minute)
	c.Put("GET:/b", 2, time.Minute)
	c.InvalidateAll()
	assert.Equal(t, 0, c.Len())
}

func TestInvalidateByFragment(t *testing.T) {
	c := New()
	c.Put(Key("GET", "https://h/users/nearby?shouldReload=1"), 1, time.Minute)
	c.Put(Key("GET", "https://h/users/me?shouldReload=1"), 2, time.Minute)
	c.Put(Key("GET", "https://h/conversations?shouldReload=1"), 3, time.Minute)

	c.InvalidateByFragment("/users")

	_, ok := c.Get(Key("GET", "https://h/users/me?shouldReload=1"))
	assert.False(t, ok)
	_, ok = c.Get(Key("GET", "https://h/conversations?shouldReload=1"))
	assert.True(t, ok, "其他资源族不受影响")
}

func TestOverwriteReplacesEntry(t *testing.T) {
	c := New()
	c.Put("GET:/a", "old", time.Minute)
	c.Put("GET:/a", "new", time.Minute)
	got, ok := c.Get("GET:/a")
	require.True(t, ok)
	assert.Equal(t, "new", got)
}
