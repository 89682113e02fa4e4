package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luoxbin/nearhub-desktop/core/model"
)

func TestLogoutDispatchIsSynchronous(t *testing.T) {
	bus := New()
	var got []LogoutEvent
	require.NoError(t, bus.SubscribeLogout(func(e LogoutEvent) {
		got = append(got, e)
	}))

	bus.PublishLogout(LogoutEvent{Reason: ReasonAuth, Status: 401, Path: "/users/me"})

	// Publish 返回前订阅者已执行完毕
	require.Len(t, got, 1)
	assert.Equal(t, ReasonAuth, got[0].Reason)
	assert.Equal(t, 401, got[0].Status)
}

func TestPanickingSubscriberDoesNotBlockOthers(t *testing.T) {
	type errLog struct{ count int }
	log := &errLog{}
	bus := New(WithLogger(loggerFunc(func(string, ...any) { log.count++ })))

	secondCalled := false
	require.NoError(t, bus.SubscribeLogout(func(LogoutEvent) {
		panic("订阅者异常")
	}))
	require.NoError(t, bus.SubscribeLogout(func(LogoutEvent) {
		secondCalled = true
	}))

	assert.NotPanics(t, func() {
		bus.PublishLogout(LogoutEvent{Reason: ReasonUserRequest})
	})
	assert.True(t, secondCalled, "后续订阅者应继续执行")
	assert.Equal(t, 1, log.count, "panic 应被记录一次")
}

func TestLoginAndUIReloadTopics(t *testing.T) {
	bus := New()
	var loginUser *model.User
	reloads := 0
	require.NoError(t, bus.SubscribeLogin(func(e LoginEvent) {
		loginUser = e.User
	}))
	require.NoError(t, bus.SubscribeUIReload(func() {
		reloads++
	}))

	bus.PublishLogin(LoginEvent{User: &model.User{ID: "7", Name: "小舟"}})
	bus.PublishUIReload()
	bus.PublishUIReload()

	require.NotNil(t, loginUser)
	assert.Equal(t, "7", loginUser.ID)
	assert.Equal(t, 2, reloads)
}

type loggerFunc func(format string, args ...any)

func (f loggerFunc) Errorf(format string, args ...any) { f(format, args...) }
