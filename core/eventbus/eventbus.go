package eventbus

import (
	evbus "github.com/asaskevich/EventBus"

	"github.com/luoxbin/nearhub-desktop/core/model"
)

// 核心层与外围 UI 的全部集成点：三个主题，载荷均为强类型结构体。
const (
	// TopicAuthLogout 在会话被判定失效或用户主动登出时发布。
	TopicAuthLogout = "auth:logout"
	// TopicAuthLogin 在登录、注册成功后发布。
	TopicAuthLogin = "auth:login"
	// TopicUIReload 在服务端下发整体刷新信号时发布。
	TopicUIReload = "ui:reload"
)

// LogoutReason 标记登出的触发原因。
type LogoutReason string

const (
	// ReasonAuth 表示凭证失效（401、AUTH_* 错误码等）。
	ReasonAuth LogoutReason = "AUTH"
	// ReasonUserNotFound 表示服务端已不存在该账号。
	ReasonUserNotFound LogoutReason = "USER_NOT_FOUND"
	// ReasonUserRequest 表示用户主动登出。
	ReasonUserRequest LogoutReason = "USER_REQUEST"
)

// LogoutEvent 是 auth:logout 的载荷，携带可观测所需的上下文。
type LogoutEvent struct {
	Reason LogoutReason
	Status int
	Code   string
	Path   string
}

// LoginEvent 是 auth:login 的载荷。
type LoginEvent struct {
	User *model.User
}

// Logger 由外部注入，用于记录订阅者异常。
type Logger interface {
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Errorf(string, ...any) {}

// Bus 在 EventBus 之上提供类型安全的发布订阅入口。
// 发布为同步调用：Publish 返回前会依次执行所有当前订阅者；
// 单个订阅者 panic 会被捕获记录，不影响其余订阅者。
type Bus struct {
	bus    evbus.Bus
	logger Logger
}

// Option 配置 Bus。
type Option func(*Bus)

// WithLogger 注入日志。
func WithLogger(logger Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New 创建同步事件总线。
func New(opts ...Option) *Bus {
	b := &Bus{
		bus:    evbus.New(),
		logger: nopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// PublishLogout 发布 auth:logout。
func (b *Bus) PublishLogout(event LogoutEvent) {
	if b == nil {
		return
	}
	b.bus.Publish(TopicAuthLogout, event)
}

// PublishLogin 发布 auth:login。
func (b *Bus) PublishLogin(event LoginEvent) {
	if b == nil {
		return
	}
	b.bus.Publish(TopicAuthLogin, event)
}

// PublishUIReload 发布 ui:reload。
func (b *Bus) PublishUIReload() {
	if b == nil {
		return
	}
	b.bus.Publish(TopicUIReload)
}

// SubscribeLogout 订阅 auth:logout。
func (b *Bus) SubscribeLogout(fn func(LogoutEvent)) error {
	return b.bus.Subscribe(TopicAuthLogout, guard(b, TopicAuthLogout, fn))
}

// SubscribeLogin 订阅 auth:login。
func (b *Bus) SubscribeLogin(fn func(LoginEvent)) error {
	return b.bus.Subscribe(TopicAuthLogin, guard(b, TopicAuthLogin, fn))
}

// SubscribeUIReload 订阅 ui:reload。
func (b *Bus) SubscribeUIReload(fn func()) error {
	return b.bus.Subscribe(TopicUIReload, func() {
		defer b.recoverSubscriber(TopicUIReload)
		fn()
	})
}

// guard 包装带单参数载荷的订阅者，隔离 panic。
func guard[T any](b *Bus, topic string, fn func(T)) func(T) {
	return func(event T) {
		defer b.recoverSubscriber(topic)
		fn(event)
	}
}

func (b *Bus) recoverSubscriber(topic string) {
	if r := recover(); r != nil {
		b.logger.Errorf("eventbus: 订阅者 panic，主题=%s: %v", topic, r)
	}
}
