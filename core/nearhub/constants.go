package nearhub

import "time"

// 默认服务端地址与客户端标识。
const (
	DefaultBaseURL = "https://api.nearhub.app"
	UserAgent      = "nearhub-desktop"
)

// 后端契约要求的标记：除认证接口外，每个请求都要携带
// shouldReload 查询参数与同名请求头（与缓存无关）。
const (
	ParamShouldReload  = "shouldReload"
	HeaderShouldReload = "X-Should-Reload"
	// HeaderUIReload 为服务端下发的整体刷新信号，值为 "1" 时
	// 客户端清空缓存并广播 ui:reload。
	HeaderUIReload = "X-UI-Reload"
)

// 认证命名空间下的接口路径。
const (
	PathLogin   = "/auth/login"
	PathSignup  = "/auth/signup"
	PathRefresh = "/auth/refresh"
	PathLogout  = "/auth/logout"
)

// 默认超时与缓存存活时长。
const (
	DefaultTimeout = 15 * time.Second
	DefaultTTL     = 30 * time.Second
)

// Platform 区分运行环境：Web/桌面端可携带 httpOnly Cookie，
// Native 移动端不能，因此无法走 Cookie 刷新分支。
type Platform string

const (
	PlatformWeb    Platform = "web"
	PlatformNative Platform = "native"
)
