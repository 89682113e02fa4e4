package nearhub

import (
	"io"
	"net/url"
	"time"
)

// CacheMode 控制 GET 请求的缓存行为。
type CacheMode int

const (
	// CacheDefault 先查缓存，命中直接返回；成功后回填。
	CacheDefault CacheMode = iota
	// CacheReload 跳过缓存读写，强制走网络。
	CacheReload
)

// FormFile 描述 multipart 表单中的一个文件字段。
type FormFile struct {
	Field    string
	FileName string
	Content  io.Reader

	// data 为请求前整体缓冲的内容。Content 只能读一次，
	// 401 刷新重放需要从这里重建请求体。
	data []byte
}

// RequestOptions 描述一次逻辑调用的全部参数，零值即合理默认。
type RequestOptions struct {
	// Method 默认 GET。
	Method string
	// Body 为 JSON 序列化的请求体，与 Form/Files 互斥。
	Body any
	// Form/Files 组成 multipart 请求体，Content-Type 由传输层生成边界。
	Form  url.Values
	Files []FormFile
	// Headers 为额外请求头。
	Headers map[string]string
	// NoRetry 禁止 401 触发的刷新重放（默认允许一次）。
	NoRetry bool
	// IncludeCredentials 要求携带跨域 Cookie（仅刷新等凭证接口需要）。
	IncludeCredentials bool
	// Timeout 覆盖客户端默认的请求截止时间。
	Timeout time.Duration
	// SuppressAuthHandling 禁止本次调用触发全局登出（登录场景使用）。
	SuppressAuthHandling bool
	// CacheMode 仅对 GET 生效。
	CacheMode CacheMode
	// TTL 覆盖默认的缓存存活时长。
	TTL time.Duration
}
