package httpclient

import (
	"net/http"

	"github.com/google/uuid"
)

// Middleware 是请求预处理钩子，用于注入 UA、Content-Type、请求标识等。
type Middleware func(req *http.Request) error

// PrepareChain 代表按顺序执行的中间件集合。
type PrepareChain []Middleware

// Apply 依次执行链路中的中间件，遇到错误立即返回。
func (c PrepareChain) Apply(req *http.Request) error {
	for _, mw := range c {
		if mw == nil {
			continue
		}
		if err := mw(req); err != nil {
			return err
		}
	}
	return nil
}

// WithHeader 设置请求头。
func WithHeader(key, value string) Middleware {
	return func(req *http.Request) error {
		req.Header.Set(key, value)
		return nil
	}
}

// WithUserAgent 设置 User-Agent。
func WithUserAgent(ua string) Middleware {
	return WithHeader("User-Agent", ua)
}

// WithContentType 设置 Content-Type。
func WithContentType(ct string) Middleware {
	return WithHeader("Content-Type", ct)
}

// WithRequestID 为每个请求生成 X-Request-Id，便于服务端串联日志。
// 已携带请求标识的请求（协议回退重放）保持原值。
func WithRequestID() Middleware {
	return func(req *http.Request) error {
		if req.Header.Get("X-Request-Id") == "" {
			req.Header.Set("X-Request-Id", uuid.NewString())
		}
		return nil
	}
}
