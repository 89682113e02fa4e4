package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/cookiejar"
)

// Logger 由外部注入，满足 core 层无输出原则。
type Logger interface {
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger 默认空日志实现。
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Errorf(string, ...any) {}

// Client 为统一 HTTP 客户端封装：中间件链、限流、超时分类与协议回退。
// 默认请求不携带 Cookie；仅显式要求凭证的请求（如刷新令牌）走带 Jar 的通道。
type Client struct {
	HTTP    *http.Client
	Jar     http.CookieJar
	Prepare PrepareChain
	Limiter RateLimiter
	Logger  Logger

	cookied    *http.Client
	noFallback bool
}

// Option 配置客户端。
type Option func(*Client)

// WithHTTPClient 自定义底层 http.Client（Transport、代理等）。
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.HTTP = httpClient
		}
	}
}

// WithCookieJar 设置凭证通道使用的 CookieJar。
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.Jar = jar
	}
}

// WithRateLimiter 设置限流。
func WithRateLimiter(limiter RateLimiter) Option {
	return func(c *Client) {
		c.Limiter = limiter
	}
}

// WithLogger 注入日志。
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithMiddlewares 设置请求中间件链。
func WithMiddlewares(mw ...Middleware) Option {
	return func(c *Client) {
		c.Prepare = append(c.Prepare, mw...)
	}
}

// WithoutFallback 关闭 http/https 协议回退（测试或受控网络环境使用）。
func WithoutFallback() Option {
	return func(c *Client) {
		c.noFallback = true
	}
}

// NewClient 创建带默认 CookieJar 的客户端。
func NewClient(opts ...Option) *Client {
	// cookiejar.New(nil) 不会返回错误，可安全忽略
	jar, _ := cookiejar.New(nil)
	client := &Client{
		HTTP:    &http.Client{},
		Jar:     jar,
		Prepare: PrepareChain{},
		Logger:  NopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.HTTP == nil {
		client.HTTP = &http.Client{}
	}
	if client.Logger == nil {
		client.Logger = NopLogger{}
	}
	if client.Jar == nil {
		j, _ := cookiejar.New(nil)
		client.Jar = j
	}
	client.cookied = &http.Client{
		Transport:     client.HTTP.Transport,
		CheckRedirect: client.HTTP.CheckRedirect,
		Timeout:       client.HTTP.Timeout,
		Jar:           client.Jar,
	}
	return client
}

// Use 添加中间件。
func (c *Client) Use(mw ...Middleware) {
	c.Prepare = append(c.Prepare, mw...)
}

// Do 发送请求：执行中间件与限流，分类超时/网络错误，
// 并在网络层失败时做一次 http↔https 协议回退。
// withCredentials 为 true 时走带 CookieJar 的通道（跨域凭证请求）。
func (c *Client) Do(req *http.Request, withCredentials bool) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("httpclient: 请求为空")
	}
	if c.HTTP == nil {
		return nil, errors.New("httpclient: http.Client 未配置")
	}
	if c.Prepare != nil {
		if err := c.Prepare.Apply(req); err != nil {
			return nil, err
		}
	}
	if c.Limiter != nil {
		if err := c.Limiter.Wait(req.Context(), req); err != nil {
			return nil, err
		}
	}
	hc := c.HTTP
	if withCredentials && c.cookied != nil {
		hc = c.cookied
	}

	resp, err := hc.Do(req)
	if err == nil {
		return resp, nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, &TimeoutError{Err: err}
	}
	netErr := &NetworkError{Err: err}
	if errors.Is(err, context.Canceled) {
		// 调用方主动取消不属于传输故障，不做回退
		return nil, netErr
	}
	if c.noFallback {
		return nil, netErr
	}

	fallback, ok := c.fallbackRequest(req)
	if !ok {
		return nil, netErr
	}
	c.Logger.Debugf("httpclient: 网络错误，协议回退到 %s: %v", fallback.URL.Scheme, err)
	resp, fbErr := hc.Do(fallback)
	if fbErr != nil {
		// 回退也失败时上抛原始错误
		return nil, netErr
	}
	return resp, nil
}

// fallbackRequest 以相反的 URL scheme 复制原请求；请求体不可重建时放弃回退。
func (c *Client) fallbackRequest(req *http.Request) (*http.Request, bool) {
	if req.URL == nil {
		return nil, false
	}
	var scheme string
	switch req.URL.Scheme {
	case "https":
		scheme = "http"
	case "http":
		scheme = "https"
	default:
		return nil, false
	}
	if req.Body != nil && req.GetBody == nil {
		return nil, false
	}
	cloned := req.Clone(req.Context())
	cloned.URL.Scheme = scheme
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, false
		}
		cloned.Body = body
	}
	return cloned, true
}
