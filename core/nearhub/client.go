package nearhub

import (
	"strings"
	"time"

	"github.com/luoxbin/nearhub-desktop/core/auth"
	"github.com/luoxbin/nearhub-desktop/core/cache"
	"github.com/luoxbin/nearhub-desktop/core/eventbus"
	"github.com/luoxbin/nearhub-desktop/core/httpclient"
)

// Client 是请求管线的入口：组合令牌持有者、响应缓存、
// 事件总线与底层 HTTP 客户端，按 API 维度提供封装方法。
type Client struct {
	http      *httpclient.Client
	tokens    *auth.TokenHolder
	cache     *cache.ResponseCache
	bus       *eventbus.Bus
	refresher auth.Refresher
	logger    httpclient.Logger
	baseURL   string
	platform  Platform
	timeout   time.Duration
	cacheTTL  time.Duration
}

// Option 自定义客户端配置。
type Option func(*Client)

// WithHTTPClient 注入自定义 httpclient.Client。
func WithHTTPClient(cli *httpclient.Client) Option {
	return func(c *Client) {
		if cli != nil {
			c.http = cli
		}
	}
}

// WithLogger 注入日志接口。
func WithLogger(logger httpclient.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
			if c.http != nil {
				c.http.Logger = logger
			}
		}
	}
}

// WithBaseURL 替换默认服务端地址。
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithPlatform 设置运行环境（默认 Web/桌面）。
func WithPlatform(p Platform) Option {
	return func(c *Client) {
		if p != "" {
			c.platform = p
		}
	}
}

// WithRefresher 注入自定义刷新器，便于测试。
func WithRefresher(r auth.Refresher) Option {
	return func(c *Client) {
		c.refresher = r
	}
}

// WithCache 注入自定义响应缓存。
func WithCache(rc *cache.ResponseCache) Option {
	return func(c *Client) {
		if rc != nil {
			c.cache = rc
		}
	}
}

// WithBus 注入事件总线。
func WithBus(bus *eventbus.Bus) Option {
	return func(c *Client) {
		if bus != nil {
			c.bus = bus
		}
	}
}

// WithTimeout 设置默认请求截止时间。
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithDefaultTTL 设置 GET 响应缓存的默认存活时长。
func WithDefaultTTL(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.cacheTTL = d
		}
	}
}

// NewClient 创建默认客户端。tokens 可为 nil（纯内存令牌）。
func NewClient(tokens *auth.TokenHolder, opts ...Option) *Client {
	if tokens == nil {
		tokens = auth.NewTokenHolder(nil)
	}
	c := &Client{
		tokens:   tokens,
		cache:    cache.New(),
		bus:      eventbus.New(),
		logger:   httpclient.NopLogger{},
		baseURL:  DefaultBaseURL,
		platform: PlatformWeb,
		timeout:  DefaultTimeout,
		cacheTTL: DefaultTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		c.http = httpclient.NewClient(
			httpclient.WithLogger(c.logger),
			httpclient.WithMiddlewares(
				httpclient.WithUserAgent(UserAgent),
				httpclient.WithRequestID(),
			),
		)
	}
	c.http.Logger = c.logger
	if c.refresher == nil {
		c.refresher = auth.NewCookieRefresher(
			c.http,
			c.baseURL+PathRefresh,
			auth.WithRefreshLogger(c.logger),
		)
	}
	return c
}

// Tokens 暴露令牌持有者，供启动时加载与退出时 Sync。
func (c *Client) Tokens() *auth.TokenHolder {
	return c.tokens
}

// Bus 暴露事件总线，供外围订阅 auth:logout / auth:login / ui:reload。
func (c *Client) Bus() *eventbus.Bus {
	return c.bus
}

// OnAppForeground 在应用回前台时调用，清空响应缓存。
func (c *Client) OnAppForeground() {
	c.cache.InvalidateAll()
}
