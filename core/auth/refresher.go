package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	coreerrors "github.com/luoxbin/nearhub-desktop/core/errors"
	"github.com/luoxbin/nearhub-desktop/core/httpclient"
)

// Refresher 定义用长效凭证换取新 bearer token 的能力。
// 并发 401 可能各自触发一次刷新，这里不做去重：
// 每次刷新独立成败，令牌以最后一次写入为准。
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// ErrNoRefreshToken 标记刷新响应中没有令牌字段。
var ErrNoRefreshToken = coreerrors.New(coreerrors.ErrCodeInvalidState, "auth: 刷新响应未携带令牌")

// CookieRefresher 通过 httpOnly Cookie 调用刷新接口换取新令牌。
// 仅在能携带跨域 Cookie 的运行环境（Web/桌面）可用，
// 恒以 retry=false 语义执行，自身绝不触发再次刷新。
type CookieRefresher struct {
	client     *httpclient.Client
	refreshURL string
	logger     httpclient.Logger
}

// CookieRefresherOption 自定义刷新器。
type CookieRefresherOption func(*CookieRefresher)

// WithRefreshLogger 注入日志。
func WithRefreshLogger(logger httpclient.Logger) CookieRefresherOption {
	return func(r *CookieRefresher) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewCookieRefresher 创建刷新器，refreshURL 为刷新接口完整地址。
func NewCookieRefresher(client *httpclient.Client, refreshURL string, opts ...CookieRefresherOption) *CookieRefresher {
	if client == nil {
		client = httpclient.NewClient()
	}
	r := &CookieRefresher{
		client:     client,
		refreshURL: refreshURL,
		logger:     httpclient.NopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// refreshResponse 兼容两种服务端令牌字段命名。
type refreshResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
}

// Refresh 发起带凭证的刷新调用，返回新令牌。
func (r *CookieRefresher) Refresh(ctx context.Context) (string, error) {
	if r.refreshURL == "" {
		return "", coreerrors.New(coreerrors.ErrCodeInvalidConfig, "auth: 刷新地址未配置")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.refreshURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		io.Copy(io.Discard, resp.Body)
		return "", coreerrors.New(coreerrors.ErrCodeInvalidState, "auth: 刷新失败，状态码 "+resp.Status)
	}
	var body refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", coreerrors.Wrap(coreerrors.ErrCodeInvalidState, "auth: 解析刷新响应失败", err)
	}
	token := body.Token
	if token == "" {
		token = body.AccessToken
	}
	if token == "" {
		return "", ErrNoRefreshToken
	}
	r.logger.Debugf("auth: 令牌刷新成功")
	return token, nil
}
