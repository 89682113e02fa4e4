package nearhub

import (
	"context"
	"net/http"

	"github.com/luoxbin/nearhub-desktop/core/auth"
	coreerrors "github.com/luoxbin/nearhub-desktop/core/errors"
	"github.com/luoxbin/nearhub-desktop/core/eventbus"
	"github.com/luoxbin/nearhub-desktop/core/model"
)

// ErrNoToken 标记登录/注册响应未携带令牌。
var ErrNoToken = coreerrors.New(coreerrors.ErrCodeInvalidState, "nearhub: 登录响应未携带令牌")

// Login 用邮箱口令登录。登录自身的 401 只代表凭证错误，
// 通过 SuppressAuthHandling 避免触发全局登出。
func (c *Client) Login(ctx context.Context, creds auth.Credentials) (*model.User, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	var body loginResponse
	err := c.requestJSON(ctx, PathLogin, RequestOptions{
		Method: http.MethodPost,
		Body: map[string]string{
			"email":    creds.Email,
			"password": creds.Password,
		},
		NoRetry:              true,
		SuppressAuthHandling: true,
	}, &body)
	if err != nil {
		return nil, err
	}
	return c.acceptSession(&body)
}

// SignupRequest 描述注册所需字段。
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Birthday string `json:"birthday,omitempty"`
}

// Signup 注册新账号，成功后直接进入登录态。
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*model.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, auth.ErrMissingCredentials
	}
	var body loginResponse
	err := c.requestJSON(ctx, PathSignup, RequestOptions{
		Method:               http.MethodPost,
		Body:                 req,
		NoRetry:              true,
		SuppressAuthHandling: true,
	}, &body)
	if err != nil {
		return nil, err
	}
	return c.acceptSession(&body)
}

// acceptSession 落令牌、广播 auth:login 并返回用户。
func (c *Client) acceptSession(body *loginResponse) (*model.User, error) {
	token := body.token()
	if token == "" {
		return nil, ErrNoToken
	}
	c.tokens.Set(token)
	var user *model.User
	if body.User != nil {
		u := body.User.ToModel()
		user = &u
	}
	c.bus.PublishLogin(eventbus.LoginEvent{User: user})
	return user, nil
}

// Refresh 主动刷新令牌（通常由 401 分支自动触发，此处供调用方手动使用）。
func (c *Client) Refresh(ctx context.Context) (string, error) {
	if c.refresher == nil {
		return "", coreerrors.New(coreerrors.ErrCodeInvalidConfig, "nearhub: 未配置刷新器")
	}
	token, err := c.refresher.Refresh(ctx)
	if err != nil {
		return "", err
	}
	c.tokens.Set(token)
	return token, nil
}

// Logout 执行登出序列：通知服务端（失败容忍）、清令牌、清缓存、
// 广播 USER_REQUEST 登出事件。可重复调用。
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.Request(ctx, PathLogout, RequestOptions{
		Method:               http.MethodPost,
		NoRetry:              true,
		SuppressAuthHandling: true,
	})
	if err != nil {
		// 服务端登出失败不阻塞本地登出
		c.logger.Errorf("nearhub: 服务端登出失败: %v", err)
	}
	c.tokens.Clear()
	c.cache.InvalidateAll()
	c.bus.PublishLogout(eventbus.LogoutEvent{
		Reason: eventbus.ReasonUserRequest,
		Path:   PathLogout,
	})
	return nil
}
