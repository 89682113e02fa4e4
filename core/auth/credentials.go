package auth

import coreerrors "github.com/luoxbin/nearhub-desktop/core/errors"

// Credentials 表示账号口令组合。
type Credentials struct {
	Email    string
	Password string
}

// ErrMissingCredentials 标记缺少邮箱或密码。
var ErrMissingCredentials = coreerrors.New(coreerrors.ErrCodeInvalidArgument, "auth: 缺少登录凭证")

// Validate 校验凭证完整性。
func (c Credentials) Validate() error {
	if c.Email == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}
