package auth

import (
	"net/http"
	"strings"

	"github.com/luoxbin/nearhub-desktop/core/eventbus"
)

// AuthPathPrefix 下的接口自身失败绝不触发全局登出，避免刷新失败引发登出循环。
const AuthPathPrefix = "/auth/"

// 强制判定为认证失败的服务端错误码，与 HTTP 状态无关。
var forcedAuthCodes = map[string]eventbus.LogoutReason{
	"AUTH_MISSING":   eventbus.ReasonAuth,
	"AUTH_INVALID":   eventbus.ReasonAuth,
	"UNAUTHORIZED":   eventbus.ReasonAuth,
	"USER_NOT_FOUND": eventbus.ReasonUserNotFound,
}

// 业务限制类错误码（付费墙、降级、隐身等），不属于认证失败，
// 无论随 401 还是 403 返回都不拆除会话。
var businessRestrictionCodes = map[string]struct{}{
	"PREMIUM_REQUIRED":  {},
	"PAYWALL":           {},
	"PLAN_DOWNGRADED":   {},
	"PROFILE_INVISIBLE": {},
}

// Failure 描述一次 HTTP 失败响应中与会话判定相关的字段。
type Failure struct {
	Status  int
	Code    string
	Message string
	Path    string
	// Suppress 由调用方设置（如登录请求），禁止触发全局登出。
	Suppress bool
}

// Decision 是判定结果：是否强制登出及其原因。
type Decision struct {
	ForceLogout bool
	Reason      eventbus.LogoutReason
}

// Classify 判定一次 HTTP 失败是否意味着会话必须拆除。
func Classify(f Failure) Decision {
	if f.Suppress {
		return Decision{}
	}
	if IsAuthPath(f.Path) {
		return Decision{}
	}

	code := strings.ToUpper(strings.TrimSpace(f.Code))
	if reason, ok := forcedAuthCodes[code]; ok {
		return Decision{ForceLogout: true, Reason: reason}
	}

	switch f.Status {
	case http.StatusUnauthorized:
		if _, restricted := businessRestrictionCodes[code]; restricted {
			return Decision{}
		}
		return Decision{ForceLogout: true, Reason: eventbus.ReasonAuth}
	case http.StatusForbidden:
		// 403 本身只代表业务/功能限制，从不触发登出
		return Decision{}
	case http.StatusNotFound:
		if strings.HasPrefix(f.Path, "/users") && staleUserReference(code, f.Message) {
			return Decision{ForceLogout: true, Reason: eventbus.ReasonUserNotFound}
		}
	}
	return Decision{}
}

// IsAuthPath 判断路径是否属于认证命名空间。
func IsAuthPath(path string) bool {
	return strings.HasPrefix(path, AuthPathPrefix)
}

// staleUserReference 识别已删除/失效账号引用：404 + NOT_FOUND 码或明确的提示文案。
func staleUserReference(code, message string) bool {
	if code == "NOT_FOUND" {
		return true
	}
	return strings.Contains(strings.ToLower(message), "user not found")
}
