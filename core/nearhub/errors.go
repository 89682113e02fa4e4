package nearhub

import (
	"errors"
	"fmt"

	coreerrors "github.com/luoxbin/nearhub-desktop/core/errors"
)

// APIError 表示一次非成功状态的 HTTP 响应，
// 携带状态码、服务端错误码、详情与完整解析体，供 UI 层展示。
type APIError struct {
	Status  int
	Code    string
	Message string
	Details any
	// Body 为响应体的解析结果（JSON 成功时为结构化值，否则为原始文本）。
	Body any
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("nearhub: [%d %s] %s", e.Status, e.Code, e.Message)
	case e.Message != "":
		return fmt.Sprintf("nearhub: [%d] %s", e.Status, e.Message)
	case e.Code != "":
		return fmt.Sprintf("nearhub: [%d] %s", e.Status, e.Code)
	default:
		return fmt.Sprintf("nearhub: HTTP 状态码 %d", e.Status)
	}
}

// IsAPIError 提取 APIError，便于调用方按状态码分支。
func IsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// ErrDecode 标记成功响应但无法解析为目标结构。
var ErrDecode = coreerrors.New(coreerrors.ErrCodeInvalidState, "nearhub: 响应解析失败")
