// Package errors 定义核心层共用的结构化错误类型。
package errors

import "fmt"

// Code 标识错误的类别，跨包比较以此为准而非消息文本。
type Code string

const (
	// ErrCodeUnknown 未归类的错误。
	ErrCodeUnknown Code = "UNKNOWN"
	// ErrCodeNotFound 目标资源不存在。
	ErrCodeNotFound Code = "NOT_FOUND"
	// ErrCodeInvalidArgument 调用方传入的参数缺失或非法。
	ErrCodeInvalidArgument Code = "INVALID_ARGUMENT"
	// ErrCodeInvalidConfig 必要的配置缺失或依赖未就绪。
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	// ErrCodeInvalidState 运行结果偏离预期（响应不合法、流程被打断等）。
	ErrCodeInvalidState Code = "INVALID_STATE"
	// ErrCodeTimeout 操作在截止时间内未完成。
	ErrCodeTimeout Code = "TIMEOUT"
)

// CoreError 携带类别码与可读消息，并可包装底层错误。
// errors.Is 按类别码匹配，哨兵错误与包装后的错误因此互通。
type CoreError struct {
	Code    Code
	Message string
	Raw     error
}

func (e *CoreError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("core: [%s] %s", e.Code, e.Message)
	case e.Message != "":
		return e.Message
	case e.Code != "":
		return fmt.Sprintf("core: 类别 %s", e.Code)
	case e.Raw != nil:
		return e.Raw.Error()
	default:
		return "core: 错误信息缺失"
	}
}

// Unwrap 暴露底层错误给 errors.Is/As。
func (e *CoreError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Raw
}

// Is 按实例或类别码匹配。
func (e *CoreError) Is(target error) bool {
	if e == nil || target == nil {
		return false
	}
	if e == target {
		return true
	}
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return e.Code != "" && e.Code == t.Code
}

// New 构造只含类别码与消息的错误。
func New(code Code, message string) *CoreError {
	return &CoreError{Code: code, Message: message}
}

// Wrap 在包装底层错误的同时附加类别码；消息为空时沿用底层消息。
func Wrap(code Code, message string, raw error) *CoreError {
	if message == "" && raw != nil {
		message = raw.Error()
	}
	return &CoreError{
		Code:    code,
		Message: message,
		Raw:     raw,
	}
}
