package httpclient

import "fmt"

// NetworkError 包装传输层失败（DNS、拒绝连接、TLS 等），用于区分协议回退场景。
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("网络错误: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TimeoutError 表示请求在截止时间前未完成，底层连接已被中止。
// 与 NetworkError 互斥：超时不会触发协议回退。
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("请求超时: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}
