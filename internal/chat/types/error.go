package types

import "fmt"

// ErrorKind 客户端错误分类
type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "validation_error" // 参数校验失败，不发起网络请求
	ErrorKindTransport  ErrorKind = "transport_error"  // 连接失败、连接中断或超时
	ErrorKindProtocol   ErrorKind = "protocol_error"   // 服务端返回非 2xx 状态码
	ErrorKindFormat     ErrorKind = "format_error"     // 2xx 响应但响应体不符合预期格式
)

// ClientError 客户端错误，携带分类和面向用户的消息
type ClientError struct {
	Kind       ErrorKind // 错误分类
	StatusCode int       // HTTP 状态码（仅 ErrorKindProtocol 有效）
	Message    string    // 错误消息
	Err        error     // 原始错误
}

func (e *ClientError) Error() string {
	if e.StatusCode != 0 {
		if e.Err != nil {
			return fmt.Sprintf("[%s][%d] %s: %v", e.Kind, e.StatusCode, e.Message, e.Err)
		}
		return fmt.Sprintf("[%s][%d] %s", e.Kind, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// IsRetryable 判断错误是否可重试
//
// 只有传输层错误和协议层错误视为瞬时故障；
// 校验失败和格式错误重试不会有任何改善。
func (e *ClientError) IsRetryable() bool {
	switch e.Kind {
	case ErrorKindTransport, ErrorKindProtocol:
		return true
	default:
		return false
	}
}

// NewValidationError 创建参数校验错误
func NewValidationError(field, message string) *ClientError {
	return &ClientError{
		Kind:    ErrorKindValidation,
		Message: fmt.Sprintf("%s: %s", field, message),
	}
}

// NewTransportError 创建传输层错误
func NewTransportError(message string, err error) *ClientError {
	return &ClientError{
		Kind:    ErrorKindTransport,
		Message: message,
		Err:     err,
	}
}

// NewProtocolError 创建协议层错误（非 2xx 状态码）
func NewProtocolError(statusCode int, bodyExcerpt string) *ClientError {
	return &ClientError{
		Kind:       ErrorKindProtocol,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("request failed with status %d: %s", statusCode, bodyExcerpt),
	}
}

// NewFormatError 创建响应格式错误
func NewFormatError(message string) *ClientError {
	return &ClientError{
		Kind:    ErrorKindFormat,
		Message: message,
	}
}
