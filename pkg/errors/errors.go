package errors

import (
	stderrors "errors"
	"fmt"

	"coinwatch/pkg/errors/ecode"
)

// 带业务错误码的error，供response层解码成统一的响应格式

type CodedError struct {
	Code    int
	Message string
	cause   error
}

func (e *CodedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("code=%d msg=%s cause=%v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("code=%d msg=%s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error { return e.cause }

// New 根据错误码创建错误，使用码表默认提示
func New(code int) *CodedError {
	return &CodedError{Code: code, Message: ecode.Message(code)}
}

// Newf 根据错误码创建错误并自定义提示
func Newf(code int, format string, args ...interface{}) *CodedError {
	return &CodedError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap 包装底层错误
func Wrap(code int, cause error) *CodedError {
	return &CodedError{Code: code, Message: ecode.Message(code), cause: cause}
}

// DecodeErr 从error中提取错误码和提示。
// nil视为成功；非CodedError一律按内部错误处理。
func DecodeErr(err error) (int, string) {
	if err == nil {
		return ecode.Success, ecode.Message(ecode.Success)
	}
	var ce *CodedError
	if stderrors.As(err, &ce) {
		return ce.Code, ce.Message
	}
	return ecode.InternalErr, err.Error()
}

// Is/As 直接透传标准库，调用方不用同时导入两个errors包
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }
