package errors

import (
	"context"
	"errors"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/middleware"
	"github.com/haierkeys/fast-note-pad/pkg/code"
	"github.com/haierkeys/fast-note-pad/pkg/workerpool"

	"github.com/gin-gonic/gin"
)

// AppError 统一应用错误结构体
// 包含错误码、消息、详情、追踪ID和时间戳
type AppError struct {
	// Code 错误码
	Code int `json:"code"`
	// Status 固定为 false
	Status bool `json:"status"`
	// Message 错误消息
	Message string `json:"message"`
	// Details 错误详情（可选）
	Details []string `json:"details,omitempty"`
	// TraceID 请求追踪ID
	TraceID string `json:"traceId,omitempty"`
	// Cause 原始错误（不序列化到JSON）
	Cause error `json:"-"`
	// Timestamp 错误发生时间
	Timestamp time.Time `json:"timestamp"`

	httpStatus int
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap 实现 errors.Unwrap 接口，支持错误链路追踪
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError 从 Code 对象创建 AppError
func NewAppError(c *code.Code, cause error) *AppError {
	return &AppError{
		Code:       c.Code(),
		Message:    c.Msg(),
		Details:    c.Details(),
		Cause:      cause,
		Timestamp:  time.Now(),
		httpStatus: c.StatusCode(),
	}
}

// WithDetails 设置详情并返回自身（链式调用）
func (e *AppError) WithDetails(details ...string) *AppError {
	e.Details = details
	return e
}

// ToCode maps an error chain onto the response code the HTTP layer returns
// ToCode 将错误链映射为响应码
func ToCode(err error) *code.Code {
	switch {
	case err == nil:
		return code.Success
	case errors.Is(err, domain.ErrNoteNotFound):
		return code.ErrorNoteNotFound
	case errors.Is(err, domain.ErrNoteHasID):
		return code.ErrorNoteHasID
	case errors.Is(err, domain.ErrNoteMissingID):
		return code.ErrorNoteMissingID
	case errors.Is(err, domain.ErrImageCopy):
		return code.ErrorImageCopy
	case errors.Is(err, domain.ErrQuoteUnavailable):
		return code.ErrorQuoteUnavailable
	case errors.Is(err, workerpool.ErrWorkerPoolFull):
		return code.ErrorTooManyRequests
	case errors.Is(err, workerpool.ErrWorkerPoolClosed):
		return code.ErrorControllerClosed
	case errors.Is(err, context.DeadlineExceeded):
		return code.ErrorServerInternal
	}
	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		return codeErr
	}
	return code.ErrorServerInternal
}

// ErrorResponse 统一错误响应处理
// 从 gin.Context 获取 TraceID，将错误转换为 AppError 并返回 JSON 响应
func ErrorResponse(c *gin.Context, err error) {
	traceID := middleware.GetTraceIDFromGin(c)

	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewAppError(ToCode(err), err)
	}
	appErr.TraceID = traceID
	if len(appErr.Details) == 0 && appErr.Cause != nil {
		appErr.Details = []string{appErr.Cause.Error()}
	}

	status := appErr.httpStatus
	if status == 0 {
		status = code.ErrorServerInternal.StatusCode()
	}
	c.Set("status_code", status)
	c.JSON(status, appErr)
}

// IsAppError 检查错误是否为 AppError 类型
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}
