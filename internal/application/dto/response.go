package dto

import (
	"fmt"
	"time"

	"github.com/turtacn/diabrisk/pkg/errors"
)

// APIResponse 通用 API 响应结构
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorDTO   `json:"error,omitempty"`
	TraceID   string      `json:"trace_id,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// ErrorDTO 错误信息 DTO
type ErrorDTO struct {
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	Description string            `json:"description,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
}

// SuccessResponse 创建成功响应
func SuccessResponse(data interface{}, traceID string) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		TraceID:   traceID,
		Timestamp: time.Now().Unix(),
	}
}

// ErrorResponse 创建错误响应
// 非 AppError 的错误不会把内部信息暴露给客户端
func ErrorResponse(err error, traceID string) *APIResponse {
	var errorDTO *ErrorDTO

	if appErr, ok := errors.AsAppError(err); ok {
		errorDTO = &ErrorDTO{
			Code:        string(appErr.Code()),
			Message:     appErr.Error(),
			Description: appErr.Description(),
			Details:     stringifyMetadata(appErr.Metadata()),
		}
		if appErr.HTTPStatus() >= 500 {
			// 服务端错误只返回描述，不泄露底层原因
			errorDTO.Message = appErr.Description()
			errorDTO.Details = nil
		}
	} else {
		errorDTO = &ErrorDTO{
			Code:        string(errors.CodeServerError),
			Message:     "Assessment process failed",
			Description: "The server encountered an unexpected condition that prevented it from fulfilling the request.",
		}
	}

	return &APIResponse{
		Success:   false,
		Error:     errorDTO,
		TraceID:   traceID,
		Timestamp: time.Now().Unix(),
	}
}

// StatusFor 返回错误对应的 HTTP 状态码
func StatusFor(err error) int {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.HTTPStatus()
	}
	return 500
}

func stringifyMetadata(md map[string]interface{}) map[string]string {
	if len(md) == 0 {
		return nil
	}
	out := make(map[string]string, len(md))
	for k, v := range md {
		out[k] = fmt.Sprint(v)
	}
	return out
}
