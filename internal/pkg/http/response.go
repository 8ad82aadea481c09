package http

import (
	"github.com/gin-gonic/gin"
)

// 业务错误码：前三位对应 HTTP 状态码
const (
	CodeOK               = 0
	CodeInvalidRequest   = 40001 // 请求体格式错误
	CodeInvalidImage     = 40002 // 上传文件不是可识别的图片
	CodeImageTooLarge    = 40003 // 上传文件超过大小限制
	CodeExampleNotFound  = 40401 // 示例图片不存在
	CodeInternal         = 50000 // 未捕获的异常
	CodeSessionFailed    = 50001 // 会话读写失败
	CodeStorageFailed    = 50002 // 图片存储失败
	CodeServiceNotReady  = 50301 // 依赖服务未就绪
	CodeTooManyInFlights = 50302 // 等待生成槽位时请求被取消
)

// ErrorResponse 错误响应（所有API共用）
type ErrorResponse struct {
	Code    int    `json:"code"`             // 错误码（非0表示错误）
	Message string `json:"message"`          // 错误消息
	Detail  string `json:"detail,omitempty"` // 错误详情（可选）
}

// SuccessResponse 成功响应（所有API共用）
type SuccessResponse struct {
	Code    int         `json:"code"`           // 状态码（0表示成功）
	Message string      `json:"message"`        // 响应消息
	Data    interface{} `json:"data,omitempty"` // 响应数据（可选）
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(message string, data interface{}) *SuccessResponse {
	return &SuccessResponse{
		Code:    CodeOK,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string, detail ...string) *ErrorResponse {
	resp := &ErrorResponse{
		Code:    code,
		Message: message,
	}
	if len(detail) > 0 && detail[0] != "" {
		resp.Detail = detail[0]
	}
	return resp
}

// Abort 终止请求并返回错误响应
func Abort(c *gin.Context, status, code int, message string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, NewErrorResponse(code, message, detail))
}
