package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"vitaltrack/backend/internal/validation"
	"vitaltrack/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// writeValidationError 将 Service 层的校验错误写为字段级 400 响应；
// 非校验错误时返回 false，由调用方继续分类。
func writeValidationError(c *gin.Context, err error) bool {
	var vErr *validation.Error
	if errors.As(err, &vErr) {
		response.ValidationFailed(c, 10001, "参数校验失败", vErr.Fields)
		return true
	}
	return false
}
