package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tdjunwei/lostark-raid-schedule/pkg/response"
)

// 由 middleware.JWTAuth 写入
const ctxUserID = "user_id"

// MustGetUserID 取当前操作者的成员 ID（user_profiles.id），
// 所有"本人"接口与导入归属都以它为准。缺失时已写入 401，调用方直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	if id := c.GetString(ctxUserID); id != "" {
		return id, true
	}
	response.Unauthorized(c, 10002, "未认证")
	return "", false
}
