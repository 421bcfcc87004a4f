package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders 为所有响应设置安全头
// 接口只返回 JSON、iCal 与 Excel 名单下载，响应一律不缓存、不允许被嵌入页面
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Header("Cache-Control", "no-store")

		c.Next()
	}
}
