package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tdjunwei/lostark-raid-schedule/pkg/response"
)

// BodyLimit 限制请求体大小，普通接口为 1MB，Excel 导入按 import.max_upload_size 另行配置
// 声明的 Content-Length 超限时直接返回 413；分块上传由 MaxBytesReader 在读取时截断
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
