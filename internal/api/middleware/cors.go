package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var corsHeaders = map[string]string{
	"Access-Control-Allow-Credentials": "true",
	"Access-Control-Allow-Headers":     "Content-Type, Authorization, X-Request-ID",
	"Access-Control-Allow-Methods":     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	"Access-Control-Expose-Headers":    "X-Request-ID, Content-Disposition",
	"Access-Control-Max-Age":           "86400",
}

// CORS 只放行 server.cors.allow_origins 中的前端来源（忽略末尾的 /）
// 预检请求一律以 204 结束，不进入后续中间件
func CORS(allowOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowOrigins))
	for _, o := range allowOrigins {
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		c.Header("Vary", "Origin")
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				for k, v := range corsHeaders {
					c.Header(k, v)
				}
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
