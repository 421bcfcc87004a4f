package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应体，code=0 表示成功，错误码按模块分段（10xxx 通用、2xxxx 业务、50000 内部错误）
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details string      `json:"details,omitempty"`
}

// Pagination 分页元数据
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PageData 分页响应数据
type PageData struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

func success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Code: 0, Message: "success", Data: data})
}

// ── 成功响应 ──

func OK(c *gin.Context, data interface{}) { success(c, http.StatusOK, data) }

func Created(c *gin.Context, data interface{}) { success(c, http.StatusCreated, data) }

// OKPage 副本、角色等列表接口的分页响应
func OKPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	if pageSize <= 0 {
		pageSize = 1
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	success(c, http.StatusOK, PageData{
		List: list,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// ── 错误响应 ──

func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{Code: code, Message: message})
}

// ErrorWithDetails 附带一行说明，如时段无效的原因
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message, details string) {
	c.JSON(httpStatus, Response{Code: code, Message: message, Details: details})
}

// ErrorWithData 附带结构化数据，如冲突的已有时段、逐片段的解析错误
func ErrorWithData(c *gin.Context, httpStatus int, code int, message string, data interface{}) {
	c.JSON(httpStatus, Response{Code: code, Message: message, Data: data})
}

func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code int, message string) {
	Error(c, http.StatusConflict, code, message)
}

// UnprocessableEntity 请求格式正确但内容无法处理，如非法的关卡状态变更、无法解析的工作簿
func UnprocessableEntity(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnprocessableEntity, code, message)
}

func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, 50000, "服务器内部错误")
}
