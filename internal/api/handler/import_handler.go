package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tdjunwei/lostark-raid-schedule/internal/service"
	"github.com/tdjunwei/lostark-raid-schedule/pkg/response"
)

// ImportHandler 旧版 Excel 导入 HTTP 处理器
type ImportHandler struct {
	importSvc service.ImportService
}

// NewImportHandler 创建 ImportHandler
func NewImportHandler(importSvc service.ImportService) *ImportHandler {
	return &ImportHandler{importSvc: importSvc}
}

// ImportExcel 上传并导入团务工作簿
// POST /api/v1/admin/excel-import (multipart, 字段 file)
func (h *ImportHandler) ImportExcel(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.Error(c, http.StatusRequestEntityTooLarge, 22002, "上传文件过大")
			return
		}
		response.BadRequest(c, 22005, "请上传文件（字段 file）")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 22005, "无法读取上传文件")
		return
	}
	defer file.Close()

	result, err := h.importSvc.Import(c.Request.Context(), fileHeader.Filename, fileHeader.Size, file, operatorID)
	if err != nil {
		h.handleImportError(c, err)
		return
	}

	response.OK(c, result)
}

// handleImportError 统一处理导入模块业务错误
func (h *ImportHandler) handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnsupportedFileType):
		response.BadRequest(c, 22001, "仅支持 .xlsx 或 .xls 文件")
	case errors.Is(err, service.ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, 22002, "上传文件过大")
	case errors.Is(err, service.ErrInvalidWorkbook):
		response.UnprocessableEntity(c, 22003, "无法解析 Excel 文件")
	case errors.Is(err, service.ErrImportInProgress):
		response.Conflict(c, 22004, "已有导入正在进行，请稍后再试")
	default:
		response.InternalError(c)
	}
}
