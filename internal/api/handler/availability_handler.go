package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/tdjunwei/lostark-raid-schedule/internal/dto"
	"github.com/tdjunwei/lostark-raid-schedule/internal/service"
	"github.com/tdjunwei/lostark-raid-schedule/internal/timerange"
	"github.com/tdjunwei/lostark-raid-schedule/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AvailabilityHandler 空闲时段模块 HTTP 处理器
type AvailabilityHandler struct {
	availabilitySvc service.AvailabilityService
}

// NewAvailabilityHandler 创建 AvailabilityHandler
func NewAvailabilityHandler(availabilitySvc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilitySvc: availabilitySvc}
}

// ListMine 获取本人全部空闲时段
// GET /api/v1/availability/me
func (h *AvailabilityHandler) ListMine(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	slots, err := h.availabilitySvc.ListMine(c.Request.Context(), callerID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": slots})
}

// Create 新增空闲时段
// POST /api/v1/availability
func (h *AvailabilityHandler) Create(c *gin.Context) {
	var req dto.CreateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	slot, err := h.availabilitySvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.Created(c, slot)
}

// Update 修改空闲时段
// PUT /api/v1/availability/:id
func (h *AvailabilityHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "时段ID不能为空")
		return
	}

	var req dto.UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	slot, err := h.availabilitySvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, slot)
}

// Delete 删除空闲时段
// DELETE /api/v1/availability/:id
func (h *AvailabilityHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "时段ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.availabilitySvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, nil)
}

// ClearMine 清空本人全部空闲时段
// DELETE /api/v1/availability/me
func (h *AvailabilityHandler) ClearMine(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	deleted, err := h.availabilitySvc.ClearMine(c.Request.Context(), callerID)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, dto.ClearAvailabilityResponse{Deleted: deleted})
}

// ApplyTemplate 将同一时段套用到多个星期
// POST /api/v1/availability/template
func (h *AvailabilityHandler) ApplyTemplate(c *gin.Context) {
	var req dto.ApplyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	slots, err := h.availabilitySvc.ApplyTemplate(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, gin.H{"list": slots})
}

// ReplaceWeek 以整周文本替换本人空闲时段
// PUT /api/v1/availability/week
func (h *AvailabilityHandler) ReplaceWeek(c *gin.Context) {
	var req dto.ReplaceWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	slots, err := h.availabilitySvc.ReplaceWeek(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, gin.H{"list": slots})
}

// Parse 解析时段文本，仅预览不落库
// POST /api/v1/availability/parse
func (h *AvailabilityHandler) Parse(c *gin.Context) {
	var req dto.ParseRangesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	response.OK(c, h.availabilitySvc.Parse(req.Input))
}

// ExportICS 下载本人空闲时段日历
// GET /api/v1/availability/me.ics
func (h *AvailabilityHandler) ExportICS(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	data, err := h.availabilitySvc.ExportICS(c.Request.Context(), callerID)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape("空闲时段.ics"))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

// ExportRoster 导出全员空闲表
// GET /api/v1/availability/roster.xlsx
func (h *AvailabilityHandler) ExportRoster(c *gin.Context) {
	buf, filename, err := h.availabilitySvc.ExportRoster(c.Request.Context())
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// handleAvailabilityError 统一处理空闲时段模块业务错误
func (h *AvailabilityHandler) handleAvailabilityError(c *gin.Context, err error) {
	var rangeErrs *service.RangeErrors
	switch {
	case errors.Is(err, service.ErrSlotNotFound):
		response.NotFound(c, 20001, "空闲时段不存在")
	case errors.Is(err, service.ErrSlotForbidden):
		response.Forbidden(c, 20002, "只能操作自己的空闲时段")
	case errors.Is(err, timerange.ErrConflict):
		if detail, ok := service.ConflictDetail(err); ok {
			response.ErrorWithData(c, http.StatusConflict, 20003, "时段与已有时段冲突", detail)
			return
		}
		response.Conflict(c, 20003, "时段与已有时段冲突")
	case errors.As(err, &rangeErrs):
		response.ErrorWithData(c, http.StatusUnprocessableEntity, 20005, "时段文本有误", gin.H{"errors": rangeErrs.Items})
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, 20004, "时间段无效", err.Error())
	default:
		response.InternalError(c)
	}
}
