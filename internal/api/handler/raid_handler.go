package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tdjunwei/lostark-raid-schedule/internal/dto"
	"github.com/tdjunwei/lostark-raid-schedule/internal/service"
	"github.com/tdjunwei/lostark-raid-schedule/internal/timeline"
	pkgerrors "github.com/tdjunwei/lostark-raid-schedule/pkg/errors"
	"github.com/tdjunwei/lostark-raid-schedule/pkg/response"
)

// RaidHandler 副本与关卡时间线 HTTP 处理器
type RaidHandler struct {
	raidSvc     service.RaidService
	timelineSvc service.TimelineService
}

// NewRaidHandler 创建 RaidHandler
func NewRaidHandler(raidSvc service.RaidService, timelineSvc service.TimelineService) *RaidHandler {
	return &RaidHandler{raidSvc: raidSvc, timelineSvc: timelineSvc}
}

// ListRaids 获取副本列表
// GET /api/v1/raids
func (h *RaidHandler) ListRaids(c *gin.Context) {
	var req dto.RaidListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	raids, total, err := h.raidSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, raids, total, req.GetPage(), req.GetPageSize())
}

// GetRaid 获取副本详情
// GET /api/v1/raids/:id
func (h *RaidHandler) GetRaid(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "副本ID不能为空")
		return
	}

	raid, err := h.raidSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleRaidError(c, err)
		return
	}

	response.OK(c, raid)
}

// ListGates 获取副本关卡时间线
// GET /api/v1/raids/:id/timeline
func (h *RaidHandler) ListGates(c *gin.Context) {
	raidID := c.Param("id")
	if raidID == "" {
		response.BadRequest(c, 10001, "副本ID不能为空")
		return
	}

	gates, err := h.timelineSvc.List(c.Request.Context(), raidID)
	if err != nil {
		h.handleRaidError(c, err)
		return
	}

	response.OK(c, gin.H{"list": gates})
}

// CreateGate 新增关卡
// POST /api/v1/raids/:id/timeline
func (h *RaidHandler) CreateGate(c *gin.Context) {
	raidID := c.Param("id")
	if raidID == "" {
		response.BadRequest(c, 10001, "副本ID不能为空")
		return
	}

	var req dto.CreateGateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.timelineSvc.Create(c.Request.Context(), raidID, &req)
	if err != nil {
		h.handleRaidError(c, err)
		return
	}

	response.Created(c, result)
}

// TransitionGate 变更关卡状态或备注
// PATCH /api/v1/raids/:id/timeline/:gateId
func (h *RaidHandler) TransitionGate(c *gin.Context) {
	raidID, gateID := c.Param("id"), c.Param("gateId")
	if raidID == "" || gateID == "" {
		response.BadRequest(c, 10001, "副本ID与关卡ID不能为空")
		return
	}

	var req dto.UpdateGateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.timelineSvc.Transition(c.Request.Context(), raidID, gateID, &req)
	if err != nil {
		h.handleRaidError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteGate 删除关卡
// DELETE /api/v1/raids/:id/timeline/:gateId
func (h *RaidHandler) DeleteGate(c *gin.Context) {
	raidID, gateID := c.Param("id"), c.Param("gateId")
	if raidID == "" || gateID == "" {
		response.BadRequest(c, 10001, "副本ID与关卡ID不能为空")
		return
	}

	if err := h.timelineSvc.Delete(c.Request.Context(), raidID, gateID); err != nil {
		h.handleRaidError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleRaidError 统一处理副本与关卡模块业务错误
func (h *RaidHandler) handleRaidError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRaidNotFound):
		response.NotFound(c, 23002, "副本不存在")
	case errors.Is(err, service.ErrGateNotFound):
		response.NotFound(c, 21001, "关卡不存在")
	case errors.Is(err, service.ErrGateExists):
		response.Conflict(c, 21002, "该副本已存在同名关卡")
	case errors.Is(err, timeline.ErrInvalidTransition):
		response.UnprocessableEntity(c, 21003, "不允许的关卡状态变更")
	case errors.Is(err, timeline.ErrUnknownStatus):
		response.BadRequest(c, 21004, "未知的关卡状态")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 21005, "关卡已被他人修改，请刷新后重试")
	case errors.Is(err, service.ErrEmptyGateUpdate):
		response.BadRequest(c, 21006, "未提供需要更新的内容")
	default:
		response.InternalError(c)
	}
}
