package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tdjunwei/lostark-raid-schedule/internal/dto"
	"github.com/tdjunwei/lostark-raid-schedule/internal/service"
	"github.com/tdjunwei/lostark-raid-schedule/pkg/response"
)

// JobHandler 职业与角色 HTTP 处理器
type JobHandler struct {
	jobSvc       service.JobService
	characterSvc service.CharacterService
}

// NewJobHandler 创建 JobHandler
func NewJobHandler(jobSvc service.JobService, characterSvc service.CharacterService) *JobHandler {
	return &JobHandler{jobSvc: jobSvc, characterSvc: characterSvc}
}

// ListJobs 获取职业列表
// GET /api/v1/jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.jobSvc.ListJobs(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": jobs})
}

// ListCategories 获取职业大类
// GET /api/v1/jobs/categories
func (h *JobHandler) ListCategories(c *gin.Context) {
	categories, err := h.jobSvc.ListCategories(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": categories})
}

// ResolveJob 按名称查找职业，不存在时依职业表建立
// POST /api/v1/jobs/resolve
func (h *JobHandler) ResolveJob(c *gin.Context) {
	var req dto.ResolveJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	job, err := h.jobSvc.Resolve(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUnknownJob) {
			response.UnprocessableEntity(c, 23001, "职业不在职业表中")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, job)
}

// ListMyCharacters 获取本人角色
// GET /api/v1/characters/me
func (h *JobHandler) ListMyCharacters(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	characters, total, err := h.characterSvc.ListMine(c.Request.Context(), callerID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, characters, total, req.GetPage(), req.GetPageSize())
}
