package dto

import "github.com/tdjunwei/lostark-raid-schedule/internal/timerange"

// ── 空闲时段模块 DTO ──

// CreateAvailabilityRequest 新增空闲时段请求
// Overnight 为空时按 end <= start 自动判定跨天
type CreateAvailabilityRequest struct {
	DayOfWeek *int    `json:"day_of_week" binding:"required,min=0,max=6"` // 0=週日
	StartTime string  `json:"start_time"  binding:"required"`             // "20:00"
	EndTime   string  `json:"end_time"    binding:"required"`             // "02:00"
	Overnight *bool   `json:"overnight"`
	Available *bool   `json:"available"`
	Note      *string `json:"note"        binding:"omitempty,max=500"`
}

// UpdateAvailabilityRequest 修改空闲时段请求（部分更新）
type UpdateAvailabilityRequest struct {
	DayOfWeek *int    `json:"day_of_week" binding:"omitempty,min=0,max=6"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Overnight *bool   `json:"overnight"`
	Available *bool   `json:"available"`
	Note      *string `json:"note"        binding:"omitempty,max=500"`
}

// ApplyTemplateRequest 将同一时段套用到多个星期
type ApplyTemplateRequest struct {
	Days      []int   `json:"days"       binding:"required,min=1,max=7,dive,min=0,max=6"`
	StartTime string  `json:"start_time" binding:"required"`
	EndTime   string  `json:"end_time"   binding:"required"`
	Overnight *bool   `json:"overnight"`
	Note      *string `json:"note"       binding:"omitempty,max=500"`
}

// DayRangesInput 某一天的时段文本，如 "20:00 - 23:00, 23:30 - 隔天01:00"
type DayRangesInput struct {
	DayOfWeek *int   `json:"day_of_week" binding:"required,min=0,max=6"`
	Ranges    string `json:"ranges"      binding:"max=500"`
}

// ReplaceWeekRequest 以整周文本替换本人全部空闲时段
type ReplaceWeekRequest struct {
	Days []DayRangesInput `json:"days" binding:"max=7,dive"`
}

// ParseRangesRequest 解析预览请求
type ParseRangesRequest struct {
	Input string `json:"input" binding:"max=500"`
}

// ── 响应 ──

// AvailabilityResponse 空闲时段响应
type AvailabilityResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	DayOfWeek int     `json:"day_of_week"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Overnight bool    `json:"overnight"`
	Display   string  `json:"display"` // "21:00 - 隔天02:00"
	Available bool    `json:"available"`
	Note      *string `json:"note,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// ConflictResponse 冲突时返回的已有时段
type ConflictResponse struct {
	Conflict AvailabilityResponse `json:"conflict"`
}

// RangeErrorResponse 单个片段的解析错误
type RangeErrorResponse struct {
	DayOfWeek *int   `json:"day_of_week,omitempty"`
	Fragment  string `json:"fragment"`
	Reason    string `json:"reason"`
}

// ParseRangesResponse 解析预览结果
type ParseRangesResponse struct {
	Slots  []timerange.Slot     `json:"slots"`
	Errors []RangeErrorResponse `json:"errors"`
}

// ClearAvailabilityResponse 清空结果
type ClearAvailabilityResponse struct {
	Deleted int64 `json:"deleted"`
}
