package handler

import "github.com/tdjunwei/lostark-raid-schedule/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Availability *AvailabilityHandler
	Raid         *RaidHandler
	Job          *JobHandler
	Import       *ImportHandler
	Health       *HealthHandler
}

// NewHandler 创建 Handler 聚合，checks 供健康检查使用
func NewHandler(svc *service.Service, checks map[string]Pinger) *Handler {
	return &Handler{
		Availability: NewAvailabilityHandler(svc.Availability),
		Raid:         NewRaidHandler(svc.Raid, svc.Timeline),
		Job:          NewJobHandler(svc.Job, svc.Character),
		Import:       NewImportHandler(svc.Import),
		Health:       NewHealthHandler(checks),
	}
}
