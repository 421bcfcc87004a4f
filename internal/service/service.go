package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/tdjunwei/lostark-raid-schedule/config"
	"github.com/tdjunwei/lostark-raid-schedule/internal/realtime"
	"github.com/tdjunwei/lostark-raid-schedule/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Availability AvailabilityService
	Timeline     TimelineService
	Raid         RaidService
	Character    CharacterService
	Job          JobService
	Import       ImportService
}

// NewService 创建 Service 聚合
// publisher 为 nil 时不发布变更事件，locker 为 nil 时使用进程内锁
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	catalog *config.JobCatalog,
	publisher realtime.Publisher,
	locker Locker,
	logger *zap.Logger,
) *Service {
	if publisher == nil {
		publisher = realtime.NopPublisher{}
	}

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		logger.Warn("时区无效，改用 UTC", zap.String("timezone", cfg.Schedule.Timezone), zap.Error(err))
		loc = time.UTC
	}

	jobSvc := NewJobService(repo, catalog, logger)
	return &Service{
		Availability: NewAvailabilityService(repo, publisher, loc, logger),
		Timeline:     NewTimelineService(repo, publisher, logger),
		Raid:         NewRaidService(repo, logger),
		Character:    NewCharacterService(repo, logger),
		Job:          jobSvc,
		Import:       NewImportService(cfg.Import, repo, jobSvc, locker, publisher, logger),
	}
}

const timeLayout = time.RFC3339

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timeLayout)
	return &s
}
