package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/tdjunwei/lostark-raid-schedule/internal/realtime"
)

// 变更事件中的表名
const (
	tableAvailability = "availability_slots"
	tableRaids        = "raids"
	tableRaidTimeline = "raid_timeline"
)

// publish 在事务提交后发布变更事件，发布失败只记录日志，不影响已提交的写入
func publish(ctx context.Context, pub realtime.Publisher, logger *zap.Logger, ev realtime.ChangeEvent) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, ev); err != nil {
		logger.Warn("变更事件发布失败",
			zap.String("channel", ev.Channel),
			zap.String("action", string(ev.Action)),
			zap.Error(err),
		)
	}
}
