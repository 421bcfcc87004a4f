package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Publisher 变更事件发布接口
type Publisher interface {
	Publish(ctx context.Context, ev ChangeEvent) error
}

type brokerPublisher struct {
	broker Broker
	prefix string
	logger *zap.Logger
}

// NewPublisher 创建基于消息总线的发布器；broker 为 nil 时退化为空实现
func NewPublisher(broker Broker, prefix string, logger *zap.Logger) Publisher {
	if broker == nil {
		return NopPublisher{}
	}
	return &brokerPublisher{broker: broker, prefix: prefix, logger: logger}
}

func (p *brokerPublisher) Publish(ctx context.Context, ev ChangeEvent) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("序列化变更事件失败: %w", err)
	}
	if err := p.broker.Publish(ctx, p.prefix+ev.Channel, payload); err != nil {
		return fmt.Errorf("发布变更事件失败: %w", err)
	}
	p.logger.Debug("变更事件已发布",
		zap.String("channel", ev.Channel),
		zap.String("table", ev.Table),
		zap.String("action", string(ev.Action)),
	)
	return nil
}

// NopPublisher 不发布任何事件（Redis 不可用时使用）
type NopPublisher struct{}

// Publish 丢弃事件
func (NopPublisher) Publish(context.Context, ChangeEvent) error { return nil }
