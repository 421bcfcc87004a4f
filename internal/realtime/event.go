// Package realtime 决定何时发布记录变更事件，并提供显式的订阅管理器。
// 事件投递由外部消息总线（Redis Pub/Sub）完成。
package realtime

import (
	"context"
	"time"
)

// 频道名称
const (
	ChannelSchedules = "schedules"
	ChannelRaids     = "raids"
)

// RaidTimelineChannel 单个副本的关卡进度频道
func RaidTimelineChannel(raidID string) string {
	return "raid-timeline-" + raidID
}

// Action 变更类型
type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionBulk   Action = "BULK"
)

// ChangeEvent 记录变更事件
type ChangeEvent struct {
	Channel    string    `json:"channel"`
	Table      string    `json:"table"`
	Action     Action    `json:"action"`
	RecordID   string    `json:"record_id,omitempty"`
	OwnerID    string    `json:"owner_id,omitempty"`
	Data       any       `json:"data,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Broker 消息总线抽象
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (Subscription, error)
}

// Subscription 单个频道的订阅句柄
type Subscription interface {
	Messages() <-chan []byte
	Close() error
}
