package realtime

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Handler 收到变更事件时的回调
type Handler func(ChangeEvent)

type subscriptionHandle struct {
	sub    Subscription
	cancel context.CancelFunc
	done   chan struct{}
}

// SubscriptionManager 管理频道到订阅句柄的映射，由调用方持有并负责关闭
type SubscriptionManager struct {
	broker Broker
	prefix string
	logger *zap.Logger

	mu   sync.Mutex
	subs map[string]*subscriptionHandle
}

// NewSubscriptionManager 创建订阅管理器
func NewSubscriptionManager(broker Broker, prefix string, logger *zap.Logger) *SubscriptionManager {
	return &SubscriptionManager{
		broker: broker,
		prefix: prefix,
		logger: logger,
		subs:   make(map[string]*subscriptionHandle),
	}
}

// Subscribe 订阅频道；同名频道已订阅时以新订阅替换并关闭旧订阅。
// 并发订阅同一频道时，最终只保留一个打开的订阅。
func (m *SubscriptionManager) Subscribe(ctx context.Context, channel string, handler Handler) error {
	sub, err := m.broker.Subscribe(ctx, m.prefix+channel)
	if err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	h := &subscriptionHandle{sub: sub, cancel: cancel, done: make(chan struct{})}

	m.mu.Lock()
	old := m.subs[channel]
	m.subs[channel] = h
	m.mu.Unlock()

	if old != nil {
		m.closeHandle(channel, old)
	}
	go m.dispatch(loopCtx, channel, h, handler)

	m.logger.Info("已订阅频道", zap.String("channel", channel))
	return nil
}

func (m *SubscriptionManager) dispatch(ctx context.Context, channel string, h *subscriptionHandle, handler Handler) {
	defer close(h.done)
	msgs := h.sub.Messages()
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-msgs:
			if !ok {
				return
			}
			var ev ChangeEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				m.logger.Warn("变更事件解析失败", zap.String("channel", channel), zap.Error(err))
				continue
			}
			handler(ev)
		}
	}
}

// Unsubscribe 取消单个频道的订阅，未订阅时忽略
func (m *SubscriptionManager) Unsubscribe(channel string) {
	m.mu.Lock()
	h, ok := m.subs[channel]
	delete(m.subs, channel)
	m.mu.Unlock()

	if !ok {
		return
	}
	m.closeHandle(channel, h)
	m.logger.Info("已取消订阅", zap.String("channel", channel))
}

// closeHandle 停止分发并关闭订阅，调用前句柄须已从映射中移除
func (m *SubscriptionManager) closeHandle(channel string, h *subscriptionHandle) {
	h.cancel()
	if err := h.sub.Close(); err != nil {
		m.logger.Warn("关闭订阅失败", zap.String("channel", channel), zap.Error(err))
	}
	<-h.done
}

// UnsubscribeAll 取消全部订阅
func (m *SubscriptionManager) UnsubscribeAll() {
	for _, ch := range m.Channels() {
		m.Unsubscribe(ch)
	}
}

// Channels 当前已订阅的频道（按名称排序）
func (m *SubscriptionManager) Channels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.subs))
	for ch := range m.subs {
		out = append(out, ch)
	}
	sort.Strings(out)
	return out
}
