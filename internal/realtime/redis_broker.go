package realtime

import (
	"context"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/tdjunwei/lostark-raid-schedule/pkg/redis"
)

// RedisBroker 以 Redis Pub/Sub 作为消息总线
type RedisBroker struct {
	client *redis.Client
}

// NewRedisBroker 创建 Redis 消息总线；client 为 nil 时返回 nil
func NewRedisBroker(client *redis.Client) Broker {
	if client == nil {
		return nil
	}
	return &RedisBroker{client: client}
}

// Publish 发布消息
func (b *RedisBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.client.Publish(ctx, channel, payload)
}

// Subscribe 订阅频道
func (b *RedisBroker) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	ps, err := b.client.Subscribe(ctx, channel)
	if err != nil {
		return nil, err
	}
	return newRedisSubscription(ps), nil
}

type redisSubscription struct {
	ps     *goredis.PubSub
	out    chan []byte
	closed chan struct{}
	once   sync.Once
}

func newRedisSubscription(ps *goredis.PubSub) *redisSubscription {
	s := &redisSubscription{ps: ps, out: make(chan []byte), closed: make(chan struct{})}
	go func() {
		defer close(s.out)
		for msg := range ps.Channel() {
			select {
			case s.out <- []byte(msg.Payload):
			case <-s.closed:
				return
			}
		}
	}()
	return s
}

func (s *redisSubscription) Messages() <-chan []byte { return s.out }

func (s *redisSubscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.closed)
		err = s.ps.Close()
	})
	return err
}
