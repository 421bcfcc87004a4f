// realtime-tail 订阅变更频道并逐条打印事件，用于排查推送问题
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/tdjunwei/lostark-raid-schedule/config"
	"github.com/tdjunwei/lostark-raid-schedule/internal/realtime"
	applogger "github.com/tdjunwei/lostark-raid-schedule/pkg/logger"
	"github.com/tdjunwei/lostark-raid-schedule/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	channels := flag.String("channels", "", "逗号分隔的频道列表，默认读取 realtime.tail_channels")
	raidID := flag.String("raid", "", "额外订阅该副本的关卡进度频道")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Fatal("Redis 连接失败", zap.Error(err))
	}
	defer rdb.Close()

	targets := cfg.Realtime.TailChannels
	if *channels != "" {
		targets = strings.Split(*channels, ",")
	}
	if *raidID != "" {
		targets = append(targets, realtime.RaidTimelineChannel(*raidID))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mgr := realtime.NewSubscriptionManager(realtime.NewRedisBroker(rdb), cfg.Realtime.ChannelPrefix, logger)
	defer mgr.UnsubscribeAll()

	for _, ch := range targets {
		ch = strings.TrimSpace(ch)
		if ch == "" {
			continue
		}
		if err := mgr.Subscribe(ctx, ch, func(ev realtime.ChangeEvent) {
			logger.Info("变更事件",
				zap.String("channel", ev.Channel),
				zap.String("table", ev.Table),
				zap.String("action", string(ev.Action)),
				zap.String("record_id", ev.RecordID),
				zap.String("owner_id", ev.OwnerID),
				zap.Time("occurred_at", ev.OccurredAt),
				zap.Any("data", ev.Data),
			)
		}); err != nil {
			logger.Fatal("订阅失败", zap.String("channel", ch), zap.Error(err))
		}
	}

	logger.Info("开始监听", zap.Strings("channels", mgr.Channels()))
	<-ctx.Done()
	logger.Info("停止监听")
}
