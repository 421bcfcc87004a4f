package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tdjunwei/lostark-raid-schedule/config"
	"github.com/tdjunwei/lostark-raid-schedule/internal/api/handler"
	"github.com/tdjunwei/lostark-raid-schedule/internal/api/router"
	"github.com/tdjunwei/lostark-raid-schedule/internal/realtime"
	"github.com/tdjunwei/lostark-raid-schedule/internal/repository"
	"github.com/tdjunwei/lostark-raid-schedule/internal/service"
	"github.com/tdjunwei/lostark-raid-schedule/pkg/database"
	"github.com/tdjunwei/lostark-raid-schedule/pkg/jwt"
	applogger "github.com/tdjunwei/lostark-raid-schedule/pkg/logger"
	"github.com/tdjunwei/lostark-raid-schedule/pkg/redis"
)

type sqlPinger struct{ db *sql.DB }

func (p sqlPinger) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认查找 ./config/config.yaml）")
	rollback := flag.Int("rollback", 0, "回滚指定步数的迁移后退出")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if *rollback > 0 {
		if err := database.RollbackMigrations(sqlDB, *rollback, logger); err != nil {
			logger.Fatal("数据库回滚失败", zap.Error(err))
		}
		sqlDB.Close()
		return
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 加载职业表
	catalog, err := config.LoadJobCatalog(cfg.Import.JobCatalogPath)
	if err != nil {
		logger.Fatal("加载职业表失败", zap.Error(err))
	}

	// 5. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，令牌黑名单、导入限流与变更推送将不可用", zap.Error(err))
			rdb = nil
		}
	}

	var (
		publisher realtime.Publisher
		locker    service.Locker
	)
	checks := map[string]handler.Pinger{"postgres": sqlPinger{db: sqlDB}}
	if rdb != nil {
		locker = rdb
		checks["redis"] = rdb
		if cfg.Realtime.Enabled {
			publisher = realtime.NewPublisher(realtime.NewRedisBroker(rdb), cfg.Realtime.ChannelPrefix, logger)
		}
	}

	// 6. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 7. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, catalog, publisher, locker, logger)
	h := handler.NewHandler(svc, checks)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	sqlDB.Close()

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
