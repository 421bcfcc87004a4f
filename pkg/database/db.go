package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tdjunwei/lostark-raid-schedule/config"
	applogger "github.com/tdjunwei/lostark-raid-schedule/pkg/logger"
)

// 未配置时的连接池大小
const (
	defaultMaxOpenConns = 25
	defaultMaxIdleConns = 10
	pingTimeout         = 5 * time.Second
)

// NewDB 连接 PostgreSQL，配置连接池并确认数据库可达
// SQL 日志经 GormLogger 输出到 zap，debug 级别下输出全部语句
func NewDB(cfg *config.DatabaseConfig, logLevel string, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: applogger.NewGormLogger(logger, logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	applyPool(sqlDB, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	logger.Info("数据库连接成功",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("dbname", cfg.Name),
		zap.Int("max_open_conns", sqlDB.Stats().MaxOpenConnections),
	)
	return db, nil
}

type poolSetter interface {
	SetMaxOpenConns(n int)
	SetMaxIdleConns(n int)
	SetConnMaxLifetime(d time.Duration)
	SetConnMaxIdleTime(d time.Duration)
}

func applyPool(p poolSetter, cfg *config.DatabaseConfig) {
	maxOpen, maxIdle := cfg.MaxOpenConns, cfg.MaxIdleConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdleConns
	}
	if maxIdle > maxOpen {
		maxIdle = maxOpen
	}
	p.SetMaxOpenConns(maxOpen)
	p.SetMaxIdleConns(maxIdle)
	if cfg.ConnMaxLifetime > 0 {
		p.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	}
	if cfg.ConnMaxIdleTime > 0 {
		p.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
	}
}
