package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tdjunwei/lostark-raid-schedule/config"
	"github.com/tdjunwei/lostark-raid-schedule/internal/dto"
	"github.com/tdjunwei/lostark-raid-schedule/internal/importer"
	"github.com/tdjunwei/lostark-raid-schedule/internal/realtime"
	"github.com/tdjunwei/lostark-raid-schedule/internal/repository"
	pkgerrors "github.com/tdjunwei/lostark-raid-schedule/pkg/errors"
)

// ── 导入模块业务错误 ──

var (
	ErrUnsupportedFileType = errors.New("仅支持 .xlsx 或 .xls 文件")
	ErrFileTooLarge        = errors.New("上传文件过大")
	ErrInvalidWorkbook     = errors.New("无法解析 Excel 文件")
	ErrImportInProgress    = pkgerrors.ErrLockNotAcquired
)

const importLockKey = "import:excel"

// Locker 互斥锁，同一时间只允许一次导入
//
// TryLock 成功时返回持有者 token，锁被占用时返回空串；
// Unlock 只释放 token 仍匹配的锁，过期后被他人取得的锁不受影响。
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, error)
	Unlock(ctx context.Context, key, token string) error
}

type heldLock struct {
	token   string
	expires time.Time
}

// memoryLocker 未启用 Redis 时的进程内锁
type memoryLocker struct {
	mu   sync.Mutex
	held map[string]heldLock
}

// NewMemoryLocker 创建进程内锁
func NewMemoryLocker() Locker {
	return &memoryLocker{held: make(map[string]heldLock)}
}

func (l *memoryLocker) TryLock(_ context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if h, ok := l.held[key]; ok && time.Now().Before(h.expires) {
		return "", nil
	}
	token := uuid.NewString()
	l.held[key] = heldLock{token: token, expires: time.Now().Add(ttl)}
	return token, nil
}

func (l *memoryLocker) Unlock(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if h, ok := l.held[key]; ok && h.token == token {
		delete(l.held, key)
	}
	return nil
}

// ImportService Excel 导入业务接口
type ImportService interface {
	// Import 导入一个旧版团务工作簿，size 为上传声明的文件大小
	Import(ctx context.Context, filename string, size int64, r io.Reader, operatorID string) (*dto.ImportResponse, error)
}

type importService struct {
	cfg       config.ImportConfig
	repo      *repository.Repository
	jobs      importer.JobResolver
	locker    Locker
	publisher realtime.Publisher
	logger    *zap.Logger
}

// NewImportService 创建 ImportService 实例
func NewImportService(cfg config.ImportConfig, repo *repository.Repository, jobs importer.JobResolver, locker Locker, publisher realtime.Publisher, logger *zap.Logger) ImportService {
	if locker == nil {
		locker = NewMemoryLocker()
	}
	return &importService{
		cfg:       cfg,
		repo:      repo,
		jobs:      jobs,
		locker:    locker,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *importService) Import(ctx context.Context, filename string, size int64, r io.Reader, operatorID string) (*dto.ImportResponse, error) {
	// 1. 文件检查
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
	default:
		return nil, ErrUnsupportedFileType
	}
	if s.cfg.MaxUploadSize > 0 && size > s.cfg.MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	// 2. 同一时间只允许一次导入
	token, err := s.locker.TryLock(ctx, importLockKey, s.cfg.LockTTL)
	if err != nil {
		s.logger.Error("获取导入锁失败", zap.Error(err))
		return nil, err
	}
	if token == "" {
		return nil, ErrImportInProgress
	}
	defer func() {
		if err := s.locker.Unlock(context.WithoutCancel(ctx), importLockKey, token); err != nil {
			s.logger.Warn("释放导入锁失败", zap.Error(err))
		}
	}()

	// 3. 读取工作簿，声明大小不可信，按实际读取的字节数再校验一次
	start := time.Now()
	if s.cfg.MaxUploadSize > 0 {
		data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxUploadSize+1))
		if err != nil {
			s.logger.Warn("读取上传文件失败", zap.String("filename", filename), zap.Error(err))
			return nil, ErrInvalidWorkbook
		}
		if int64(len(data)) > s.cfg.MaxUploadSize {
			return nil, ErrFileTooLarge
		}
		r = bytes.NewReader(data)
	}
	wb, err := importer.OpenWorkbook(r)
	if err != nil {
		s.logger.Warn("Excel 解析失败", zap.String("filename", filename), zap.Error(err))
		return nil, ErrInvalidWorkbook
	}

	// 4. 提取并写入
	summary := importer.NewCoordinator(s.repo, s.jobs, s.logger).Run(ctx, wb, operatorID)

	if summary.Accepted[importer.EntitySchedule] > 0 {
		publish(ctx, s.publisher, s.logger, realtime.ChangeEvent{
			Channel: realtime.ChannelSchedules,
			Table:   tableAvailability,
			Action:  realtime.ActionBulk,
			Data:    map[string]int{"count": summary.Accepted[importer.EntitySchedule]},
		})
	}
	if summary.Accepted[importer.EntityRaid] > 0 {
		publish(ctx, s.publisher, s.logger, realtime.ChangeEvent{
			Channel: realtime.ChannelRaids,
			Table:   tableRaids,
			Action:  realtime.ActionBulk,
			Data:    map[string]int{"count": summary.Accepted[importer.EntityRaid]},
		})
	}

	return &dto.ImportResponse{
		Filename: filename,
		Summary:  summary,
		Duration: time.Since(start).Round(time.Millisecond).String(),
	}, nil
}
