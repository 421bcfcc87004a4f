package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
	pkgerrors "github.com/tdjunwei/lostark-raid-schedule/pkg/errors"
)

// RaidFilter 副本列表筛选条件
type RaidFilter struct {
	Status string
	Type   string
	Offset int
	Limit  int
}

// RaidRepository 副本团数据访问接口
type RaidRepository interface {
	GetByID(ctx context.Context, id string) (*model.Raid, error)
	// GetForUpdate 在事务内以 SELECT ... FOR UPDATE 读取副本，同一副本的并发写入按此串行
	GetForUpdate(ctx context.Context, id string) (*model.Raid, error)
	List(ctx context.Context, filter RaidFilter) ([]model.Raid, int64, error)
	// UpdateStatus 带乐观锁更新状态，version 不匹配时返回 ErrOptimisticLock
	UpdateStatus(ctx context.Context, raid *model.Raid, status model.RaidStatus) error
	// Upsert 以 (type, mode, scheduled_time) 为冲突键写入；
	// 已有副本仅在 PLANNED 时接受新状态，其余状态保持不变
	Upsert(ctx context.Context, raid *model.Raid) error
}

type raidRepo struct {
	db *gorm.DB
}

// NewRaidRepo 创建 RaidRepository 实例
func NewRaidRepo(db *gorm.DB) RaidRepository {
	return &raidRepo{db: db}
}

func (r *raidRepo) GetByID(ctx context.Context, id string) (*model.Raid, error) {
	var raid model.Raid
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&raid).Error; err != nil {
		return nil, err
	}
	return &raid, nil
}

func (r *raidRepo) GetForUpdate(ctx context.Context, id string) (*model.Raid, error) {
	var raid model.Raid
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&raid).Error
	if err != nil {
		return nil, err
	}
	return &raid, nil
}

func (r *raidRepo) List(ctx context.Context, filter RaidFilter) ([]model.Raid, int64, error) {
	var raids []model.Raid
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Raid{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("scheduled_time DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&raids).Error
	return raids, total, err
}

func (r *raidRepo) UpdateStatus(ctx context.Context, raid *model.Raid, status model.RaidStatus) error {
	oldVersion := raid.Version
	result := r.db.WithContext(ctx).
		Model(&model.Raid{}).
		Where("id = ? AND version = ?", raid.ID, oldVersion).
		Updates(map[string]interface{}{
			"status":     status,
			"version":    oldVersion + 1,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	raid.Status = status
	raid.Version = oldVersion + 1
	return nil
}

func (r *raidRepo) Upsert(ctx context.Context, raid *model.Raid) error {
	if raid.Version == 0 {
		raid.Version = 1
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "type"}, {Name: "mode"}, {Name: "scheduled_time"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"name":       raid.Name,
			"status":     gorm.Expr("CASE WHEN raids.status = ? THEN EXCLUDED.status ELSE raids.status END", string(model.RaidStatusPlanned)),
			"version":    gorm.Expr("raids.version + 1"),
			"updated_at": gorm.Expr("NOW()"),
		}),
	}).Create(raid).Error
}
