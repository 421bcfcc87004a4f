package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
	pkgerrors "github.com/tdjunwei/lostark-raid-schedule/pkg/errors"
)

// RaidGateRepository 关卡进度数据访问接口
type RaidGateRepository interface {
	Create(ctx context.Context, gate *model.RaidGate) error
	GetByID(ctx context.Context, id string) (*model.RaidGate, error)
	GetByRaidAndGate(ctx context.Context, raidID, gate string) (*model.RaidGate, error)
	ListByRaid(ctx context.Context, raidID string) ([]model.RaidGate, error)
	// Update 带乐观锁更新，version 不匹配时返回 ErrOptimisticLock
	Update(ctx context.Context, gate *model.RaidGate) error
	Delete(ctx context.Context, id string) error
}

type raidGateRepo struct {
	db *gorm.DB
}

// NewRaidGateRepo 创建 RaidGateRepository 实例
func NewRaidGateRepo(db *gorm.DB) RaidGateRepository {
	return &raidGateRepo{db: db}
}

func (r *raidGateRepo) Create(ctx context.Context, gate *model.RaidGate) error {
	if gate.Version == 0 {
		gate.Version = 1
	}
	return r.db.WithContext(ctx).Create(gate).Error
}

func (r *raidGateRepo) GetByID(ctx context.Context, id string) (*model.RaidGate, error) {
	var gate model.RaidGate
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&gate).Error; err != nil {
		return nil, err
	}
	return &gate, nil
}

func (r *raidGateRepo) GetByRaidAndGate(ctx context.Context, raidID, gate string) (*model.RaidGate, error) {
	var g model.RaidGate
	err := r.db.WithContext(ctx).
		Where("raid_id = ? AND gate = ?", raidID, gate).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *raidGateRepo) ListByRaid(ctx context.Context, raidID string) ([]model.RaidGate, error) {
	var gates []model.RaidGate
	err := r.db.WithContext(ctx).
		Where("raid_id = ?", raidID).
		Order("gate ASC").
		Find(&gates).Error
	return gates, err
}

func (r *raidGateRepo) Update(ctx context.Context, gate *model.RaidGate) error {
	oldVersion := gate.Version
	result := r.db.WithContext(ctx).
		Model(&model.RaidGate{}).
		Where("id = ? AND version = ?", gate.ID, oldVersion).
		Updates(map[string]interface{}{
			"status":       gate.Status,
			"start_time":   gate.StartTime,
			"completed_at": gate.CompletedAt,
			"notes":        gate.Notes,
			"version":      oldVersion + 1,
			"updated_at":   gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	gate.Version = oldVersion + 1
	return nil
}

func (r *raidGateRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.RaidGate{}).Error
}
