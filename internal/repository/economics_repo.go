package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
)

// EconomicsRepository 副本收益数据访问接口
type EconomicsRepository interface {
	// Upsert 以 (user_id, raid_name) 为冲突键写入
	Upsert(ctx context.Context, economics *model.RaidEconomics) error
	ListByUser(ctx context.Context, userID string) ([]model.RaidEconomics, error)
}

type economicsRepo struct {
	db *gorm.DB
}

// NewEconomicsRepo 创建 EconomicsRepository 实例
func NewEconomicsRepo(db *gorm.DB) EconomicsRepository {
	return &economicsRepo{db: db}
}

func (r *economicsRepo) Upsert(ctx context.Context, economics *model.RaidEconomics) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "raid_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"phase1_cost", "phase2_cost", "phase3_cost", "phase4_cost",
			"total_cost", "active_gold", "bound_gold", "total_revenue", "profit_ratio",
			"updated_at",
		}),
	}).Create(economics).Error
}

func (r *economicsRepo) ListByUser(ctx context.Context, userID string) ([]model.RaidEconomics, error) {
	var rows []model.RaidEconomics
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("raid_name ASC").
		Find(&rows).Error
	return rows, err
}
