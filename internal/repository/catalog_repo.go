package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
)

// CatalogRepository 奖励、收集、宝石、攻略与委托的数据访问接口
// 均为导入专用的幂等写入
type CatalogRepository interface {
	UpsertReward(ctx context.Context, reward *model.RaidReward) error
	UpsertAchievement(ctx context.Context, achievement *model.Achievement) error
	UpsertGemPrice(ctx context.Context, gem *model.GemPrice) error
	UpsertGuide(ctx context.Context, guide *model.Guide) error
	UpsertMission(ctx context.Context, mission *model.Mission) error
}

type catalogRepo struct {
	db *gorm.DB
}

// NewCatalogRepo 创建 CatalogRepository 实例
func NewCatalogRepo(db *gorm.DB) CatalogRepository {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) upsert(ctx context.Context, value interface{}, keys []string, updates []string) error {
	columns := make([]clause.Column, len(keys))
	for i, k := range keys {
		columns[i] = clause.Column{Name: k}
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   columns,
		DoUpdates: clause.AssignmentColumns(append(updates, "updated_at")),
	}).Create(value).Error
}

func (r *catalogRepo) UpsertReward(ctx context.Context, reward *model.RaidReward) error {
	return r.upsert(ctx, reward, []string{"raid_name", "item_name"}, []string{"quantity", "gold_value"})
}

func (r *catalogRepo) UpsertAchievement(ctx context.Context, achievement *model.Achievement) error {
	return r.upsert(ctx, achievement, []string{"user_id", "category", "name"}, []string{"completed"})
}

func (r *catalogRepo) UpsertGemPrice(ctx context.Context, gem *model.GemPrice) error {
	return r.upsert(ctx, gem, []string{"category", "level", "gem_type"}, []string{"price"})
}

func (r *catalogRepo) UpsertGuide(ctx context.Context, guide *model.Guide) error {
	return r.upsert(ctx, guide, []string{"category", "row_number"}, []string{"content", "cells"})
}

func (r *catalogRepo) UpsertMission(ctx context.Context, mission *model.Mission) error {
	return r.upsert(ctx, mission, []string{"user_id", "name"}, []string{"reputation", "reward", "status", "completed"})
}
