package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
)

// CharacterRepository 角色数据访问接口
type CharacterRepository interface {
	// Upsert 以 (user_id, nickname) 为冲突键写入，冲突时保留已有的 is_main 与 notes
	Upsert(ctx context.Context, character *model.Character) error
	GetByUserAndNickname(ctx context.Context, userID, nickname string) (*model.Character, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Character, int64, error)
}

type characterRepo struct {
	db *gorm.DB
}

// NewCharacterRepo 创建 CharacterRepository 实例
func NewCharacterRepo(db *gorm.DB) CharacterRepository {
	return &characterRepo{db: db}
}

func (r *characterRepo) Upsert(ctx context.Context, character *model.Character) error {
	return r.db.WithContext(ctx).
		Omit("Job").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "nickname"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"item_level", "job_id",
				"raid_dream", "raid_celestial", "raid_plague", "raid_ivory_tower",
				"updated_at",
			}),
		}).
		Create(character).Error
}

func (r *characterRepo) GetByUserAndNickname(ctx context.Context, userID, nickname string) (*model.Character, error) {
	var character model.Character
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND nickname = ?", userID, nickname).
		First(&character).Error
	if err != nil {
		return nil, err
	}
	return &character, nil
}

func (r *characterRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Character, int64, error) {
	var characters []model.Character
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Character{}).Where("user_id = ?", userID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Job.Category").
		Order("is_main DESC, item_level DESC").
		Offset(offset).
		Limit(limit).
		Find(&characters).Error
	return characters, total, err
}
