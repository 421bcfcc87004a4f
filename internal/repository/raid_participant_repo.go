package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
)

// RaidParticipantRepository 参团记录数据访问接口
type RaidParticipantRepository interface {
	// Upsert 以 (raid_id, character_id) 为冲突键写入
	Upsert(ctx context.Context, participant *model.RaidParticipant) error
	ListByRaid(ctx context.Context, raidID string) ([]model.RaidParticipant, error)
}

type raidParticipantRepo struct {
	db *gorm.DB
}

// NewRaidParticipantRepo 创建 RaidParticipantRepository 实例
func NewRaidParticipantRepo(db *gorm.DB) RaidParticipantRepository {
	return &raidParticipantRepo{db: db}
}

func (r *raidParticipantRepo) Upsert(ctx context.Context, participant *model.RaidParticipant) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "raid_id"}, {Name: "character_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "position", "updated_at"}),
	}).Create(participant).Error
}

func (r *raidParticipantRepo) ListByRaid(ctx context.Context, raidID string) ([]model.RaidParticipant, error) {
	var participants []model.RaidParticipant
	err := r.db.WithContext(ctx).
		Where("raid_id = ?", raidID).
		Order("position ASC NULLS LAST, created_at ASC").
		Find(&participants).Error
	return participants, err
}
