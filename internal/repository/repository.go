package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Availability    AvailabilitySlotRepository
	UserProfile     UserProfileRepository
	Job             JobRepository
	Character       CharacterRepository
	Raid            RaidRepository
	RaidGate        RaidGateRepository
	RaidParticipant RaidParticipantRepository
	Economics       EconomicsRepository
	Catalog         CatalogRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:              db,
		Availability:    NewAvailabilitySlotRepo(db),
		UserProfile:     NewUserProfileRepo(db),
		Job:             NewJobRepo(db),
		Character:       NewCharacterRepo(db),
		Raid:            NewRaidRepo(db),
		RaidGate:        NewRaidGateRepo(db),
		RaidParticipant: NewRaidParticipantRepo(db),
		Economics:       NewEconomicsRepo(db),
		Catalog:         NewCatalogRepo(db),
	}
}

// Transaction 在同一事务中执行 fn，fn 收到绑定到事务的 Repository
// 未绑定数据库时（单元测试注入 mock）直接以自身执行
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
