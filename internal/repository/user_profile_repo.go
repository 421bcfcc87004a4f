package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
)

// UserProfileRepository 成员资料数据访问接口
type UserProfileRepository interface {
	GetByID(ctx context.Context, id string) (*model.UserProfile, error)
	GetByName(ctx context.Context, name string) (*model.UserProfile, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.UserProfile, error)
}

type userProfileRepo struct {
	db *gorm.DB
}

// NewUserProfileRepo 创建 UserProfileRepository 实例
func NewUserProfileRepo(db *gorm.DB) UserProfileRepository {
	return &userProfileRepo{db: db}
}

func (r *userProfileRepo) GetByID(ctx context.Context, id string) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userProfileRepo) GetByName(ctx context.Context, name string) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userProfileRepo) ListByIDs(ctx context.Context, ids []string) ([]model.UserProfile, error) {
	var profiles []model.UserProfile
	if len(ids) == 0 {
		return profiles, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&profiles).Error
	return profiles, err
}
