package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
)

// AvailabilitySlotRepository 每周空闲时段数据访问接口
type AvailabilitySlotRepository interface {
	Create(ctx context.Context, slot *model.AvailabilitySlot) error
	CreateBatch(ctx context.Context, slots []model.AvailabilitySlot) error
	GetByID(ctx context.Context, id string) (*model.AvailabilitySlot, error)
	ListByUser(ctx context.Context, userID string) ([]model.AvailabilitySlot, error)
	ListByUserAndDay(ctx context.Context, userID string, dayOfWeek int) ([]model.AvailabilitySlot, error)
	ListAll(ctx context.Context) ([]model.AvailabilitySlot, error)
	Update(ctx context.Context, slot *model.AvailabilitySlot) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	DeleteByUserAndDays(ctx context.Context, userID string, days []int) error
	// Upsert 以 (user_id, day_of_week, start_time) 为冲突键写入
	Upsert(ctx context.Context, slot *model.AvailabilitySlot) error
	// LockOwnerDay 获取 (owner, day) 的事务级咨询锁，仅在事务内有效
	LockOwnerDay(ctx context.Context, userID string, dayOfWeek int) error
}

type availabilitySlotRepo struct {
	db *gorm.DB
}

// NewAvailabilitySlotRepo 创建 AvailabilitySlotRepository 实例
func NewAvailabilitySlotRepo(db *gorm.DB) AvailabilitySlotRepository {
	return &availabilitySlotRepo{db: db}
}

func (r *availabilitySlotRepo) Create(ctx context.Context, slot *model.AvailabilitySlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *availabilitySlotRepo) CreateBatch(ctx context.Context, slots []model.AvailabilitySlot) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&slots).Error
}

func (r *availabilitySlotRepo) GetByID(ctx context.Context, id string) (*model.AvailabilitySlot, error) {
	var slot model.AvailabilitySlot
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *availabilitySlotRepo) ListByUser(ctx context.Context, userID string) ([]model.AvailabilitySlot, error) {
	var slots []model.AvailabilitySlot
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("day_of_week ASC, start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *availabilitySlotRepo) ListByUserAndDay(ctx context.Context, userID string, dayOfWeek int) ([]model.AvailabilitySlot, error) {
	var slots []model.AvailabilitySlot
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND day_of_week = ?", userID, dayOfWeek).
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *availabilitySlotRepo) ListAll(ctx context.Context) ([]model.AvailabilitySlot, error) {
	var slots []model.AvailabilitySlot
	err := r.db.WithContext(ctx).
		Order("user_id ASC, day_of_week ASC, start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *availabilitySlotRepo) Update(ctx context.Context, slot *model.AvailabilitySlot) error {
	return r.db.WithContext(ctx).
		Model(&model.AvailabilitySlot{}).
		Where("id = ?", slot.ID).
		Updates(map[string]interface{}{
			"day_of_week": slot.DayOfWeek,
			"start_time":  slot.StartTime,
			"end_time":    slot.EndTime,
			"available":   slot.Available,
			"note":        slot.Note,
			"updated_at":  gorm.Expr("NOW()"),
		}).Error
}

func (r *availabilitySlotRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.AvailabilitySlot{}).Error
}

func (r *availabilitySlotRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.AvailabilitySlot{})
	return result.RowsAffected, result.Error
}

func (r *availabilitySlotRepo) DeleteByUserAndDays(ctx context.Context, userID string, days []int) error {
	if len(days) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND day_of_week IN ?", userID, days).
		Delete(&model.AvailabilitySlot{}).Error
}

func (r *availabilitySlotRepo) Upsert(ctx context.Context, slot *model.AvailabilitySlot) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "day_of_week"}, {Name: "start_time"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"end_time":   slot.EndTime,
			"available":  slot.Available,
			"note":       slot.Note,
			"updated_at": gorm.Expr("NOW()"),
		}),
	}).Create(slot).Error
}

func (r *availabilitySlotRepo) LockOwnerDay(ctx context.Context, userID string, dayOfWeek int) error {
	key := fmt.Sprintf("availability:%s:%d", userID, dayOfWeek)
	return r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}
