package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
)

// JobRepository 职业目录数据访问接口
type JobRepository interface {
	GetJobByName(ctx context.Context, name string) (*model.Job, error)
	GetCategoryByName(ctx context.Context, name string) (*model.JobCategory, error)
	// EnsureCategory 按名称插入职业大类，已存在时不覆盖，返回库中的记录
	EnsureCategory(ctx context.Context, category *model.JobCategory) (*model.JobCategory, error)
	// EnsureJob 按名称插入职业，已存在时不覆盖，返回库中的记录
	EnsureJob(ctx context.Context, job *model.Job) (*model.Job, error)
	ListJobs(ctx context.Context) ([]model.Job, error)
	ListCategories(ctx context.Context) ([]model.JobCategory, error)
}

type jobRepo struct {
	db *gorm.DB
}

// NewJobRepo 创建 JobRepository 实例
func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) GetJobByName(ctx context.Context, name string) (*model.Job, error) {
	var job model.Job
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("name = ?", name).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepo) GetCategoryByName(ctx context.Context, name string) (*model.JobCategory, error) {
	var category model.JobCategory
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *jobRepo) EnsureCategory(ctx context.Context, category *model.JobCategory) (*model.JobCategory, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(category).Error
	if err != nil {
		return nil, err
	}
	return r.GetCategoryByName(ctx, category.Name)
}

func (r *jobRepo) EnsureJob(ctx context.Context, job *model.Job) (*model.Job, error) {
	err := r.db.WithContext(ctx).
		Omit("Category").
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(job).Error
	if err != nil {
		return nil, err
	}
	return r.GetJobByName(ctx, job.Name)
}

func (r *jobRepo) ListJobs(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.WithContext(ctx).Preload("Category").Order("name ASC").Find(&jobs).Error
	return jobs, err
}

func (r *jobRepo) ListCategories(ctx context.Context) ([]model.JobCategory, error) {
	var categories []model.JobCategory
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}
