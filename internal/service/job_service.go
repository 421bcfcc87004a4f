package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tdjunwei/lostark-raid-schedule/config"
	"github.com/tdjunwei/lostark-raid-schedule/internal/dto"
	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
	"github.com/tdjunwei/lostark-raid-schedule/internal/repository"
)

// ── 职业模块业务错误 ──

var (
	ErrUnknownJob = errors.New("职业不在职业表中")
)

// JobService 职业目录业务接口
type JobService interface {
	// ResolveOrCreateJob 按名称返回职业，库中没有时依职业表建立大类与职业
	// 同名重复调用返回同一条记录
	ResolveOrCreateJob(ctx context.Context, name string) (*model.Job, error)
	Resolve(ctx context.Context, req *dto.ResolveJobRequest) (*dto.JobResponse, error)
	ListJobs(ctx context.Context) ([]dto.JobResponse, error)
	ListCategories(ctx context.Context) ([]dto.JobCategoryResponse, error)
}

type jobService struct {
	repo    *repository.Repository
	catalog *config.JobCatalog
	logger  *zap.Logger
}

// NewJobService 创建 JobService 实例
func NewJobService(repo *repository.Repository, catalog *config.JobCatalog, logger *zap.Logger) JobService {
	return &jobService{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
	}
}

// ────────────────────── ResolveOrCreateJob ──────────────────────

func (s *jobService) ResolveOrCreateJob(ctx context.Context, name string) (*model.Job, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrUnknownJob
	}

	job, err := s.repo.Job.GetJobByName(ctx, name)
	if err == nil {
		return job, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询职业失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	item, ok := s.catalog.Lookup(name)
	if !ok {
		return nil, ErrUnknownJob
	}

	icon := config.CategoryIcon(item.Category)
	category, err := s.repo.Job.EnsureCategory(ctx, &model.JobCategory{
		Name:  item.Category,
		Color: s.catalog.CategoryColor(item.Category),
		Icon:  &icon,
	})
	if err != nil {
		s.logger.Error("建立职业大类失败", zap.String("category", item.Category), zap.Error(err))
		return nil, err
	}

	logo := config.JobIcon(item.Name)
	job, err = s.repo.Job.EnsureJob(ctx, &model.Job{
		Name:       item.Name,
		CategoryID: category.ID,
		Role:       model.JobRole(item.Role),
		Logo:       &logo,
	})
	if err != nil {
		s.logger.Error("建立职业失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	if job.Category == nil {
		job.Category = category
	}

	s.logger.Info("职业已建立", zap.String("name", job.Name), zap.String("category", category.Name))
	return job, nil
}

// ────────────────────── Resolve ──────────────────────

func (s *jobService) Resolve(ctx context.Context, req *dto.ResolveJobRequest) (*dto.JobResponse, error) {
	job, err := s.ResolveOrCreateJob(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// ────────────────────── ListJobs ──────────────────────

func (s *jobService) ListJobs(ctx context.Context) ([]dto.JobResponse, error) {
	jobs, err := s.repo.Job.ListJobs(ctx)
	if err != nil {
		s.logger.Error("查询职业列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		result = append(result, *toJobResponse(&jobs[i]))
	}
	return result, nil
}

// ────────────────────── ListCategories ──────────────────────

func (s *jobService) ListCategories(ctx context.Context) ([]dto.JobCategoryResponse, error) {
	categories, err := s.repo.Job.ListCategories(ctx)
	if err != nil {
		s.logger.Error("查询职业大类失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.JobCategoryResponse, 0, len(categories))
	for i := range categories {
		result = append(result, *toJobCategoryResponse(&categories[i]))
	}
	return result, nil
}

// ── 内部辅助方法 ──

func toJobCategoryResponse(c *model.JobCategory) *dto.JobCategoryResponse {
	return &dto.JobCategoryResponse{
		ID:    c.ID,
		Name:  c.Name,
		Color: c.Color,
		Icon:  c.Icon,
	}
}

func toJobResponse(job *model.Job) *dto.JobResponse {
	resp := &dto.JobResponse{
		ID:   job.ID,
		Name: job.Name,
		Role: string(job.Role),
		Logo: job.Logo,
	}
	if job.Category != nil {
		resp.Category = toJobCategoryResponse(job.Category)
	}
	return resp
}
