package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/tdjunwei/lostark-raid-schedule/internal/dto"
	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
	"github.com/tdjunwei/lostark-raid-schedule/internal/repository"
)

// CharacterService 角色查询业务接口
type CharacterService interface {
	ListMine(ctx context.Context, userID string, req *dto.PaginationRequest) ([]dto.CharacterResponse, int64, error)
}

type characterService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCharacterService 创建 CharacterService 实例
func NewCharacterService(repo *repository.Repository, logger *zap.Logger) CharacterService {
	return &characterService{repo: repo, logger: logger}
}

func (s *characterService) ListMine(ctx context.Context, userID string, req *dto.PaginationRequest) ([]dto.CharacterResponse, int64, error) {
	characters, total, err := s.repo.Character.ListByUser(ctx, userID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询角色列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.CharacterResponse, 0, len(characters))
	for i := range characters {
		result = append(result, *toCharacterResponse(&characters[i]))
	}
	return result, total, nil
}

func toCharacterResponse(c *model.Character) *dto.CharacterResponse {
	resp := &dto.CharacterResponse{
		ID:             c.ID,
		Nickname:       c.Nickname,
		ItemLevel:      c.ItemLevel,
		IsMain:         c.IsMain,
		RaidDream:      c.RaidDream,
		RaidCelestial:  c.RaidCelestial,
		RaidPlague:     c.RaidPlague,
		RaidIvoryTower: c.RaidIvoryTower,
		Notes:          c.Notes,
	}
	if c.Job != nil {
		resp.Job = toJobResponse(c.Job)
	}
	return resp
}
