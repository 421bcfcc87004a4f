package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tdjunwei/lostark-raid-schedule/internal/dto"
	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
	"github.com/tdjunwei/lostark-raid-schedule/internal/repository"
)

// ── 副本模块业务错误 ──

var (
	ErrRaidNotFound = errors.New("副本不存在")
)

// RaidService 副本查询业务接口
type RaidService interface {
	List(ctx context.Context, req *dto.RaidListRequest) ([]dto.RaidResponse, int64, error)
	Get(ctx context.Context, id string) (*dto.RaidDetailResponse, error)
}

type raidService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRaidService 创建 RaidService 实例
func NewRaidService(repo *repository.Repository, logger *zap.Logger) RaidService {
	return &raidService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *raidService) List(ctx context.Context, req *dto.RaidListRequest) ([]dto.RaidResponse, int64, error) {
	raids, total, err := s.repo.Raid.List(ctx, repository.RaidFilter{
		Status: req.Status,
		Type:   req.Type,
		Offset: req.GetOffset(),
		Limit:  req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("查询副本列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.RaidResponse, 0, len(raids))
	for i := range raids {
		result = append(result, *toRaidResponse(&raids[i]))
	}
	return result, total, nil
}

// ────────────────────── Get ──────────────────────

func (s *raidService) Get(ctx context.Context, id string) (*dto.RaidDetailResponse, error) {
	raid, err := s.repo.Raid.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRaidNotFound
		}
		s.logger.Error("查询副本失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	gates, err := s.repo.RaidGate.ListByRaid(ctx, id)
	if err != nil {
		s.logger.Error("查询关卡进度失败", zap.String("raid_id", id), zap.Error(err))
		return nil, err
	}
	participants, err := s.repo.RaidParticipant.ListByRaid(ctx, id)
	if err != nil {
		s.logger.Error("查询参团成员失败", zap.String("raid_id", id), zap.Error(err))
		return nil, err
	}

	resp := &dto.RaidDetailResponse{
		RaidResponse: *toRaidResponse(raid),
		Gates:        toGateResponses(gates),
		Participants: make([]dto.ParticipantResponse, 0, len(participants)),
	}
	for _, p := range participants {
		resp.Participants = append(resp.Participants, dto.ParticipantResponse{
			ID:          p.ID,
			CharacterID: p.CharacterID,
			Status:      string(p.Status),
			Position:    p.Position,
		})
	}
	return resp, nil
}

// ── 内部辅助方法 ──

func toRaidResponse(r *model.Raid) *dto.RaidResponse {
	return &dto.RaidResponse{
		ID:              r.ID,
		Name:            r.Name,
		Type:            string(r.Type),
		Mode:            string(r.Mode),
		Gate:            r.Gate,
		ScheduledTime:   formatTime(r.ScheduledTime),
		Status:          string(r.Status),
		MaxPlayers:      r.MaxPlayers,
		RequiredDPS:     r.RequiredDPS,
		RequiredSupport: r.RequiredSupport,
		MinItemLevel:    r.MinItemLevel,
		Notes:           r.Notes,
		Version:         r.Version,
		CreatedAt:       formatTime(r.CreatedAt),
		UpdatedAt:       formatTime(r.UpdatedAt),
	}
}
