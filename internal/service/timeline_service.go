package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tdjunwei/lostark-raid-schedule/internal/dto"
	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
	"github.com/tdjunwei/lostark-raid-schedule/internal/realtime"
	"github.com/tdjunwei/lostark-raid-schedule/internal/repository"
	"github.com/tdjunwei/lostark-raid-schedule/internal/timeline"
	pkgerrors "github.com/tdjunwei/lostark-raid-schedule/pkg/errors"
)

// ── 关卡进度模块业务错误 ──

var (
	ErrGateNotFound    = errors.New("关卡不存在")
	ErrGateExists      = errors.New("该副本已存在同名关卡")
	ErrEmptyGateUpdate = errors.New("未提供需要更新的内容")
)

// TimelineService 副本关卡进度业务接口
//
// 关卡状态变更与副本完成判定在同一事务内完成，事务开始即锁定副本行，
// 同一副本的关卡写入因此串行；副本最后一个关卡完成时，副本状态只会被改为 COMPLETED 一次。
type TimelineService interface {
	List(ctx context.Context, raidID string) ([]dto.GateResponse, error)
	Create(ctx context.Context, raidID string, req *dto.CreateGateRequest) (*dto.GateTransitionResponse, error)
	// Transition 变更关卡状态和/或备注，req.Version 非空时做乐观锁校验
	Transition(ctx context.Context, raidID, gateID string, req *dto.UpdateGateRequest) (*dto.GateTransitionResponse, error)
	Delete(ctx context.Context, raidID, gateID string) error
}

type timelineService struct {
	repo      *repository.Repository
	publisher realtime.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewTimelineService 创建 TimelineService 实例
func NewTimelineService(repo *repository.Repository, publisher realtime.Publisher, logger *zap.Logger) TimelineService {
	return &timelineService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// ────────────────────── List ──────────────────────

func (s *timelineService) List(ctx context.Context, raidID string) ([]dto.GateResponse, error) {
	if _, err := s.getRaid(ctx, s.repo, raidID); err != nil {
		return nil, err
	}

	gates, err := s.repo.RaidGate.ListByRaid(ctx, raidID)
	if err != nil {
		s.logger.Error("查询关卡进度失败", zap.String("raid_id", raidID), zap.Error(err))
		return nil, err
	}
	return toGateResponses(gates), nil
}

// ────────────────────── Create ──────────────────────

func (s *timelineService) Create(ctx context.Context, raidID string, req *dto.CreateGateRequest) (*dto.GateTransitionResponse, error) {
	gate := &model.RaidGate{
		RaidID: raidID,
		Gate:   req.Gate,
		Status: model.GateStatusPending,
		Notes:  req.Notes,
	}

	var raidDone bool
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		raid, err := s.lockRaid(ctx, tx, raidID)
		if err != nil {
			return err
		}

		_, err = tx.RaidGate.GetByRaidAndGate(ctx, raidID, req.Gate)
		if err == nil {
			return ErrGateExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var eff timeline.Effects
		if to := model.GateStatus(req.Status); to != "" && to != model.GateStatusPending {
			if eff, err = timeline.Apply(gate, to, s.now()); err != nil {
				return err
			}
		}
		if err := tx.RaidGate.Create(ctx, gate); err != nil {
			return err
		}
		if eff.CheckRaidCompletion {
			raidDone, err = s.completeRaidIfDone(ctx, tx, raid)
			return err
		}
		return nil
	})
	if err != nil {
		s.logFailure("新增关卡失败", raidID, err)
		return nil, err
	}

	resp := &dto.GateTransitionResponse{Gate: *toGateResponse(gate), RaidCompleted: raidDone}
	s.publishGate(ctx, realtime.ActionInsert, gate, resp.Gate)
	if raidDone {
		s.publishRaidCompleted(ctx, raidID)
	}
	return resp, nil
}

// ────────────────────── Transition ──────────────────────

func (s *timelineService) Transition(ctx context.Context, raidID, gateID string, req *dto.UpdateGateRequest) (*dto.GateTransitionResponse, error) {
	if req.Status == "" && req.Notes == nil {
		return nil, ErrEmptyGateUpdate
	}

	var (
		gate     *model.RaidGate
		raidDone bool
	)
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		raid, err := s.lockRaid(ctx, tx, raidID)
		if err != nil {
			return err
		}
		gate, err = s.getGate(ctx, tx, raidID, gateID)
		if err != nil {
			return err
		}
		if req.Version != nil && *req.Version != gate.Version {
			return pkgerrors.ErrOptimisticLock
		}

		var eff timeline.Effects
		// 目标状态与当前相同时只更新备注
		if to := model.GateStatus(req.Status); to != "" && to != gate.Status {
			if eff, err = timeline.Apply(gate, to, s.now()); err != nil {
				return err
			}
		}
		if req.Notes != nil {
			gate.Notes = req.Notes
		}

		if err := tx.RaidGate.Update(ctx, gate); err != nil {
			return err
		}
		if eff.CheckRaidCompletion {
			raidDone, err = s.completeRaidIfDone(ctx, tx, raid)
			return err
		}
		return nil
	})
	if err != nil {
		s.logFailure("变更关卡状态失败", raidID, err)
		return nil, err
	}

	resp := &dto.GateTransitionResponse{Gate: *toGateResponse(gate), RaidCompleted: raidDone}
	s.publishGate(ctx, realtime.ActionUpdate, gate, resp.Gate)
	if raidDone {
		s.publishRaidCompleted(ctx, raidID)
	}
	return resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *timelineService) Delete(ctx context.Context, raidID, gateID string) error {
	gate, err := s.getGate(ctx, s.repo, raidID, gateID)
	if err != nil {
		return err
	}

	if err := s.repo.RaidGate.Delete(ctx, gateID); err != nil {
		s.logger.Error("删除关卡失败", zap.String("gate_id", gateID), zap.Error(err))
		return err
	}

	s.publishGate(ctx, realtime.ActionDelete, gate, nil)
	return nil
}

// ── 内部辅助方法 ──

func (s *timelineService) getRaid(ctx context.Context, repo *repository.Repository, raidID string) (*model.Raid, error) {
	raid, err := repo.Raid.GetByID(ctx, raidID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRaidNotFound
		}
		s.logger.Error("查询副本失败", zap.String("raid_id", raidID), zap.Error(err))
		return nil, err
	}
	return raid, nil
}

// getGate 查询关卡并确认其属于该副本
func (s *timelineService) getGate(ctx context.Context, repo *repository.Repository, raidID, gateID string) (*model.RaidGate, error) {
	gate, err := repo.RaidGate.GetByID(ctx, gateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGateNotFound
		}
		s.logger.Error("查询关卡失败", zap.String("gate_id", gateID), zap.Error(err))
		return nil, err
	}
	if gate.RaidID != raidID {
		return nil, ErrGateNotFound
	}
	return gate, nil
}

// lockRaid 在事务内锁定副本行，持锁期间其他事务对同一副本的关卡写入将等待
func (s *timelineService) lockRaid(ctx context.Context, tx *repository.Repository, raidID string) (*model.Raid, error) {
	raid, err := tx.Raid.GetForUpdate(ctx, raidID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRaidNotFound
		}
		s.logger.Error("锁定副本失败", zap.String("raid_id", raidID), zap.Error(err))
		return nil, err
	}
	return raid, nil
}

// completeRaidIfDone 全部关卡完成且副本尚未完成时，将副本标记为 COMPLETED，
// raid 须为本事务内 lockRaid 取得的副本
func (s *timelineService) completeRaidIfDone(ctx context.Context, tx *repository.Repository, raid *model.Raid) (bool, error) {
	raidID := raid.ID
	if raid.Status == model.RaidStatusCompleted {
		return false, nil
	}

	gates, err := tx.RaidGate.ListByRaid(ctx, raidID)
	if err != nil {
		return false, err
	}
	if !timeline.AllCompleted(gates) {
		return false, nil
	}

	if err := tx.Raid.UpdateStatus(ctx, raid, model.RaidStatusCompleted); err != nil {
		return false, err
	}
	s.logger.Info("副本全部关卡已完成", zap.String("raid_id", raidID))
	return true, nil
}

func (s *timelineService) logFailure(msg, raidID string, err error) {
	switch {
	case errors.Is(err, ErrRaidNotFound), errors.Is(err, ErrGateNotFound), errors.Is(err, ErrGateExists),
		errors.Is(err, timeline.ErrInvalidTransition), errors.Is(err, timeline.ErrUnknownStatus),
		errors.Is(err, pkgerrors.ErrOptimisticLock):
		s.logger.Debug(msg, zap.String("raid_id", raidID), zap.Error(err))
	default:
		s.logger.Error(msg, zap.String("raid_id", raidID), zap.Error(err))
	}
}

func (s *timelineService) publishGate(ctx context.Context, action realtime.Action, gate *model.RaidGate, data any) {
	publish(ctx, s.publisher, s.logger, realtime.ChangeEvent{
		Channel:  realtime.RaidTimelineChannel(gate.RaidID),
		Table:    tableRaidTimeline,
		Action:   action,
		RecordID: gate.ID,
		Data:     data,
	})
}

func (s *timelineService) publishRaidCompleted(ctx context.Context, raidID string) {
	publish(ctx, s.publisher, s.logger, realtime.ChangeEvent{
		Channel:  realtime.ChannelRaids,
		Table:    tableRaids,
		Action:   realtime.ActionUpdate,
		RecordID: raidID,
		Data:     map[string]string{"status": string(model.RaidStatusCompleted)},
	})
}

func toGateResponse(gate *model.RaidGate) *dto.GateResponse {
	return &dto.GateResponse{
		ID:          gate.ID,
		RaidID:      gate.RaidID,
		Gate:        gate.Gate,
		Status:      string(gate.Status),
		StartTime:   formatTimePtr(gate.StartTime),
		CompletedAt: formatTimePtr(gate.CompletedAt),
		Notes:       gate.Notes,
		Version:     gate.Version,
	}
}

func toGateResponses(gates []model.RaidGate) []dto.GateResponse {
	result := make([]dto.GateResponse, 0, len(gates))
	for i := range gates {
		result = append(result, *toGateResponse(&gates[i]))
	}
	return result
}
