package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
	"github.com/tdjunwei/lostark-raid-schedule/internal/repository"
	"github.com/tdjunwei/lostark-raid-schedule/internal/timerange"
)

// ── 引用错误 ──

var (
	ErrUnknownOwner       = errors.New("找不到该暱稱对应的成员")
	ErrUnknownParticipant = errors.New("找不到该暱稱对应的角色")
)

// 导入副本的默认编制
const (
	defaultMaxPlayers      = 8
	defaultRequiredDPS     = 6
	defaultRequiredSupport = 2
)

// JobResolver 按名称查找或创建职业
type JobResolver interface {
	ResolveOrCreateJob(ctx context.Context, name string) (*model.Job, error)
}

// Coordinator 导入协调器：提取全部记录后按固定顺序幂等写入
type Coordinator struct {
	repo   *repository.Repository
	jobs   JobResolver
	logger *zap.Logger
	now    func() time.Time
}

// NewCoordinator 创建导入协调器
func NewCoordinator(repo *repository.Repository, jobs JobResolver, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		repo:   repo,
		jobs:   jobs,
		logger: logger,
		now:    time.Now,
	}
}

// Run 导入一个工作簿，单条记录失败只记入结果，不中断整体
// 角色、收益、收集与委托归属于 operatorID
func (c *Coordinator) Run(ctx context.Context, wb *Workbook, operatorID string) *ImportSummary {
	ex := Extract(wb)

	summary := newSummary(wb.SheetNames())
	summary.Found = ex.Found()
	summary.Errors = append(summary.Errors, ex.Diagnostics...)

	c.writeCharacters(ctx, ex.Characters, operatorID, summary)
	c.writeSchedules(ctx, ex.Schedules, summary)
	c.writeRaids(ctx, ex.Raids, operatorID, summary)
	c.writeEconomics(ctx, ex.Economics, operatorID, summary)
	c.writeRewards(ctx, ex.Rewards, summary)
	c.writeAchievements(ctx, ex.Achievements, operatorID, summary)
	c.writeGemPrices(ctx, ex.GemPrices, summary)
	c.writeGuides(ctx, ex.Guides, summary)
	c.writeMissions(ctx, ex.Missions, operatorID, summary)

	c.logger.Info("Excel 导入完成",
		zap.String("operator", operatorID),
		zap.Int("accepted", summary.TotalAccepted()),
		zap.Int("errors", len(summary.Errors)),
	)
	return summary
}

func (c *Coordinator) record(summary *ImportSummary, o Origin, kind EntityKind, err error) {
	if err == nil {
		summary.Accepted[kind]++
		return
	}
	c.logger.Debug("导入记录失败", zap.String("sheet", o.Sheet), zap.Int("row", o.Row), zap.String("entity", string(kind)), zap.Error(err))
	summary.fail(o, kind, err)
}

// ────────────────────── 角色 ──────────────────────

func (c *Coordinator) writeCharacters(ctx context.Context, recs []CharacterRecord, operatorID string, summary *ImportSummary) {
	for _, rec := range recs {
		c.record(summary, rec.Origin, EntityCharacter, c.writeCharacter(ctx, rec, operatorID))
	}
}

func (c *Coordinator) writeCharacter(ctx context.Context, rec CharacterRecord, operatorID string) error {
	job, err := c.jobs.ResolveOrCreateJob(ctx, rec.Job)
	if err != nil {
		return fmt.Errorf("%s: %w", rec.Job, err)
	}
	return c.repo.Character.Upsert(ctx, &model.Character{
		UserID:         operatorID,
		Nickname:       rec.Nickname,
		ItemLevel:      rec.ItemLevel,
		JobID:          job.ID,
		RaidDream:      rec.Dream,
		RaidCelestial:  rec.Celestial,
		RaidPlague:     rec.Plague,
		RaidIvoryTower: rec.IvoryTower,
	})
}

// ────────────────────── 空闲时段 ──────────────────────

func (c *Coordinator) writeSchedules(ctx context.Context, recs []ScheduleRecord, summary *ImportSummary) {
	owners := make(map[string]string)
	for _, rec := range recs {
		c.record(summary, rec.Origin, EntitySchedule, c.writeSchedule(ctx, rec, owners))
	}
}

func (c *Coordinator) resolveOwner(ctx context.Context, nickname string, cache map[string]string) (string, error) {
	if id, ok := cache[nickname]; ok {
		return id, nil
	}
	profile, err := c.repo.UserProfile.GetByName(ctx, nickname)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: %s", ErrUnknownOwner, nickname)
		}
		return "", err
	}
	cache[nickname] = profile.ID
	return profile.ID, nil
}

func (c *Coordinator) writeSchedule(ctx context.Context, rec ScheduleRecord, owners map[string]string) error {
	ownerID, err := c.resolveOwner(ctx, rec.Nickname, owners)
	if err != nil {
		return err
	}

	note := "來自Excel: " + rec.Nickname
	if rec.Slot.Overnight {
		note += "；" + timerange.OvernightNote
	}
	slot := &model.AvailabilitySlot{
		UserID:    ownerID,
		DayOfWeek: rec.DayOfWeek,
		StartTime: rec.Slot.Start,
		EndTime:   rec.Slot.End,
		Available: true,
		Note:      &note,
	}

	return c.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Availability.LockOwnerDay(ctx, ownerID, rec.DayOfWeek); err != nil {
			return err
		}
		existing, err := tx.Availability.ListByUserAndDay(ctx, ownerID, rec.DayOfWeek)
		if err != nil {
			return err
		}
		// 同一开始时间的已有时段会被覆盖，不参与冲突判断
		exclude := ""
		for _, e := range existing {
			if e.StartTime == slot.StartTime {
				exclude = e.ID
				break
			}
		}
		if hit, clash := timerange.FindConflict(existing, rec.Slot, exclude); clash {
			return &timerange.ConflictError{Existing: *hit}
		}
		return tx.Availability.Upsert(ctx, slot)
	})
}

// ────────────────────── 副本与参团 ──────────────────────

func (c *Coordinator) writeRaids(ctx context.Context, recs []RaidRecord, operatorID string, summary *ImportSummary) {
	now := c.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	for _, rec := range recs {
		status := model.RaidStatusPlanned
		if rec.Date.Before(today) {
			status = model.RaidStatusCompleted
		}
		createdBy := operatorID
		raid := &model.Raid{
			Name:            fmt.Sprintf("%s %s", rec.Label, rec.Date.Format("2006-01-02")),
			Type:            rec.Type,
			Mode:            rec.Mode,
			ScheduledTime:   rec.Date,
			Status:          status,
			MaxPlayers:      defaultMaxPlayers,
			RequiredDPS:     defaultRequiredDPS,
			RequiredSupport: defaultRequiredSupport,
			CreatedBy:       &createdBy,
		}
		if err := c.repo.Raid.Upsert(ctx, raid); err != nil {
			c.record(summary, rec.Origin, EntityRaid, err)
			continue
		}
		c.record(summary, rec.Origin, EntityRaid, nil)

		participantStatus := model.ParticipantConfirmed
		if status == model.RaidStatusCompleted {
			participantStatus = model.ParticipantCompleted
		}
		for i, nickname := range rec.Participants {
			if err := c.writeParticipant(ctx, raid.ID, operatorID, nickname, participantStatus, i+1); err != nil {
				c.logger.Debug("参团记录写入失败", zap.String("raid", raid.Name), zap.String("nickname", nickname), zap.Error(err))
				summary.fail(rec.Origin, EntityRaid, err)
			}
		}
	}
}

func (c *Coordinator) writeParticipant(ctx context.Context, raidID, operatorID, nickname string, status model.ParticipantStatus, position int) error {
	character, err := c.repo.Character.GetByUserAndNickname(ctx, operatorID, nickname)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrUnknownParticipant, nickname)
		}
		return err
	}
	return c.repo.RaidParticipant.Upsert(ctx, &model.RaidParticipant{
		RaidID:      raidID,
		CharacterID: character.ID,
		Status:      status,
		Position:    &position,
	})
}

// ────────────────────── 收益与目录 ──────────────────────

func (c *Coordinator) writeEconomics(ctx context.Context, recs []EconomicsRecord, operatorID string, summary *ImportSummary) {
	for _, rec := range recs {
		err := c.repo.Economics.Upsert(ctx, &model.RaidEconomics{
			UserID:       operatorID,
			RaidName:     rec.RaidName,
			Phase1Cost:   rec.Phase1Cost,
			Phase2Cost:   rec.Phase2Cost,
			Phase3Cost:   rec.Phase3Cost,
			Phase4Cost:   rec.Phase4Cost,
			TotalCost:    rec.TotalCost,
			ActiveGold:   rec.ActiveGold,
			BoundGold:    rec.BoundGold,
			TotalRevenue: rec.Revenue,
			ProfitRatio:  rec.ProfitRatio,
		})
		c.record(summary, rec.Origin, EntityEconomics, err)
	}
}

func (c *Coordinator) writeRewards(ctx context.Context, recs []RewardRecord, summary *ImportSummary) {
	for _, rec := range recs {
		err := c.repo.Catalog.UpsertReward(ctx, &model.RaidReward{
			RaidName:  rec.RaidName,
			ItemName:  rec.ItemName,
			Quantity:  rec.Quantity,
			GoldValue: rec.GoldValue,
		})
		c.record(summary, rec.Origin, EntityReward, err)
	}
}

func (c *Coordinator) writeAchievements(ctx context.Context, recs []AchievementRecord, operatorID string, summary *ImportSummary) {
	for _, rec := range recs {
		err := c.repo.Catalog.UpsertAchievement(ctx, &model.Achievement{
			UserID:    operatorID,
			Category:  rec.Category,
			Name:      rec.Name,
			Completed: rec.Completed,
		})
		c.record(summary, rec.Origin, EntityAchievement, err)
	}
}

func (c *Coordinator) writeGemPrices(ctx context.Context, recs []GemPriceRecord, summary *ImportSummary) {
	for _, rec := range recs {
		err := c.repo.Catalog.UpsertGemPrice(ctx, &model.GemPrice{
			Category: rec.Category,
			Level:    rec.Level,
			GemType:  rec.GemType,
			Price:    rec.Price,
		})
		c.record(summary, rec.Origin, EntityGemPrice, err)
	}
}

func (c *Coordinator) writeGuides(ctx context.Context, recs []GuideRecord, summary *ImportSummary) {
	for _, rec := range recs {
		cells, err := json.Marshal(rec.Cells)
		if err == nil {
			err = c.repo.Catalog.UpsertGuide(ctx, &model.Guide{
				Category:  rec.Category,
				RowNumber: rec.Row,
				Content:   rec.Content,
				Cells:     datatypes.JSON(cells),
			})
		}
		c.record(summary, rec.Origin, EntityGuide, err)
	}
}

func (c *Coordinator) writeMissions(ctx context.Context, recs []MissionRecord, operatorID string, summary *ImportSummary) {
	for _, rec := range recs {
		err := c.repo.Catalog.UpsertMission(ctx, &model.Mission{
			UserID:     operatorID,
			Name:       rec.Name,
			Reputation: rec.Reputation,
			Reward:     rec.Reward,
			Status:     rec.Status,
			Completed:  rec.Completed,
		})
		c.record(summary, rec.Origin, EntityMission, err)
	}
}
