package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tdjunwei/lostark-raid-schedule/internal/dto"
	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
	"github.com/tdjunwei/lostark-raid-schedule/internal/realtime"
	"github.com/tdjunwei/lostark-raid-schedule/internal/repository"
	"github.com/tdjunwei/lostark-raid-schedule/internal/timerange"
)

// ── 空闲时段模块业务错误 ──

var (
	ErrSlotNotFound       = errors.New("空闲时段不存在")
	ErrSlotForbidden      = errors.New("只能操作自己的空闲时段")
	ErrInvalidTimeRange   = errors.New("时间段无效")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// RangeErrors 整周文本中的全部解析错误，一处出错则整周不写入
type RangeErrors struct {
	Items []dto.RangeErrorResponse
}

func (e *RangeErrors) Error() string {
	return fmt.Sprintf("%v: 共 %d 处错误", ErrInvalidTimeRange, len(e.Items))
}

// Is 使 errors.Is(err, ErrInvalidTimeRange) 成立
func (e *RangeErrors) Is(target error) bool { return target == ErrInvalidTimeRange }

// AvailabilityService 每周空闲时段业务接口
//
// 单条写入在事务内完成：(成员, 星期) 咨询锁 → 读取当天时段 → 冲突检测 → 写入。
// 变更事件在事务提交后发布。
type AvailabilityService interface {
	ListMine(ctx context.Context, userID string) ([]dto.AvailabilityResponse, error)
	Create(ctx context.Context, req *dto.CreateAvailabilityRequest, callerID string) (*dto.AvailabilityResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateAvailabilityRequest, callerID string) (*dto.AvailabilityResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	ClearMine(ctx context.Context, callerID string) (int64, error)
	// ApplyTemplate 覆盖所选星期的全部时段，整体成功或整体失败
	ApplyTemplate(ctx context.Context, req *dto.ApplyTemplateRequest, callerID string) ([]dto.AvailabilityResponse, error)
	// ReplaceWeek 以整周文本替换本人全部时段
	ReplaceWeek(ctx context.Context, req *dto.ReplaceWeekRequest, callerID string) ([]dto.AvailabilityResponse, error)
	Parse(input string) *dto.ParseRangesResponse
	ExportICS(ctx context.Context, userID string) ([]byte, error)
	// ExportRoster 导出全员空闲表，版式与导入用的「暱稱」工作表一致
	ExportRoster(ctx context.Context) (*bytes.Buffer, string, error)
}

type availabilityService struct {
	repo      *repository.Repository
	publisher realtime.Publisher
	location  *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(repo *repository.Repository, publisher realtime.Publisher, location *time.Location, logger *zap.Logger) AvailabilityService {
	if location == nil {
		location = time.UTC
	}
	return &availabilityService{
		repo:      repo,
		publisher: publisher,
		location:  location,
		logger:    logger,
		now:       time.Now,
	}
}

// ────────────────────── ListMine ──────────────────────

func (s *availabilityService) ListMine(ctx context.Context, userID string) ([]dto.AvailabilityResponse, error) {
	slots, err := s.repo.Availability.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询空闲时段失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toAvailabilityResponses(slots), nil
}

// ────────────────────── Create ──────────────────────

func (s *availabilityService) Create(ctx context.Context, req *dto.CreateAvailabilityRequest, callerID string) (*dto.AvailabilityResponse, error) {
	cand, err := buildSlot(req.StartTime, req.EndTime, req.Overnight)
	if err != nil {
		return nil, err
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}
	slot := &model.AvailabilitySlot{
		UserID:    callerID,
		DayOfWeek: *req.DayOfWeek,
		StartTime: cand.Start,
		EndTime:   cand.End,
		Available: available,
		Note:      req.Note,
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := checkConflict(ctx, tx, callerID, slot.DayOfWeek, cand, ""); err != nil {
			return err
		}
		return tx.Availability.Create(ctx, slot)
	})
	if err != nil {
		if !errors.Is(err, timerange.ErrConflict) {
			s.logger.Error("创建空闲时段失败", zap.String("user_id", callerID), zap.Error(err))
		}
		return nil, err
	}

	resp := toAvailabilityResponse(slot)
	publish(ctx, s.publisher, s.logger, realtime.ChangeEvent{
		Channel:  realtime.ChannelSchedules,
		Table:    tableAvailability,
		Action:   realtime.ActionInsert,
		RecordID: slot.ID,
		OwnerID:  callerID,
		Data:     resp,
	})
	return resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *availabilityService) Update(ctx context.Context, id string, req *dto.UpdateAvailabilityRequest, callerID string) (*dto.AvailabilityResponse, error) {
	slot, err := s.getOwned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	start, end := slot.StartTime, slot.EndTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	cand, err := buildSlot(start, end, req.Overnight)
	if err != nil {
		return nil, err
	}

	if req.DayOfWeek != nil {
		slot.DayOfWeek = *req.DayOfWeek
	}
	slot.StartTime = cand.Start
	slot.EndTime = cand.End
	if req.Available != nil {
		slot.Available = *req.Available
	}
	if req.Note != nil {
		slot.Note = req.Note
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := checkConflict(ctx, tx, callerID, slot.DayOfWeek, cand, slot.ID); err != nil {
			return err
		}
		return tx.Availability.Update(ctx, slot)
	})
	if err != nil {
		if !errors.Is(err, timerange.ErrConflict) {
			s.logger.Error("更新空闲时段失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	resp := toAvailabilityResponse(slot)
	publish(ctx, s.publisher, s.logger, realtime.ChangeEvent{
		Channel:  realtime.ChannelSchedules,
		Table:    tableAvailability,
		Action:   realtime.ActionUpdate,
		RecordID: slot.ID,
		OwnerID:  callerID,
		Data:     resp,
	})
	return resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *availabilityService) Delete(ctx context.Context, id string, callerID string) error {
	slot, err := s.getOwned(ctx, id, callerID)
	if err != nil {
		return err
	}

	if err := s.repo.Availability.Delete(ctx, id); err != nil {
		s.logger.Error("删除空闲时段失败", zap.String("id", id), zap.Error(err))
		return err
	}

	publish(ctx, s.publisher, s.logger, realtime.ChangeEvent{
		Channel:  realtime.ChannelSchedules,
		Table:    tableAvailability,
		Action:   realtime.ActionDelete,
		RecordID: id,
		OwnerID:  slot.UserID,
	})
	return nil
}

// ────────────────────── ClearMine ──────────────────────

func (s *availabilityService) ClearMine(ctx context.Context, callerID string) (int64, error) {
	n, err := s.repo.Availability.DeleteByUser(ctx, callerID)
	if err != nil {
		s.logger.Error("清空空闲时段失败", zap.String("user_id", callerID), zap.Error(err))
		return 0, err
	}

	publish(ctx, s.publisher, s.logger, realtime.ChangeEvent{
		Channel: realtime.ChannelSchedules,
		Table:   tableAvailability,
		Action:  realtime.ActionBulk,
		OwnerID: callerID,
		Data:    map[string]int64{"deleted": n},
	})
	return n, nil
}

// ────────────────────── ApplyTemplate ──────────────────────

func (s *availabilityService) ApplyTemplate(ctx context.Context, req *dto.ApplyTemplateRequest, callerID string) ([]dto.AvailabilityResponse, error) {
	cand, err := buildSlot(req.StartTime, req.EndTime, req.Overnight)
	if err != nil {
		return nil, err
	}

	days := uniqueDays(req.Days)
	note := slotNote(req.Note, cand.Overnight)
	slots := make([]model.AvailabilitySlot, 0, len(days))
	for _, d := range days {
		slots = append(slots, model.AvailabilitySlot{
			UserID:    callerID,
			DayOfWeek: d,
			StartTime: cand.Start,
			EndTime:   cand.End,
			Available: true,
			Note:      note,
		})
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for _, d := range days {
			if err := tx.Availability.LockOwnerDay(ctx, callerID, d); err != nil {
				return err
			}
		}
		if err := tx.Availability.DeleteByUserAndDays(ctx, callerID, days); err != nil {
			return err
		}
		return tx.Availability.CreateBatch(ctx, slots)
	})
	if err != nil {
		s.logger.Error("套用时段模板失败", zap.String("user_id", callerID), zap.Ints("days", days), zap.Error(err))
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, realtime.ChangeEvent{
		Channel: realtime.ChannelSchedules,
		Table:   tableAvailability,
		Action:  realtime.ActionBulk,
		OwnerID: callerID,
		Data:    map[string][]int{"days": days},
	})
	return toAvailabilityResponses(slots), nil
}

// ────────────────────── ReplaceWeek ──────────────────────

func (s *availabilityService) ReplaceWeek(ctx context.Context, req *dto.ReplaceWeekRequest, callerID string) ([]dto.AvailabilityResponse, error) {
	byDay := make(map[int][]timerange.Slot, 7)
	var rangeErrs []dto.RangeErrorResponse

	for _, in := range req.Days {
		day := *in.DayOfWeek
		res := timerange.Parse(in.Ranges)
		for _, fe := range res.Errors {
			rangeErrs = append(rangeErrs, dto.RangeErrorResponse{DayOfWeek: intPtr(day), Fragment: fe.Fragment, Reason: fe.Err.Error()})
		}
		byDay[day] = append(byDay[day], res.Slots...)
	}

	var slots []model.AvailabilitySlot
	for day := 0; day < 7; day++ {
		daySlots := byDay[day]
		if a, b, clash := findClash(daySlots); clash {
			rangeErrs = append(rangeErrs, dto.RangeErrorResponse{
				DayOfWeek: intPtr(day),
				Fragment:  timerange.Format(daySlots[a].Start, daySlots[a].End) + ", " + timerange.Format(daySlots[b].Start, daySlots[b].End),
				Reason:    timerange.ErrConflict.Error(),
			})
			continue
		}
		sort.Slice(daySlots, func(i, j int) bool { return daySlots[i].Start < daySlots[j].Start })
		for _, ts := range daySlots {
			slots = append(slots, model.AvailabilitySlot{
				UserID:    callerID,
				DayOfWeek: day,
				StartTime: ts.Start,
				EndTime:   ts.End,
				Available: true,
				Note:      slotNote(nil, ts.Overnight),
			})
		}
	}
	if len(rangeErrs) > 0 {
		return nil, &RangeErrors{Items: rangeErrs}
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for day := 0; day < 7; day++ {
			if err := tx.Availability.LockOwnerDay(ctx, callerID, day); err != nil {
				return err
			}
		}
		if _, err := tx.Availability.DeleteByUser(ctx, callerID); err != nil {
			return err
		}
		return tx.Availability.CreateBatch(ctx, slots)
	})
	if err != nil {
		s.logger.Error("替换整周时段失败", zap.String("user_id", callerID), zap.Error(err))
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, realtime.ChangeEvent{
		Channel: realtime.ChannelSchedules,
		Table:   tableAvailability,
		Action:  realtime.ActionBulk,
		OwnerID: callerID,
		Data:    map[string]int{"count": len(slots)},
	})
	return toAvailabilityResponses(slots), nil
}

// ────────────────────── Parse ──────────────────────

func (s *availabilityService) Parse(input string) *dto.ParseRangesResponse {
	res := timerange.Parse(input)
	resp := &dto.ParseRangesResponse{
		Slots:  make([]timerange.Slot, 0, len(res.Slots)),
		Errors: make([]dto.RangeErrorResponse, 0, len(res.Errors)),
	}
	resp.Slots = append(resp.Slots, res.Slots...)
	for _, fe := range res.Errors {
		resp.Errors = append(resp.Errors, dto.RangeErrorResponse{Fragment: fe.Fragment, Reason: fe.Err.Error()})
	}
	return resp
}

// ────────────────────── ExportICS ──────────────────────

const icsProductID = "-//lostark-raid-schedule//availability//ZH"

func (s *availabilityService) ExportICS(ctx context.Context, userID string) ([]byte, error) {
	slots, err := s.repo.Availability.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询空闲时段失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	now := s.now().In(s.location)
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName("每周空闲时段")

	for i := range slots {
		slot := &slots[i]
		start, end := weeklyOccurrence(now, slot)

		ev := cal.AddEvent(slot.ID + "@lostark-raid-schedule")
		ev.SetDtStampTime(now)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		if slot.Available {
			ev.SetSummary("空闲")
		} else {
			ev.SetSummary("忙碌")
		}
		if slot.Note != nil && *slot.Note != "" {
			ev.SetDescription(*slot.Note)
		}
		ev.AddProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY")
	}

	return []byte(cal.Serialize()), nil
}

// weeklyOccurrence 时段在 ref 所在周（週日起）的具体起止时间，跨天时段结束于次日
func weeklyOccurrence(ref time.Time, slot *model.AvailabilitySlot) (time.Time, time.Time) {
	loc := ref.Location()
	weekStart := time.Date(ref.Year(), ref.Month(), ref.Day()-int(ref.Weekday()), 0, 0, 0, 0, loc)
	day := weekStart.AddDate(0, 0, slot.DayOfWeek)

	sm, em := timerange.Minutes(slot.StartTime), timerange.Minutes(slot.EndTime)
	start := time.Date(day.Year(), day.Month(), day.Day(), sm/60, sm%60, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), em/60, em%60, 0, 0, loc)
	if em <= sm {
		end = end.AddDate(0, 0, 1)
	}
	return start, end
}

// ────────────────────── ExportRoster ──────────────────────

const rosterSheet = "暱稱"

var rosterHeader = []interface{}{"暱稱", "一", "二", "三", "四", "五", "六", "日"}

// rosterColumn day_of_week 在空闲表中的列号（週一在第 1 列，週日在第 7 列）
func rosterColumn(day int) int {
	if day == 0 {
		return 7
	}
	return day
}

func (s *availabilityService) ExportRoster(ctx context.Context) (*bytes.Buffer, string, error) {
	slots, err := s.repo.Availability.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询空闲时段失败", zap.Error(err))
		return nil, "", err
	}

	// user_id → 星期列 → 时段文本
	cells := make(map[string]*[8][]string)
	var ids []string
	for _, slot := range slots {
		if !slot.Available {
			continue
		}
		row, ok := cells[slot.UserID]
		if !ok {
			row = &[8][]string{}
			cells[slot.UserID] = row
			ids = append(ids, slot.UserID)
		}
		col := rosterColumn(slot.DayOfWeek)
		row[col] = append(row[col], timerange.Format(slot.StartTime, slot.EndTime))
	}

	profiles, err := s.repo.UserProfile.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("查询成员资料失败", zap.Error(err))
		return nil, "", err
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })

	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(rosterSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")
	f.SetColWidth(rosterSheet, "A", "A", 14)
	f.SetColWidth(rosterSheet, "B", "H", 24)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	f.SetSheetRow(rosterSheet, "A1", &rosterHeader)
	f.SetCellStyle(rosterSheet, "A1", "H1", headerStyle)

	for i, p := range profiles {
		row := cells[p.ID]
		values := make([]interface{}, 8)
		values[0] = p.Name
		for col := 1; col <= 7; col++ {
			values[col] = strings.Join(row[col], ", ")
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(rosterSheet, cell, &values); err != nil {
			s.logger.Error("写入空闲表失败", zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("空闲时段_%s.xlsx", s.now().In(s.location).Format("20060102"))
	return buf, filename, nil
}

// ── 内部辅助方法 ──

func (s *availabilityService) getOwned(ctx context.Context, id, callerID string) (*model.AvailabilitySlot, error) {
	slot, err := s.repo.Availability.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("查询空闲时段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if slot.UserID != callerID {
		return nil, ErrSlotForbidden
	}
	return slot, nil
}

// checkConflict 在 (成员, 星期) 锁内检查候选时段，excludeID 为正在修改的时段
func checkConflict(ctx context.Context, tx *repository.Repository, ownerID string, day int, cand timerange.Slot, excludeID string) error {
	if err := tx.Availability.LockOwnerDay(ctx, ownerID, day); err != nil {
		return err
	}
	existing, err := tx.Availability.ListByUserAndDay(ctx, ownerID, day)
	if err != nil {
		return err
	}
	// 同一开始时间受唯一索引约束，原始文本比较判定不重叠时也算冲突
	for i := range existing {
		if existing[i].ID != excludeID && existing[i].StartTime == cand.Start {
			return &timerange.ConflictError{Existing: existing[i]}
		}
	}
	if hit, clash := timerange.FindConflict(existing, cand, excludeID); clash {
		return &timerange.ConflictError{Existing: *hit}
	}
	return nil
}

// findClash 待写入时段之间的重叠或重复开始时间
func findClash(slots []timerange.Slot) (int, int, bool) {
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			if slots[i].Start == slots[j].Start {
				return i, j, true
			}
		}
	}
	return timerange.FindInternalConflict(slots)
}

func buildSlot(start, end string, overnight *bool) (timerange.Slot, error) {
	mode := timerange.OvernightAuto
	if overnight != nil {
		if *overnight {
			mode = timerange.OvernightExplicit
		} else {
			mode = timerange.OvernightNone
		}
	}
	slot, err := timerange.New(start, end, mode)
	if err != nil {
		return timerange.Slot{}, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
	}
	return slot, nil
}

// slotNote 跨天时段的备注中追加「跨天到隔日」
func slotNote(note *string, overnight bool) *string {
	if !overnight {
		return note
	}
	v := timerange.OvernightNote
	if note != nil && strings.TrimSpace(*note) != "" {
		if strings.Contains(*note, timerange.OvernightNote) {
			return note
		}
		v = *note + "；" + timerange.OvernightNote
	}
	return &v
}

func uniqueDays(days []int) []int {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}

func intPtr(v int) *int { return &v }

// ConflictDetail 从冲突错误中取出已有时段，供接口返回给调用方
func ConflictDetail(err error) (*dto.ConflictResponse, bool) {
	var ce *timerange.ConflictError
	if !errors.As(err, &ce) {
		return nil, false
	}
	return &dto.ConflictResponse{Conflict: *toAvailabilityResponse(&ce.Existing)}, true
}

func toAvailabilityResponse(slot *model.AvailabilitySlot) *dto.AvailabilityResponse {
	return &dto.AvailabilityResponse{
		ID:        slot.ID,
		UserID:    slot.UserID,
		DayOfWeek: slot.DayOfWeek,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		Overnight: slot.EndTime <= slot.StartTime,
		Display:   timerange.Format(slot.StartTime, slot.EndTime),
		Available: slot.Available,
		Note:      slot.Note,
		CreatedAt: formatTime(slot.CreatedAt),
		UpdatedAt: formatTime(slot.UpdatedAt),
	}
}

func toAvailabilityResponses(slots []model.AvailabilitySlot) []dto.AvailabilityResponse {
	result := make([]dto.AvailabilityResponse, 0, len(slots))
	for i := range slots {
		result = append(result, *toAvailabilityResponse(&slots[i]))
	}
	return result
}
