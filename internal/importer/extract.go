package importer

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
	"github.com/tdjunwei/lostark-raid-schedule/internal/timerange"
)

// ── 提取错误 ──

var (
	ErrMissingColumn = errors.New("缺少必需的列")
	ErrMissingValue  = errors.New("缺少必填字段")
	ErrNotNumeric    = errors.New("应为数值")
)

var validate = validator.New()

func validateRecord(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("字段 %s 校验失败 (%s)", fe.Field(), fe.Tag())
		}
		return err
	}
	return nil
}

// ────────────────────── 裝等表 ──────────────────────

// ExtractCharacters 提取角色：名稱、職業、數值裝等为必填
func ExtractCharacters(sheet *Sheet, cols ColumnMap) ([]CharacterRecord, []Diagnostic) {
	var records []CharacterRecord
	var diags []Diagnostic

	for _, f := range []Field{FieldName, FieldJob, FieldItemLevel} {
		if !cols.Has(f) {
			return nil, []Diagnostic{{
				Sheet: sheet.Name, Context: "表头", Entity: EntityCharacter,
				Message: fmt.Sprintf("%v: %s", ErrMissingColumn, f),
			}}
		}
	}

	for i := CharacterColumns.DataStart(); i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if blankRow(row) {
			continue
		}
		origin := Origin{Sheet: sheet.Name, Row: i + 1}
		fail := func(err error) {
			diags = append(diags, Diagnostic{Sheet: origin.Sheet, Context: origin.Context(), Entity: EntityCharacter, Message: err.Error()})
		}

		name := cellAt(row, cols.Index(FieldName))
		job := cellAt(row, cols.Index(FieldJob))
		if name == "" || job == "" {
			fail(fmt.Errorf("%w: 名稱/職業", ErrMissingValue))
			continue
		}
		level, ok := parseNumber(cellAt(row, cols.Index(FieldItemLevel)))
		if !ok {
			fail(fmt.Errorf("裝等%w", ErrNotNumeric))
			continue
		}

		rec := CharacterRecord{
			Origin:     origin,
			Nickname:   name,
			Job:        job,
			ItemLevel:  level,
			Dream:      isTruthy(cellAt(row, cols.Index(FieldDream))),
			Celestial:  isTruthy(cellAt(row, cols.Index(FieldCelestial))),
			Plague:     isTruthy(cellAt(row, cols.Index(FieldPlague))),
			IvoryTower: isTruthy(cellAt(row, cols.Index(FieldIvoryTower))),
		}
		if err := validateRecord(rec); err != nil {
			fail(err)
			continue
		}
		records = append(records, rec)
	}
	return records, diags
}

// ────────────────────── 暱稱表 ──────────────────────

// scheduleDayColumns 暱稱列之后第 1..7 列（週一..週日）到 day_of_week（0=週日）的映射
var scheduleDayColumns = map[int]int{
	1: 1,
	2: 2,
	3: 3,
	4: 4,
	5: 5,
	6: 6,
	7: 0,
}

// ScheduleDayOfWeek 返回暱稱列之后第 offset 列对应的 day_of_week
func ScheduleDayOfWeek(offset int) (int, bool) {
	d, ok := scheduleDayColumns[offset]
	return d, ok
}

var dayLabels = [7]string{"週日", "週一", "週二", "週三", "週四", "週五", "週六"}

var legacyHourRange = regexp.MustCompile(`^(\d{1,2})\s*-\s*(\d{1,2})$`)

// normalizeLegacyRanges 将旧表的 "20-24" 写法转为 "20:00 - 00:00"
func normalizeLegacyRanges(cell string) string {
	frags := strings.FieldsFunc(cell, func(r rune) bool {
		return r == ',' || r == '，' || r == '、'
	})
	for i, f := range frags {
		f = strings.TrimSpace(f)
		if m := legacyHourRange.FindStringSubmatch(f); m != nil {
			f = fmt.Sprintf("%s - %s", legacyHour(m[1]), legacyHour(m[2]))
		}
		frags[i] = f
	}
	return strings.Join(frags, ", ")
}

func legacyHour(h string) string {
	if h == "24" {
		return "00:00"
	}
	if len(h) == 1 {
		h = "0" + h
	}
	return h + ":00"
}

// ExtractSchedules 提取每人每天的空闲时段；星期列紧随暱稱列，表头缺暱稱时按首列处理
func ExtractSchedules(sheet *Sheet, cols ColumnMap) ([]ScheduleRecord, []Diagnostic) {
	var records []ScheduleRecord
	var diags []Diagnostic

	nameCol := cols.Index(FieldNickname)
	if nameCol < 0 {
		nameCol = 0
	}

	for i := ScheduleColumns.DataStart(); i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if blankRow(row) {
			continue
		}
		origin := Origin{Sheet: sheet.Name, Row: i + 1}

		nickname := cellAt(row, nameCol)
		if nickname == "" {
			diags = append(diags, Diagnostic{Sheet: origin.Sheet, Context: origin.Context(), Entity: EntitySchedule,
				Message: fmt.Errorf("%w: 暱稱", ErrMissingValue).Error()})
			continue
		}

		for off := 1; off <= 7; off++ {
			day, _ := ScheduleDayOfWeek(off)
			raw := cellAt(row, nameCol+off)
			if raw == "" {
				continue
			}
			ctx := fmt.Sprintf("%s %s %s", origin.Context(), nickname, dayLabels[day])

			res := timerange.Parse(normalizeLegacyRanges(raw))
			for _, ferr := range res.Errors {
				diags = append(diags, Diagnostic{Sheet: origin.Sheet, Context: ctx, Entity: EntitySchedule, Message: ferr.Error()})
			}
			if a, b, clash := timerange.FindInternalConflict(res.Slots); clash {
				diags = append(diags, Diagnostic{Sheet: origin.Sheet, Context: ctx, Entity: EntitySchedule,
					Message: fmt.Sprintf("%v: %s 与 %s",
						timerange.ErrConflict,
						timerange.Format(res.Slots[a].Start, res.Slots[a].End),
						timerange.Format(res.Slots[b].Start, res.Slots[b].End))})
			}

			for _, slot := range res.Slots {
				rec := ScheduleRecord{Origin: origin, Nickname: nickname, DayOfWeek: day, Slot: slot}
				if err := validateRecord(rec); err != nil {
					diags = append(diags, Diagnostic{Sheet: origin.Sheet, Context: ctx, Entity: EntitySchedule, Message: err.Error()})
					continue
				}
				records = append(records, rec)
			}
		}
	}
	return records, diags
}

// ────────────────────── 副本表 ──────────────────────

// RaidSheet 副本工作表与副本类型的对应
type RaidSheet struct {
	Name string
	Type model.RaidType
	Mode model.RaidMode
}

// RaidSheets 按导入顺序排列的副本工作表
var RaidSheets = []RaidSheet{
	{Name: "天界", Type: model.RaidTypeCelestial, Mode: model.RaidModeNormal},
	{Name: "夢幻", Type: model.RaidTypeDream, Mode: model.RaidModeNormal},
	{Name: "象牙塔", Type: model.RaidTypeIvoryTower, Mode: model.RaidModeNormal},
	{Name: "瘟疫", Type: model.RaidTypePlague, Mode: model.RaidModeNormal},
}

// 副本表中的标签单元格，不视为参与者
var raidLabelWords = []string{"日期", "時間", "定位", "裝分", "暱稱", "職業"}

func isRaidLabel(v string) bool {
	for _, w := range raidLabelWords {
		if strings.Contains(v, w) {
			return true
		}
	}
	return false
}

// ExtractRaidParticipation 扫描含日期序列号的行，行内其余文本单元格为参与者暱稱
// 不符合条件的行直接跳过
func ExtractRaidParticipation(sheet *Sheet, rs RaidSheet) []RaidRecord {
	var records []RaidRecord

	for i, row := range sheet.Rows {
		if blankRow(row) {
			continue
		}

		dateCol := -1
		for col, cell := range row {
			if _, ok := dateSerial(cell); ok {
				dateCol = col
				break
			}
		}
		if dateCol < 0 {
			continue
		}
		date, _ := dateSerial(row[dateCol])

		var participants []string
		for _, cell := range row {
			v := strings.TrimSpace(cell)
			if v == "" || isNumeric(v) || isRaidLabel(v) {
				continue
			}
			participants = append(participants, v)
		}

		rec := RaidRecord{
			Origin:       Origin{Sheet: sheet.Name, Row: i + 1},
			Type:         rs.Type,
			Mode:         rs.Mode,
			Label:        rs.Name,
			Date:         date,
			Participants: participants,
		}
		if validateRecord(rec) != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// ────────────────────── 收益金 ──────────────────────

// ProfitRatio 收益率（百分比）
// 成本为 0 时：有收益记 100，否则记 0
func ProfitRatio(revenue, cost int64) float64 {
	if cost > 0 {
		return float64(revenue-cost) / float64(cost) * 100
	}
	if revenue > 0 {
		return 100
	}
	return 0
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// ExtractEconomics 提取收益：副本、数值活金与綁金为必填
func ExtractEconomics(sheet *Sheet, cols ColumnMap) ([]EconomicsRecord, []Diagnostic) {
	var records []EconomicsRecord
	var diags []Diagnostic

	for _, f := range []Field{FieldRaid, FieldActiveGold, FieldBoundGold} {
		if !cols.Has(f) {
			return nil, []Diagnostic{{
				Sheet: sheet.Name, Context: "表头", Entity: EntityEconomics,
				Message: fmt.Sprintf("%v: %s", ErrMissingColumn, f),
			}}
		}
	}

	for i := EconomicsColumns.DataStart(); i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if blankRow(row) {
			continue
		}
		origin := Origin{Sheet: sheet.Name, Row: i + 1}
		fail := func(err error) {
			diags = append(diags, Diagnostic{Sheet: origin.Sheet, Context: origin.Context(), Entity: EntityEconomics, Message: err.Error()})
		}

		raid := cellAt(row, cols.Index(FieldRaid))
		if raid == "" {
			fail(fmt.Errorf("%w: 副本", ErrMissingValue))
			continue
		}
		active, okActive := parseGold(cellAt(row, cols.Index(FieldActiveGold)))
		bound, okBound := parseGold(cellAt(row, cols.Index(FieldBoundGold)))
		if !okActive || !okBound {
			fail(fmt.Errorf("活金/綁金%w", ErrNotNumeric))
			continue
		}

		cost, _ := parseGold(cellAt(row, cols.Index(FieldTotalCost)))
		cost = absInt64(cost)
		revenue, ok := parseGold(cellAt(row, cols.Index(FieldRevenue)))
		if !ok || revenue == 0 {
			revenue = active + bound
		}

		p1, _ := parseGold(cellAt(row, cols.Index(FieldPhase1)))
		p2, _ := parseGold(cellAt(row, cols.Index(FieldPhase2)))
		p3, _ := parseGold(cellAt(row, cols.Index(FieldPhase3)))
		p4, _ := parseGold(cellAt(row, cols.Index(FieldPhase4)))

		rec := EconomicsRecord{
			Origin:      origin,
			RaidName:    raid,
			Phase1Cost:  absInt64(p1),
			Phase2Cost:  absInt64(p2),
			Phase3Cost:  absInt64(p3),
			Phase4Cost:  absInt64(p4),
			TotalCost:   cost,
			ActiveGold:  active,
			BoundGold:   bound,
			Revenue:     revenue,
			ProfitRatio: math.Round(ProfitRatio(revenue, cost)*100) / 100,
		}
		if err := validateRecord(rec); err != nil {
			fail(err)
			continue
		}
		records = append(records, rec)
	}
	return records, diags
}

// ────────────────────── 副本獎勵表 ──────────────────────

// ExtractRewards 提取奖励道具：副本与道具为必填，金值非数值时记 0
func ExtractRewards(sheet *Sheet, cols ColumnMap) []RewardRecord {
	var records []RewardRecord
	if !cols.Has(FieldRaid) || !cols.Has(FieldItem) {
		return nil
	}

	for i := RewardColumns.DataStart(); i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if blankRow(row) {
			continue
		}
		gold, _ := parseGold(cellAt(row, cols.Index(FieldGoldValue)))
		rec := RewardRecord{
			Origin:    Origin{Sheet: sheet.Name, Row: i + 1},
			RaidName:  cellAt(row, cols.Index(FieldRaid)),
			ItemName:  cellAt(row, cols.Index(FieldItem)),
			Quantity:  1,
			GoldValue: gold,
		}
		if validateRecord(rec) != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// ────────────────────── 收集 ──────────────────────

// AchievementSheets 收集类工作表
var AchievementSheets = []string{"島之心", "巨人之心", "奧菲斯之星"}

// ExtractAchievements 提取收集进度，无表头时按第 1 列名称、第 2 列完成状态读取
func ExtractAchievements(sheet *Sheet, cols ColumnMap) []AchievementRecord {
	var records []AchievementRecord

	nameCol, doneCol, start := cols.Index(FieldName), cols.Index(FieldCompleted), AchievementColumns.DataStart()
	if nameCol < 0 {
		nameCol, doneCol, start = 0, 1, 0
	}

	for i := start; i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if blankRow(row) {
			continue
		}
		name := cellAt(row, nameCol)
		if isNumeric(name) {
			continue
		}
		rec := AchievementRecord{
			Origin:    Origin{Sheet: sheet.Name, Row: i + 1},
			Category:  sheet.Name,
			Name:      name,
			Completed: isTruthy(cellAt(row, doneCol)),
		}
		if validateRecord(rec) != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// ────────────────────── 寶石 ──────────────────────

// GemPriceSheets 宝石价格工作表
var GemPriceSheets = []string{"寶石比價系統", "寶石價格"}

const unknownGemType = "unknown"

// ExtractGemPrices 提取宝石价格：数值等級与價格为必填
func ExtractGemPrices(sheet *Sheet, cols ColumnMap) []GemPriceRecord {
	var records []GemPriceRecord
	if !cols.Has(FieldLevel) || !cols.Has(FieldPrice) {
		return nil
	}

	for i := GemPriceColumns.DataStart(); i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if blankRow(row) {
			continue
		}
		level, okLevel := parseNumber(cellAt(row, cols.Index(FieldLevel)))
		price, okPrice := parseGold(cellAt(row, cols.Index(FieldPrice)))
		if !okLevel || !okPrice || level != math.Trunc(level) {
			continue
		}
		gemType := cellAt(row, cols.Index(FieldGemType))
		if gemType == "" {
			gemType = unknownGemType
		}

		rec := GemPriceRecord{
			Origin:   Origin{Sheet: sheet.Name, Row: i + 1},
			Category: sheet.Name,
			Level:    int(level),
			GemType:  gemType,
			Price:    price,
		}
		if validateRecord(rec) != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// ────────────────────── 攻略 ──────────────────────

// IsGuideSheet 名称含 攻略/指南/guide 的工作表视为攻略
func IsGuideSheet(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(name, "攻略") || strings.Contains(name, "指南") || strings.Contains(lower, "guide")
}

const guideSeparator = " | "

// ExtractGuides 每行取长度超过 3 个字的文本单元格，以 " | " 连接
func ExtractGuides(sheet *Sheet) []GuideRecord {
	var records []GuideRecord

	for i, row := range sheet.Rows {
		var cells []string
		for _, cell := range row {
			v := strings.TrimSpace(cell)
			if runeLen(v) > 3 && !isNumeric(v) {
				cells = append(cells, v)
			}
		}
		if len(cells) == 0 {
			continue
		}
		rec := GuideRecord{
			Origin:   Origin{Sheet: sheet.Name, Row: i + 1},
			Category: sheet.Name,
			Content:  strings.Join(cells, guideSeparator),
			Cells:    cells,
		}
		if validateRecord(rec) != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// ────────────────────── 艾波娜委託 ──────────────────────

// MissionSheet 委托工作表名称
const MissionSheet = "艾波娜委託"

var completedStatuses = map[string]bool{"完成": true, "已完成": true, "done": true}

// ExtractMissions 提取委托：名称为必填，狀態为 完成/已完成/done 时视为完成
func ExtractMissions(sheet *Sheet, cols ColumnMap) []MissionRecord {
	var records []MissionRecord
	if !cols.Has(FieldName) {
		return nil
	}

	for i := MissionColumns.DataStart(); i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if blankRow(row) {
			continue
		}

		rec := MissionRecord{
			Origin: Origin{Sheet: sheet.Name, Row: i + 1},
			Name:   cellAt(row, cols.Index(FieldName)),
		}
		if rep, ok := parseGold(cellAt(row, cols.Index(FieldReputation))); ok {
			rec.Reputation = &rep
		}
		if reward := cellAt(row, cols.Index(FieldReward)); reward != "" {
			rec.Reward = &reward
		}
		if status := cellAt(row, cols.Index(FieldStatus)); status != "" {
			rec.Status = &status
			rec.Completed = completedStatuses[strings.ToLower(status)]
		}
		if validateRecord(rec) != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}
