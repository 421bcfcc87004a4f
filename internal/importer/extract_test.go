package importer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
)

// ────────────────────── 角色 ──────────────────────

func TestExtractCharacters(t *testing.T) {
	wb := legacyWorkbook(t)
	s := mustSheet(t, wb, CharacterSheet)

	recs, diags := ExtractCharacters(s, headerOf(s, CharacterColumns))

	if len(recs) != 2 {
		t.Fatalf("期望 2 个角色，实际 %d: %+v", len(recs), recs)
	}
	afu := recs[0]
	if afu.Nickname != "阿福" || afu.Job != "聖騎士" || afu.ItemLevel != 1620.5 {
		t.Errorf("角色字段错误: %+v", afu)
	}
	if !afu.Dream || afu.Celestial || !afu.Plague || afu.IvoryTower {
		t.Errorf("参与标记错误: 夢幻=%v 天界=%v 瘟疫=%v 象牙塔=%v", afu.Dream, afu.Celestial, afu.Plague, afu.IvoryTower)
	}
	if afu.Row != 3 {
		t.Errorf("期望来源第 3 行，实际 %d", afu.Row)
	}

	if len(diags) != 2 {
		t.Fatalf("缺职业与非数值裝等应各产生一条诊断，实际 %d: %+v", len(diags), diags)
	}
	for _, d := range diags {
		if d.Entity != EntityCharacter || d.Sheet != CharacterSheet {
			t.Errorf("诊断归属错误: %+v", d)
		}
	}
}

func TestExtractCharacters_MissingMandatoryColumn(t *testing.T) {
	s := &Sheet{Name: CharacterSheet, Rows: [][]string{
		{},
		{"名稱", "裝等"},
		{"阿福", "1620"},
	}}

	recs, diags := ExtractCharacters(s, headerOf(s, CharacterColumns))
	if len(recs) != 0 {
		t.Errorf("缺少職業列时不应产生角色，实际 %d", len(recs))
	}
	if len(diags) != 1 || !strings.Contains(diags[0].Message, string(FieldJob)) {
		t.Errorf("应报告缺少的列，实际 %+v", diags)
	}
}

// ────────────────────── 空闲时段 ──────────────────────

func TestScheduleDayOfWeek_Table(t *testing.T) {
	want := map[int]int{1: 1, 2: 2, 3: 3, 4: 4, 5: 5, 6: 6, 7: 0}
	for col, day := range want {
		got, ok := ScheduleDayOfWeek(col)
		if !ok || got != day {
			t.Errorf("第 %d 列期望 day_of_week=%d，实际 %d (ok=%v)", col, day, got, ok)
		}
	}
	if _, ok := ScheduleDayOfWeek(0); ok {
		t.Error("偏移 0 为暱稱列本身，不应映射到星期")
	}
	if _, ok := ScheduleDayOfWeek(8); ok {
		t.Error("偏移 8 超出一周范围")
	}
}

func TestExtractSchedules(t *testing.T) {
	wb := legacyWorkbook(t)
	s := mustSheet(t, wb, ScheduleSheet)

	recs, diags := ExtractSchedules(s, headerOf(s, ScheduleColumns))
	if len(diags) != 0 {
		t.Fatalf("不应产生诊断，实际 %+v", diags)
	}
	// 去重前：阿福 4 条（含重复的週四 20:00）、路人 1 条
	if len(recs) != 5 {
		t.Fatalf("期望 5 条时段，实际 %d: %+v", len(recs), recs)
	}

	byKey := map[string]ScheduleRecord{}
	for _, r := range recs {
		byKey[r.Nickname+"/"+dayLabels[r.DayOfWeek]+"/"+r.Slot.Start+"-"+r.Slot.End] = r
	}

	if _, ok := byKey["阿福/週四/20:00-23:00"]; !ok {
		t.Error("第 5 列应映射为週四")
	}
	if r, ok := byKey["阿福/週五/21:00-02:00"]; !ok || !r.Slot.Overnight {
		t.Error("隔天标记的时段应为跨天")
	}
	if r, ok := byKey["阿福/週日/20:00-00:00"]; !ok || !r.Slot.Overnight {
		t.Errorf("旧写法 20-24 应转为 20:00-00:00 并跨天，实际=%v", byKey)
	}
	if _, ok := byKey["路人/週一/19:00-22:00"]; !ok {
		t.Error("第 2 列应映射为週一")
	}
}

func TestExtractSchedules_NicknameNotFirstColumn(t *testing.T) {
	s := &Sheet{Name: ScheduleSheet, Rows: [][]string{
		{"序號", "暱稱", "一", "二", "三", "四", "五", "六", "日"},
		{"1", "阿福", "19:00-22:00", "", "", "", "", "", "20:00-23:00"},
		{"2", "小白", "", "18:00-20:00"},
	}}

	recs, diags := ExtractSchedules(s, headerOf(s, ScheduleColumns))
	if len(diags) != 0 {
		t.Fatalf("不应产生诊断，实际 %+v", diags)
	}
	got := map[string]bool{}
	for _, r := range recs {
		got[r.Nickname+"/"+dayLabels[r.DayOfWeek]+"/"+r.Slot.Start] = true
	}
	want := []string{"阿福/週一/19:00", "阿福/週日/20:00", "小白/週二/18:00"}
	if len(recs) != len(want) {
		t.Fatalf("期望 %d 条时段，实际 %d: %+v", len(want), len(recs), recs)
	}
	for _, k := range want {
		if !got[k] {
			t.Errorf("星期列应从暱稱列之后开始计算，缺少 %s，实际 %v", k, got)
		}
	}
}

func TestExtractSchedules_FragmentErrors(t *testing.T) {
	s := &Sheet{Name: ScheduleSheet, Rows: [][]string{
		{"暱稱", "一"},
		{"阿福", "25:00 - 26:00, 15:00-17:00"},
		{"", "20:00-22:00"},
	}}

	recs, diags := ExtractSchedules(s, headerOf(s, ScheduleColumns))
	if len(recs) != 1 || recs[0].Slot.Start != "15:00" {
		t.Errorf("有效片段仍应被保留，实际 %+v", recs)
	}
	if len(diags) != 2 {
		t.Fatalf("期望 2 条诊断（非法片段、缺暱稱），实际 %d: %+v", len(diags), diags)
	}
	if !strings.Contains(diags[0].Message, "25:00 - 26:00") {
		t.Errorf("诊断应指出非法片段，实际=%s", diags[0].Message)
	}
	if !strings.Contains(diags[1].Message, ErrMissingValue.Error()) {
		t.Errorf("缺暱稱应报告缺少必填字段，实际=%s", diags[1].Message)
	}
}

func TestExtractSchedules_InternalConflict(t *testing.T) {
	s := &Sheet{Name: ScheduleSheet, Rows: [][]string{
		{"暱稱", "一"},
		{"阿福", "19:00-23:00, 22:00-23:30"},
	}}

	_, diags := ExtractSchedules(s, headerOf(s, ScheduleColumns))
	if len(diags) != 1 || !strings.Contains(diags[0].Message, "冲突") {
		t.Errorf("同一格内的重叠时段应报告冲突，实际 %+v", diags)
	}
}

func TestNormalizeLegacyRanges(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"20-24", "20:00 - 00:00"},
		{"9-12，19-03", "09:00 - 12:00, 19:00 - 03:00"},
		{"20:00 - 23:00", "20:00 - 23:00"},
		{"20-25", "20:00 - 25:00"},
	}
	for _, tt := range tests {
		if got := normalizeLegacyRanges(tt.in); got != tt.want {
			t.Errorf("normalizeLegacyRanges(%q) = %q，期望 %q", tt.in, got, tt.want)
		}
	}
}

// ────────────────────── 副本 ──────────────────────

func TestExtractRaidParticipation(t *testing.T) {
	wb := legacyWorkbook(t)
	s := mustSheet(t, wb, "天界")

	recs := ExtractRaidParticipation(s, RaidSheets[0])
	if len(recs) != 2 {
		t.Fatalf("期望 2 次开团，实际 %d: %+v", len(recs), recs)
	}

	first := recs[0]
	wantDate := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	if !first.Date.Equal(wantDate) {
		t.Errorf("序列号 45000 应为 2023-03-15，实际 %v", first.Date)
	}
	if first.Type != model.RaidTypeCelestial || first.Mode != model.RaidModeNormal {
		t.Errorf("副本类型错误: %s/%s", first.Type, first.Mode)
	}
	if strings.Join(first.Participants, ",") != "阿福,小白" {
		t.Errorf("参与者应排除数值与标签，实际 %v", first.Participants)
	}
}

func TestExtractRaidParticipation_SkipsRowsWithoutParticipants(t *testing.T) {
	s := &Sheet{Name: "瘟疫", Rows: [][]string{
		{"45000", "日期"},
		{"39999", "阿福"},
	}}

	if recs := ExtractRaidParticipation(s, RaidSheets[3]); len(recs) != 0 {
		t.Errorf("无参与者或序列号越界的行应跳过，实际 %+v", recs)
	}
}

// ────────────────────── 收益 ──────────────────────

func TestProfitRatio(t *testing.T) {
	tests := []struct {
		name          string
		revenue, cost int64
		want          float64
	}{
		{"零成本有收益", 500, 0, 100},
		{"零成本无收益", 0, 0, 0},
		{"正常收益", 1500, 1000, 50},
		{"亏损", 500, 1000, -50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProfitRatio(tt.revenue, tt.cost); got != tt.want {
				t.Errorf("ProfitRatio(%d, %d) = %v，期望 %v", tt.revenue, tt.cost, got, tt.want)
			}
		})
	}
}

func TestExtractEconomics(t *testing.T) {
	wb := legacyWorkbook(t)
	s := mustSheet(t, wb, EconomicsSheet)

	recs, diags := ExtractEconomics(s, headerOf(s, EconomicsColumns))
	if len(recs) != 2 {
		t.Fatalf("期望 2 条收益，实际 %d: %+v", len(recs), recs)
	}

	celestial := recs[0]
	if celestial.TotalCost != 1000 || celestial.Revenue != 1500 || celestial.ProfitRatio != 50 {
		t.Errorf("天界收益计算错误: %+v", celestial)
	}
	if celestial.Phase1Cost != 500 || celestial.Phase2Cost != 500 {
		t.Errorf("阶段成本应取绝对值: %+v", celestial)
	}

	dream := recs[1]
	if dream.Revenue != 500 || dream.ProfitRatio != 100 {
		t.Errorf("總收益为空时应以活金+綁金计算，且零成本记 100: %+v", dream)
	}

	if len(diags) != 1 || diags[0].Entity != EntityEconomics || !strings.Contains(diags[0].Message, ErrNotNumeric.Error()) {
		t.Errorf("非数值活金应产生一条诊断，实际 %+v", diags)
	}
}

// ────────────────────── 目录类 ──────────────────────

func TestExtractRewards(t *testing.T) {
	wb := legacyWorkbook(t)
	s := mustSheet(t, wb, RewardSheet)

	recs := ExtractRewards(s, headerOf(s, RewardColumns))
	if len(recs) != 2 {
		t.Fatalf("期望 2 条奖励，实际 %d", len(recs))
	}
	if recs[0].GoldValue != 120 || recs[1].GoldValue != 0 || recs[1].Quantity != 1 {
		t.Errorf("金值解析错误: %+v", recs)
	}
}

func TestExtractAchievements_PositionalFallback(t *testing.T) {
	wb := legacyWorkbook(t)
	s := mustSheet(t, wb, "島之心")

	recs := ExtractAchievements(s, headerOf(s, AchievementColumns))
	if len(recs) != 2 {
		t.Fatalf("无表头时应按位置读取全部行，实际 %d", len(recs))
	}
	if !recs[0].Completed || recs[1].Completed || recs[0].Category != "島之心" {
		t.Errorf("收集进度解析错误: %+v", recs)
	}
}

func TestExtractAchievements_WithHeader(t *testing.T) {
	s := &Sheet{Name: "巨人之心", Rows: [][]string{
		{"編號", "名稱", "完成"},
		{"1", "第一顆", "1"},
	}}

	recs := ExtractAchievements(s, headerOf(s, AchievementColumns))
	if len(recs) != 1 || recs[0].Name != "第一顆" || !recs[0].Completed {
		t.Errorf("有表头时应按列读取，实际 %+v", recs)
	}
}

func TestExtractGemPrices(t *testing.T) {
	wb := legacyWorkbook(t)
	s := mustSheet(t, wb, "寶石價格")

	recs := ExtractGemPrices(s, headerOf(s, GemPriceColumns))
	if len(recs) != 2 {
		t.Fatalf("期望 2 条宝石价格，实际 %d", len(recs))
	}
	if recs[1].GemType != unknownGemType {
		t.Errorf("缺少類型时应记为 unknown，实际 %s", recs[1].GemType)
	}
}

func TestExtractGuides(t *testing.T) {
	wb := legacyWorkbook(t)
	s := mustSheet(t, wb, "副本攻略")

	recs := ExtractGuides(s)
	if len(recs) != 2 {
		t.Fatalf("期望 2 条攻略，实际 %d", len(recs))
	}
	if recs[0].Content != "第一關 注意紅圈" {
		t.Errorf("短文本与数值应被忽略，实际 %q", recs[0].Content)
	}
	if recs[1].Content != "第二關 分組站位 | 先打左邊的柱子" || recs[1].Row != 3 {
		t.Errorf("多段文本应以 | 连接并保留行号，实际 %+v", recs[1])
	}
}

func TestIsGuideSheet(t *testing.T) {
	for name, want := range map[string]bool{"副本攻略": true, "新手指南": true, "Raid Guide": true, "收益金": false} {
		if got := IsGuideSheet(name); got != want {
			t.Errorf("IsGuideSheet(%q) = %v，期望 %v", name, got, want)
		}
	}
}

func TestExtractMissions(t *testing.T) {
	wb := legacyWorkbook(t)
	s := mustSheet(t, wb, MissionSheet)

	recs := ExtractMissions(s, headerOf(s, MissionColumns))
	if len(recs) != 2 {
		t.Fatalf("期望 2 条委托，实际 %d", len(recs))
	}
	if !recs[0].Completed || recs[0].Reputation == nil || *recs[0].Reputation != 120 {
		t.Errorf("已完成委托解析错误: %+v", recs[0])
	}
	if recs[1].Completed || recs[1].Reputation != nil || recs[1].Reward != nil {
		t.Errorf("进行中委托解析错误: %+v", recs[1])
	}
}

// ────────────────────── 整体提取 ──────────────────────

func TestExtract_DedupesLastWriterWins(t *testing.T) {
	ex := Extract(legacyWorkbook(t))

	found := ex.Found()
	want := map[EntityKind]int{
		EntityCharacter:   2,
		EntitySchedule:    4,
		EntityRaid:        2,
		EntityEconomics:   2,
		EntityReward:      2,
		EntityAchievement: 2,
		EntityGemPrice:    2,
		EntityGuide:       2,
		EntityMission:     2,
	}
	for k, v := range want {
		if found[k] != v {
			t.Errorf("%s 期望 %d 条，实际 %d", k, v, found[k])
		}
	}

	for _, r := range ex.Schedules {
		if r.Nickname == "阿福" && r.DayOfWeek == 4 && r.Slot.End != "23:30" {
			t.Errorf("同键时段应以后出现者为准，实际结束于 %s", r.Slot.End)
		}
	}
	if len(ex.Diagnostics) != 3 {
		t.Errorf("期望 3 条诊断，实际 %d: %+v", len(ex.Diagnostics), ex.Diagnostics)
	}
}

func TestExtract_MissingSheetsAreSkipped(t *testing.T) {
	ex := Extract(NewWorkbook(Sheet{Name: "無關工作表", Rows: [][]string{{"x"}}}))

	for k, n := range ex.Found() {
		if n != 0 {
			t.Errorf("%s 不应有记录，实际 %d", k, n)
		}
	}
}

func TestOpenWorkbook_Unreadable(t *testing.T) {
	_, err := OpenWorkbook(strings.NewReader("not a workbook"))
	if !errors.Is(err, ErrWorkbookUnreadable) {
		t.Errorf("期望 ErrWorkbookUnreadable，实际 %v", err)
	}
}
