package importer

// Extraction 一个工作簿的全部候选记录（已按冲突键去重）
type Extraction struct {
	Characters   []CharacterRecord
	Schedules    []ScheduleRecord
	Raids        []RaidRecord
	Economics    []EconomicsRecord
	Rewards      []RewardRecord
	Achievements []AchievementRecord
	GemPrices    []GemPriceRecord
	Guides       []GuideRecord
	Missions     []MissionRecord
	Diagnostics  []Diagnostic
}

// 固定的工作表名称
const (
	CharacterSheet = "裝等表"
	ScheduleSheet  = "暱稱"
	EconomicsSheet = "收益金"
	RewardSheet    = "副本獎勵表"
)

func headerOf(sheet *Sheet, set ColumnSet) ColumnMap {
	return ResolveColumns(sheet.Row(set.HeaderRow), set)
}

// Extract 按固定顺序运行全部提取器：
// 裝等表、暱稱、天界、夢幻、象牙塔、瘟疫、收益金、副本獎勵表、收集、寶石、攻略、艾波娜委託。
// 同一冲突键以后出现者为准。不存在的工作表直接跳过。
func Extract(wb *Workbook) *Extraction {
	ex := &Extraction{}

	if s, ok := wb.Sheet(CharacterSheet); ok {
		recs, diags := ExtractCharacters(s, headerOf(s, CharacterColumns))
		ex.Characters = append(ex.Characters, recs...)
		ex.Diagnostics = append(ex.Diagnostics, diags...)
	}

	if s, ok := wb.Sheet(ScheduleSheet); ok {
		recs, diags := ExtractSchedules(s, headerOf(s, ScheduleColumns))
		ex.Schedules = append(ex.Schedules, recs...)
		ex.Diagnostics = append(ex.Diagnostics, diags...)
	}

	for _, rs := range RaidSheets {
		if s, ok := wb.Sheet(rs.Name); ok {
			ex.Raids = append(ex.Raids, ExtractRaidParticipation(s, rs)...)
		}
	}

	if s, ok := wb.Sheet(EconomicsSheet); ok {
		recs, diags := ExtractEconomics(s, headerOf(s, EconomicsColumns))
		ex.Economics = append(ex.Economics, recs...)
		ex.Diagnostics = append(ex.Diagnostics, diags...)
	}

	if s, ok := wb.Sheet(RewardSheet); ok {
		ex.Rewards = append(ex.Rewards, ExtractRewards(s, headerOf(s, RewardColumns))...)
	}

	for _, name := range AchievementSheets {
		if s, ok := wb.Sheet(name); ok {
			ex.Achievements = append(ex.Achievements, ExtractAchievements(s, headerOf(s, AchievementColumns))...)
		}
	}

	for _, name := range GemPriceSheets {
		if s, ok := wb.Sheet(name); ok {
			ex.GemPrices = append(ex.GemPrices, ExtractGemPrices(s, headerOf(s, GemPriceColumns))...)
		}
	}

	for _, name := range wb.SheetNames() {
		if IsGuideSheet(name) {
			s, _ := wb.Sheet(name)
			ex.Guides = append(ex.Guides, ExtractGuides(s)...)
		}
	}

	if s, ok := wb.Sheet(MissionSheet); ok {
		ex.Missions = append(ex.Missions, ExtractMissions(s, headerOf(s, MissionColumns))...)
	}

	ex.dedupe()
	return ex
}

func (ex *Extraction) dedupe() {
	ex.Characters = dedupe(ex.Characters, func(r CharacterRecord) string { return r.Nickname })
	ex.Schedules = dedupe(ex.Schedules, func(r ScheduleRecord) scheduleKey {
		return scheduleKey{nickname: r.Nickname, day: r.DayOfWeek, start: r.Slot.Start}
	})
	ex.Raids = dedupe(ex.Raids, func(r RaidRecord) raidKey {
		return raidKey{typ: string(r.Type), mode: string(r.Mode), date: r.Date.Unix()}
	})
	ex.Economics = dedupe(ex.Economics, func(r EconomicsRecord) string { return r.RaidName })
	ex.Rewards = dedupe(ex.Rewards, func(r RewardRecord) pairKey { return pairKey{r.RaidName, r.ItemName} })
	ex.Achievements = dedupe(ex.Achievements, func(r AchievementRecord) pairKey { return pairKey{r.Category, r.Name} })
	ex.GemPrices = dedupe(ex.GemPrices, func(r GemPriceRecord) gemKey {
		return gemKey{category: r.Category, level: r.Level, gemType: r.GemType}
	})
	ex.Guides = dedupe(ex.Guides, func(r GuideRecord) pairKey {
		return pairKey{r.Category, r.Origin.Context()}
	})
	ex.Missions = dedupe(ex.Missions, func(r MissionRecord) string { return r.Name })
}

// Found 各实体提取到的记录数
func (ex *Extraction) Found() map[EntityKind]int {
	return map[EntityKind]int{
		EntityCharacter:   len(ex.Characters),
		EntitySchedule:    len(ex.Schedules),
		EntityRaid:        len(ex.Raids),
		EntityEconomics:   len(ex.Economics),
		EntityReward:      len(ex.Rewards),
		EntityAchievement: len(ex.Achievements),
		EntityGemPrice:    len(ex.GemPrices),
		EntityGuide:       len(ex.Guides),
		EntityMission:     len(ex.Missions),
	}
}
