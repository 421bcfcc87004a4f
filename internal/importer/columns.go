package importer

import "strings"

// Field 导入记录的语义字段
type Field string

const (
	FieldName       Field = "name"
	FieldJob        Field = "job"
	FieldItemLevel  Field = "item_level"
	FieldDream      Field = "dream"
	FieldCelestial  Field = "celestial"
	FieldPlague     Field = "plague"
	FieldIvoryTower Field = "ivory_tower"
	FieldNickname   Field = "nickname"
	FieldRaid       Field = "raid"
	FieldPhase1     Field = "p1"
	FieldPhase2     Field = "p2"
	FieldPhase3     Field = "p3"
	FieldPhase4     Field = "p4"
	FieldTotalCost  Field = "total_cost"
	FieldActiveGold Field = "active_gold"
	FieldBoundGold  Field = "bound_gold"
	FieldRevenue    Field = "total_revenue"
	FieldItem       Field = "item"
	FieldGoldValue  Field = "gold_value"
	FieldCompleted  Field = "completed"
	FieldLevel      Field = "level"
	FieldPrice      Field = "price"
	FieldGemType    Field = "gem_type"
	FieldReputation Field = "reputation"
	FieldReward     Field = "reward"
	FieldStatus     Field = "status"
)

// ColumnSet 某类工作表的表头约定：表头所在行与各字段可接受的表头文本
type ColumnSet struct {
	HeaderRow int
	Columns   map[Field][]string
}

// DataStart 数据起始行
func (s ColumnSet) DataStart() int {
	return s.HeaderRow + 1
}

// ColumnMap 字段到列号的映射
type ColumnMap map[Field]int

// Index 返回字段所在列，未找到时返回 -1
func (m ColumnMap) Index(f Field) int {
	if i, ok := m[f]; ok {
		return i
	}
	return -1
}

// Has 字段是否存在于表头中
func (m ColumnMap) Has(f Field) bool {
	return m.Index(f) >= 0
}

// ResolveColumns 在表头行中按精确文本（仅去除首尾空白）定位各字段
// 缺失字段记为 -1，是否必填由提取器决定
func ResolveColumns(header []string, set ColumnSet) ColumnMap {
	m := make(ColumnMap, len(set.Columns))
	for field, labels := range set.Columns {
		m[field] = -1
		for idx, cell := range header {
			if containsLabel(labels, strings.TrimSpace(cell)) {
				m[field] = idx
				break
			}
		}
	}
	return m
}

func containsLabel(labels []string, v string) bool {
	if v == "" {
		return false
	}
	for _, l := range labels {
		if l == v {
			return true
		}
	}
	return false
}

// ── 各类工作表的表头约定 ──

// CharacterColumns 裝等表（表头在第 2 行）
var CharacterColumns = ColumnSet{
	HeaderRow: 1,
	Columns: map[Field][]string{
		FieldName:       {"名稱", "暱稱", "name"},
		FieldJob:        {"職業", "job"},
		FieldItemLevel:  {"裝等", "item_level"},
		FieldDream:      {"夢幻"},
		FieldCelestial:  {"天界"},
		FieldPlague:     {"瘟疫"},
		FieldIvoryTower: {"象牙塔"},
	},
}

// ScheduleColumns 暱稱表（表头在第 1 行，星期列紧随暱稱列，见 scheduleDayColumns）
var ScheduleColumns = ColumnSet{
	HeaderRow: 0,
	Columns: map[Field][]string{
		FieldNickname: {"暱稱", "名稱", "nickname"},
	},
}

// EconomicsColumns 收益金（表头在第 2 行）
var EconomicsColumns = ColumnSet{
	HeaderRow: 1,
	Columns: map[Field][]string{
		FieldRaid:       {"副本"},
		FieldPhase1:     {"P1"},
		FieldPhase2:     {"P2"},
		FieldPhase3:     {"P3"},
		FieldPhase4:     {"P4"},
		FieldTotalCost:  {"總共"},
		FieldActiveGold: {"活金"},
		FieldBoundGold:  {"綁金"},
		FieldRevenue:    {"總收益"},
	},
}

// RewardColumns 副本獎勵表
var RewardColumns = ColumnSet{
	HeaderRow: 0,
	Columns: map[Field][]string{
		FieldRaid:      {"副本", "副本名稱", "raid"},
		FieldItem:      {"道具", "道具名稱", "item"},
		FieldGoldValue: {"金值", "金幣價值", "gold"},
	},
}

// AchievementColumns 島之心、巨人之心、奧菲斯之星
var AchievementColumns = ColumnSet{
	HeaderRow: 0,
	Columns: map[Field][]string{
		FieldName:      {"名稱", "name"},
		FieldCompleted: {"完成", "已完成", "completed"},
	},
}

// GemPriceColumns 寶石比價系統、寶石價格
var GemPriceColumns = ColumnSet{
	HeaderRow: 0,
	Columns: map[Field][]string{
		FieldLevel:   {"等級", "level"},
		FieldPrice:   {"價格", "price"},
		FieldGemType: {"類型", "type"},
	},
}

// MissionColumns 艾波娜委託
var MissionColumns = ColumnSet{
	HeaderRow: 0,
	Columns: map[Field][]string{
		FieldName:       {"委託", "任務", "委託名稱", "name"},
		FieldReputation: {"聲望", "reputation"},
		FieldReward:     {"獎勵", "reward"},
		FieldStatus:     {"狀態", "status"},
	},
}
