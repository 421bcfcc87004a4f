package importer

import (
	"fmt"
	"time"

	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
	"github.com/tdjunwei/lostark-raid-schedule/internal/timerange"
)

// EntityKind 导入记录的实体类型
type EntityKind string

const (
	EntityCharacter   EntityKind = "characters"
	EntitySchedule    EntityKind = "schedules"
	EntityRaid        EntityKind = "raids"
	EntityEconomics   EntityKind = "economics"
	EntityReward      EntityKind = "rewards"
	EntityAchievement EntityKind = "achievements"
	EntityGemPrice    EntityKind = "gems"
	EntityGuide       EntityKind = "guides"
	EntityMission     EntityKind = "missions"
)

// EntityKinds 按写入顺序列出全部实体类型
var EntityKinds = []EntityKind{
	EntityCharacter, EntitySchedule, EntityRaid, EntityEconomics, EntityReward,
	EntityAchievement, EntityGemPrice, EntityGuide, EntityMission,
}

// Origin 记录来源位置
type Origin struct {
	Sheet string `json:"sheet"`
	Row   int    `json:"row"` // 表格中的行号（1 起）
}

// Context 供诊断信息使用的定位描述
func (o Origin) Context() string {
	return fmt.Sprintf("第%d行", o.Row)
}

// CharacterRecord 裝等表中的角色
type CharacterRecord struct {
	Origin
	Nickname   string  `validate:"required,max=50"`
	Job        string  `validate:"required,max=50"`
	ItemLevel  float64 `validate:"gte=0,lte=9999"`
	Dream      bool
	Celestial  bool
	Plague     bool
	IvoryTower bool
}

// ScheduleRecord 暱稱表中某人某天的一个时段
type ScheduleRecord struct {
	Origin
	Nickname  string `validate:"required,max=50"`
	DayOfWeek int    `validate:"min=0,max=6"`
	Slot      timerange.Slot
}

// RaidRecord 副本表中一次开团及其参与者
type RaidRecord struct {
	Origin
	Type         model.RaidType `validate:"required"`
	Mode         model.RaidMode `validate:"required"`
	Label        string
	Date         time.Time
	Participants []string `validate:"min=1,dive,required,max=50"`
}

// EconomicsRecord 收益金中的一条副本收益
type EconomicsRecord struct {
	Origin
	RaidName    string `validate:"required,max=100"`
	Phase1Cost  int64
	Phase2Cost  int64
	Phase3Cost  int64
	Phase4Cost  int64
	TotalCost   int64 `validate:"gte=0"`
	ActiveGold  int64
	BoundGold   int64
	Revenue     int64
	ProfitRatio float64
}

// RewardRecord 副本獎勵表中的道具
type RewardRecord struct {
	Origin
	RaidName  string `validate:"required,max=100"`
	ItemName  string `validate:"required,max=100"`
	Quantity  int    `validate:"gte=1"`
	GoldValue int64
}

// AchievementRecord 收集进度
type AchievementRecord struct {
	Origin
	Category  string `validate:"required,max=50"`
	Name      string `validate:"required,max=100"`
	Completed bool
}

// GemPriceRecord 宝石价格
type GemPriceRecord struct {
	Origin
	Category string `validate:"required,max=50"`
	Level    int    `validate:"min=1,max=10"`
	GemType  string `validate:"required,max=50"`
	Price    int64  `validate:"gte=0"`
}

// GuideRecord 攻略工作表中的一行
type GuideRecord struct {
	Origin
	Category string `validate:"required,max=100"`
	Content  string `validate:"required"`
	Cells    []string
}

// MissionRecord 艾波娜委託
type MissionRecord struct {
	Origin
	Name       string `validate:"required,max=100"`
	Reputation *int64
	Reward     *string
	Status     *string `validate:"omitempty,max=50"`
	Completed  bool
}

// Diagnostic 单条记录的失败原因
type Diagnostic struct {
	Sheet   string     `json:"sheet"`
	Context string     `json:"context"`
	Entity  EntityKind `json:"entity"`
	Message string     `json:"message"`
}

// ImportSummary 一次导入的结果
type ImportSummary struct {
	Accepted    map[EntityKind]int `json:"accepted"`
	Found       map[EntityKind]int `json:"found"`
	Errors      []Diagnostic       `json:"errors"`
	SheetsFound []string           `json:"sheets_found"`
}

func newSummary(sheets []string) *ImportSummary {
	s := &ImportSummary{
		Accepted:    make(map[EntityKind]int, len(EntityKinds)),
		Found:       make(map[EntityKind]int, len(EntityKinds)),
		Errors:      []Diagnostic{},
		SheetsFound: sheets,
	}
	for _, k := range EntityKinds {
		s.Accepted[k] = 0
		s.Found[k] = 0
	}
	return s
}

func (s *ImportSummary) fail(o Origin, kind EntityKind, err error) {
	s.Errors = append(s.Errors, Diagnostic{Sheet: o.Sheet, Context: o.Context(), Entity: kind, Message: err.Error()})
}

// TotalAccepted 全部实体的写入总数
func (s *ImportSummary) TotalAccepted() int {
	n := 0
	for _, v := range s.Accepted {
		n += v
	}
	return n
}
