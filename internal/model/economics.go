package model

import "time"

// RaidEconomics 副本收益记录 — 对应 raid_economics，(user_id, raid_name) 唯一
type RaidEconomics struct {
	ID           string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID       string  `gorm:"type:uuid;not null"                             json:"user_id"`
	RaidID       *string `gorm:"type:uuid"                                      json:"raid_id,omitempty"`
	CharacterID  *string `gorm:"type:uuid"                                      json:"character_id,omitempty"`
	RaidName     string  `gorm:"type:varchar(100);not null"                     json:"raid_name"`
	Phase1Cost   int64   `gorm:"column:phase1_cost;not null"                    json:"phase1_cost"`
	Phase2Cost   int64   `gorm:"column:phase2_cost;not null"                    json:"phase2_cost"`
	Phase3Cost   int64   `gorm:"column:phase3_cost;not null"                    json:"phase3_cost"`
	Phase4Cost   int64   `gorm:"column:phase4_cost;not null"                    json:"phase4_cost"`
	TotalCost    int64   `gorm:"not null"                                       json:"total_cost"`
	ActiveGold   int64   `gorm:"not null"                                       json:"active_gold"`
	BoundGold    int64   `gorm:"not null"                                       json:"bound_gold"`
	TotalRevenue int64   `gorm:"not null"                                       json:"total_revenue"`
	ProfitRatio  float64 `gorm:"type:numeric(10,2);not null"                    json:"profit_ratio"`
	Notes        *string `gorm:"type:text"                                      json:"notes,omitempty"`
	BaseModel
}

// TableName 指定表名
func (RaidEconomics) TableName() string { return "raid_economics" }

// RaidReward 副本奖励参考表 — 对应 raid_rewards，(raid_name, item_name) 唯一
type RaidReward struct {
	ID            string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RaidName      string     `gorm:"type:varchar(100);not null"                     json:"raid_name"`
	ItemName      string     `gorm:"type:varchar(100);not null"                     json:"item_name"`
	Quantity      int        `gorm:"not null"                                       json:"quantity"`
	GoldValue     int64      `gorm:"not null"                                       json:"gold_value"`
	Distributed   bool       `gorm:"not null"                                       json:"distributed"`
	DistributedAt *time.Time `json:"distributed_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (RaidReward) TableName() string { return "raid_rewards" }
