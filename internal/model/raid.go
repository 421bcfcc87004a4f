package model

import "time"

// Raid 副本团 — 对应 raids
type Raid struct {
	ID               string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name             string     `gorm:"type:varchar(100);not null"                     json:"name"`
	Type             RaidType   `gorm:"type:varchar(20);not null"                      json:"type"`
	Mode             RaidMode   `gorm:"type:varchar(10);not null"                      json:"mode"`
	Gate             *string    `gorm:"type:varchar(20)"                               json:"gate,omitempty"`
	ScheduledTime    time.Time  `gorm:"not null"                                       json:"scheduled_time"`
	Status           RaidStatus `gorm:"type:varchar(20);not null"                      json:"status"`
	MaxPlayers       int        `gorm:"type:smallint;not null"                         json:"max_players"`
	RequiredDPS      int        `gorm:"column:required_dps;type:smallint;not null"     json:"required_dps"`
	RequiredSupport  int        `gorm:"type:smallint;not null"                         json:"required_support"`
	MinItemLevel     float64    `gorm:"type:numeric(7,2);not null"                     json:"min_item_level"`
	Phase1Cost       *int64     `gorm:"column:phase1_cost"                             json:"phase1_cost,omitempty"`
	Phase2Cost       *int64     `gorm:"column:phase2_cost"                             json:"phase2_cost,omitempty"`
	Phase3Cost       *int64     `gorm:"column:phase3_cost"                             json:"phase3_cost,omitempty"`
	Phase4Cost       *int64     `gorm:"column:phase4_cost"                             json:"phase4_cost,omitempty"`
	ActiveGoldReward *int64     `json:"active_gold_reward,omitempty"`
	BoundGoldReward  *int64     `json:"bound_gold_reward,omitempty"`
	Notes            *string    `gorm:"type:text"                                      json:"notes,omitempty"`
	CreatedBy        *string    `gorm:"type:uuid"                                      json:"created_by,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (Raid) TableName() string { return "raids" }

// RaidGate 副本关卡进度 — 对应 raid_timeline，(raid_id, gate) 唯一
type RaidGate struct {
	ID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RaidID      string     `gorm:"type:uuid;not null"                             json:"raid_id"`
	Gate        string     `gorm:"type:varchar(20);not null"                      json:"gate"`
	Status      GateStatus `gorm:"type:varchar(20);not null"                      json:"status"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Notes       *string    `gorm:"type:text"                                      json:"notes,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (RaidGate) TableName() string { return "raid_timeline" }

// RaidParticipant 参团记录 — 对应 raid_participants，(raid_id, character_id) 唯一
type RaidParticipant struct {
	ID          string            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RaidID      string            `gorm:"type:uuid;not null"                             json:"raid_id"`
	CharacterID string            `gorm:"type:uuid;not null"                             json:"character_id"`
	Status      ParticipantStatus `gorm:"type:varchar(20);not null"                      json:"status"`
	Position    *int              `gorm:"type:smallint"                                  json:"position,omitempty"`
	BaseModel
}

// TableName 指定表名
func (RaidParticipant) TableName() string { return "raid_participants" }
