package model

// Character 角色 — 对应 characters，(user_id, nickname) 唯一
type Character struct {
	ID        string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    string  `gorm:"type:uuid;not null"                             json:"user_id"`
	Nickname  string  `gorm:"type:varchar(50);not null"                      json:"nickname"`
	ItemLevel float64 `gorm:"type:numeric(7,2);not null"                     json:"item_level"`
	JobID     string  `gorm:"type:uuid;not null"                             json:"job_id"`
	IsMain    bool    `gorm:"not null"                                       json:"is_main"`
	Notes     *string `gorm:"type:text"                                      json:"notes,omitempty"`

	// 旧名单中的副本参与标记
	RaidDream      bool `gorm:"not null" json:"raid_dream"`
	RaidCelestial  bool `gorm:"not null" json:"raid_celestial"`
	RaidPlague     bool `gorm:"not null" json:"raid_plague"`
	RaidIvoryTower bool `gorm:"not null" json:"raid_ivory_tower"`
	BaseModel

	// 关联
	Job *Job `gorm:"foreignKey:JobID;references:ID" json:"job,omitempty"`
}

// TableName 指定表名
func (Character) TableName() string { return "characters" }
