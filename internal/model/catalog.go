package model

import "gorm.io/datatypes"

// Achievement 收集进度 — 对应 achievements，(user_id, category, name) 唯一
type Achievement struct {
	ID        string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    string `gorm:"type:uuid;not null"                             json:"user_id"`
	Category  string `gorm:"type:varchar(50);not null"                      json:"category"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	Completed bool   `gorm:"not null"                                       json:"completed"`
	BaseModel
}

// TableName 指定表名
func (Achievement) TableName() string { return "achievements" }

// GemPrice 宝石价格 — 对应 gem_prices，(category, level, gem_type) 唯一
type GemPrice struct {
	ID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Category string `gorm:"type:varchar(50);not null"                      json:"category"`
	Level    int    `gorm:"type:smallint;not null"                         json:"level"`
	GemType  string `gorm:"type:varchar(50);not null"                      json:"gem_type"`
	Price    int64  `gorm:"not null"                                       json:"price"`
	BaseModel
}

// TableName 指定表名
func (GemPrice) TableName() string { return "gem_prices" }

// Guide 攻略摘录 — 对应 guides，(category, row_number) 唯一
type Guide struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Category  string         `gorm:"type:varchar(100);not null"                     json:"category"`
	RowNumber int            `gorm:"not null"                                       json:"row_number"`
	Content   string         `gorm:"type:text;not null"                             json:"content"`
	Cells     datatypes.JSON `gorm:"type:jsonb"                                     json:"cells"`
	BaseModel
}

// TableName 指定表名
func (Guide) TableName() string { return "guides" }

// Mission 艾波娜委托 — 对应 missions，(user_id, name) 唯一
type Mission struct {
	ID         string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID     string  `gorm:"type:uuid;not null"                             json:"user_id"`
	Name       string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Reputation *int64  `json:"reputation,omitempty"`
	Reward     *string `gorm:"type:text"                                      json:"reward,omitempty"`
	Status     *string `gorm:"type:varchar(50)"                               json:"status,omitempty"`
	Completed  bool    `gorm:"not null"                                       json:"completed"`
	BaseModel
}

// TableName 指定表名
func (Mission) TableName() string { return "missions" }
