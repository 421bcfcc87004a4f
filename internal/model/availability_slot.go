package model

// AvailabilitySlot 每周重复的空闲时段 — 对应 availability_slots
//
// day_of_week 采用日历标准（0=周日 … 6=周六）。
// start_time/end_time 以 "HH:MM" 文本存储，冲突检测直接比较原始字符串；
// end_time <= start_time 表示跨天时段（结束于次日）。
type AvailabilitySlot struct {
	ID        string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    string  `gorm:"type:uuid;not null"                             json:"user_id"`
	DayOfWeek int     `gorm:"type:smallint;not null"                         json:"day_of_week"`
	StartTime string  `gorm:"type:varchar(5);not null"                       json:"start_time"`
	EndTime   string  `gorm:"type:varchar(5);not null"                       json:"end_time"`
	Available bool    `gorm:"not null"                                       json:"available"`
	Note      *string `gorm:"type:text"                                      json:"note,omitempty"`
	BaseModel
}

// TableName 指定表名
func (AvailabilitySlot) TableName() string { return "availability_slots" }

// Overnight 是否为跨天时段
func (s *AvailabilitySlot) Overnight() bool {
	return s.EndTime <= s.StartTime
}
