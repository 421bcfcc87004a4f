package model

// UserProfile 成员资料表 — 对应 user_profiles
// 账号体系由外部认证服务维护，此处只保存排程所需的展示名与角色。
type UserProfile struct {
	ID    string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email *string  `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Name  string   `gorm:"type:varchar(50);not null"                      json:"name"`
	Role  UserRole `gorm:"type:varchar(20);not null"                      json:"role"`
	BaseModel
}

// TableName 指定表名
func (UserProfile) TableName() string { return "user_profiles" }
