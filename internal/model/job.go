package model

// JobCategory 职业大类 — 对应 job_categories
type JobCategory struct {
	ID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name  string  `gorm:"type:varchar(50);not null;uniqueIndex"          json:"name"`
	Color string  `gorm:"type:varchar(7);not null"                       json:"color"`
	Icon  *string `gorm:"type:varchar(255)"                              json:"icon,omitempty"`
	BaseModel
}

// TableName 指定表名
func (JobCategory) TableName() string { return "job_categories" }

// Job 职业 — 对应 jobs
type Job struct {
	ID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string  `gorm:"type:varchar(50);not null;uniqueIndex"          json:"name"`
	CategoryID  string  `gorm:"type:uuid;not null"                             json:"category_id"`
	Role        JobRole `gorm:"type:varchar(10);not null"                      json:"role"`
	Logo        *string `gorm:"type:varchar(255)"                              json:"logo,omitempty"`
	Description *string `gorm:"type:text"                                      json:"description,omitempty"`
	BaseModel

	// 关联
	Category *JobCategory `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`
}

// TableName 指定表名
func (Job) TableName() string { return "jobs" }
