package dto

// ── 职业与角色模块 DTO ──

// ResolveJobRequest 按名称查找或创建职业
type ResolveJobRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// JobCategoryResponse 职业大类
type JobCategoryResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Icon  *string `json:"icon,omitempty"`
}

// JobResponse 职业
type JobResponse struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Role     string               `json:"role"`
	Logo     *string              `json:"logo,omitempty"`
	Category *JobCategoryResponse `json:"category,omitempty"`
}

// CharacterResponse 角色
type CharacterResponse struct {
	ID             string       `json:"id"`
	Nickname       string       `json:"nickname"`
	ItemLevel      float64      `json:"item_level"`
	IsMain         bool         `json:"is_main"`
	Job            *JobResponse `json:"job,omitempty"`
	RaidDream      bool         `json:"raid_dream"`
	RaidCelestial  bool         `json:"raid_celestial"`
	RaidPlague     bool         `json:"raid_plague"`
	RaidIvoryTower bool         `json:"raid_ivory_tower"`
	Notes          *string      `json:"notes,omitempty"`
}
