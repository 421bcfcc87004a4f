package dto

// ── 副本与关卡模块 DTO ──

// RaidListRequest 副本列表查询参数
type RaidListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=PLANNED RECRUITING FULL IN_PROGRESS COMPLETED CANCELLED"`
	Type   string `form:"type"   binding:"omitempty,oneof=CELESTIAL DREAM IVORY_TOWER PLAGUE"`
	PaginationRequest
}

// CreateGateRequest 新增关卡请求
type CreateGateRequest struct {
	Gate   string  `json:"gate"   binding:"required,max=20"`
	Status string  `json:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED FAILED"`
	Notes  *string `json:"notes"  binding:"omitempty,max=1000"`
}

// UpdateGateRequest 关卡状态变更请求；Status 为空时只更新备注
type UpdateGateRequest struct {
	Status  string  `json:"status"  binding:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED FAILED"`
	Notes   *string `json:"notes"   binding:"omitempty,max=1000"`
	Version *int    `json:"version" binding:"omitempty,min=1"`
}

// ── 响应 ──

// RaidResponse 副本信息响应
type RaidResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	Mode            string  `json:"mode"`
	Gate            *string `json:"gate,omitempty"`
	ScheduledTime   string  `json:"scheduled_time"`
	Status          string  `json:"status"`
	MaxPlayers      int     `json:"max_players"`
	RequiredDPS     int     `json:"required_dps"`
	RequiredSupport int     `json:"required_support"`
	MinItemLevel    float64 `json:"min_item_level"`
	Notes           *string `json:"notes,omitempty"`
	Version         int     `json:"version"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// RaidDetailResponse 副本详情（含关卡与参与者）
type RaidDetailResponse struct {
	RaidResponse
	Gates        []GateResponse        `json:"gates"`
	Participants []ParticipantResponse `json:"participants"`
}

// GateResponse 关卡响应
type GateResponse struct {
	ID          string  `json:"id"`
	RaidID      string  `json:"raid_id"`
	Gate        string  `json:"gate"`
	Status      string  `json:"status"`
	StartTime   *string `json:"start_time,omitempty"`
	CompletedAt *string `json:"completed_at,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Version     int     `json:"version"`
}

// GateTransitionResponse 关卡变更结果
type GateTransitionResponse struct {
	Gate          GateResponse `json:"gate"`
	RaidCompleted bool         `json:"raid_completed"`
}

// ParticipantResponse 参团成员
type ParticipantResponse struct {
	ID          string `json:"id"`
	CharacterID string `json:"character_id"`
	Status      string `json:"status"`
	Position    *int   `json:"position,omitempty"`
}
