package model

// ── 枚举类型（与数据库 CHECK 约束保持一致） ──

// UserRole 用户角色
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleScheduler UserRole = "SCHEDULER"
	RolePlayer    UserRole = "PLAYER"
)

// JobRole 职业定位
type JobRole string

const (
	JobRoleDPS     JobRole = "DPS"
	JobRoleSupport JobRole = "SUPPORT"
)

// RaidType 副本类型
type RaidType string

const (
	RaidTypeCelestial  RaidType = "CELESTIAL"
	RaidTypeDream      RaidType = "DREAM"
	RaidTypeIvoryTower RaidType = "IVORY_TOWER"
	RaidTypePlague     RaidType = "PLAGUE"
)

// RaidMode 副本难度
type RaidMode string

const (
	RaidModeSolo   RaidMode = "SOLO"
	RaidModeNormal RaidMode = "NORMAL"
	RaidModeHard   RaidMode = "HARD"
)

// RaidStatus 副本状态
type RaidStatus string

const (
	RaidStatusPlanned    RaidStatus = "PLANNED"
	RaidStatusRecruiting RaidStatus = "RECRUITING"
	RaidStatusFull       RaidStatus = "FULL"
	RaidStatusInProgress RaidStatus = "IN_PROGRESS"
	RaidStatusCompleted  RaidStatus = "COMPLETED"
	RaidStatusCancelled  RaidStatus = "CANCELLED"
)

// GateStatus 关卡进度状态
type GateStatus string

const (
	GateStatusPending    GateStatus = "PENDING"
	GateStatusInProgress GateStatus = "IN_PROGRESS"
	GateStatusCompleted  GateStatus = "COMPLETED"
	GateStatusFailed     GateStatus = "FAILED"
)

// Valid 判断是否为已知的关卡状态
func (s GateStatus) Valid() bool {
	switch s {
	case GateStatusPending, GateStatusInProgress, GateStatusCompleted, GateStatusFailed:
		return true
	}
	return false
}

// ParticipantStatus 参团状态
type ParticipantStatus string

const (
	ParticipantPending   ParticipantStatus = "PENDING"
	ParticipantConfirmed ParticipantStatus = "CONFIRMED"
	ParticipantDeclined  ParticipantStatus = "DECLINED"
	ParticipantCompleted ParticipantStatus = "COMPLETED"
)
