// Package timeline 实现副本关卡进度的状态机。
//
// 状态流转：
//
//	PENDING → IN_PROGRESS | COMPLETED | FAILED
//	IN_PROGRESS → COMPLETED | FAILED
//	IN_PROGRESS | COMPLETED | FAILED → PENDING（仅显式重置）
//
// 状态机只响应外部请求，没有定时器或自动重试。
package timeline

import (
	"errors"
	"time"

	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
)

var (
	ErrUnknownStatus     = errors.New("未知的关卡状态")
	ErrInvalidTransition = errors.New("不允许的关卡状态变更")
)

var transitions = map[model.GateStatus][]model.GateStatus{
	model.GateStatusPending:    {model.GateStatusInProgress, model.GateStatusCompleted, model.GateStatusFailed},
	model.GateStatusInProgress: {model.GateStatusCompleted, model.GateStatusFailed, model.GateStatusPending},
	model.GateStatusCompleted:  {model.GateStatusPending},
	model.GateStatusFailed:     {model.GateStatusPending},
}

// Effects 一次状态变更对副本层面的影响
type Effects struct {
	// CheckRaidCompletion 为 true 时需检查副本是否所有关卡都已完成
	CheckRaidCompletion bool
}

// CanTransition 判断 from → to 是否合法
func CanTransition(from, to model.GateStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Apply 将关卡切换到目标状态并维护时间戳
func Apply(gate *model.RaidGate, to model.GateStatus, now time.Time) (Effects, error) {
	if !to.Valid() {
		return Effects{}, ErrUnknownStatus
	}
	if !CanTransition(gate.Status, to) {
		return Effects{}, ErrInvalidTransition
	}

	var eff Effects
	switch to {
	case model.GateStatusInProgress, model.GateStatusFailed:
		if gate.StartTime == nil {
			gate.StartTime = &now
		}
	case model.GateStatusCompleted:
		if gate.StartTime == nil {
			gate.StartTime = &now
		}
		gate.CompletedAt = &now
		eff.CheckRaidCompletion = true
	case model.GateStatusPending:
		gate.StartTime = nil
		gate.CompletedAt = nil
	}
	gate.Status = to
	return eff, nil
}

// AllCompleted 副本的关卡全部完成（至少一个关卡）
func AllCompleted(gates []model.RaidGate) bool {
	if len(gates) == 0 {
		return false
	}
	for _, g := range gates {
		if g.Status != model.GateStatusCompleted {
			return false
		}
	}
	return true
}
