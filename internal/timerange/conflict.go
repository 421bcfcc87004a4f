package timerange

import (
	"errors"
	"fmt"

	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
)

// ErrConflict 候选时段与已有时段重叠
var ErrConflict = errors.New("时段与已有时段冲突")

// ConflictError 携带冲突的已有时段，便于界面提示
type ConflictError struct {
	Existing model.AvailabilitySlot
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: %s", ErrConflict, Format(e.Existing.StartTime, e.Existing.EndTime))
}

// Is 使 errors.Is(err, ErrConflict) 成立
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// Overlaps 判断 [s1,e1) 与 [s2,e2) 是否重叠
//
// 直接比较存储的 "HH:MM" 文本，跨天时段不展开到 48 小时轴。
// 因此跨天时段与次日凌晨时段之间的部分重叠不会被识别，现有数据依赖该行为。
func Overlaps(s1, e1, s2, e2 string) bool {
	return s1 < e2 && e1 > s2
}

// FindConflict 在同一成员同一天的已有时段中查找第一个与候选时段冲突的记录
// excludeID 非空时跳过该记录（编辑场景）
func FindConflict(existing []model.AvailabilitySlot, candidate Slot, excludeID string) (*model.AvailabilitySlot, bool) {
	for i := range existing {
		slot := &existing[i]
		if excludeID != "" && slot.ID == excludeID {
			continue
		}
		if Overlaps(candidate.Start, candidate.End, slot.StartTime, slot.EndTime) {
			return slot, true
		}
	}
	return nil, false
}

// FindInternalConflict 检查一组待写入的时段彼此之间是否冲突
// 返回第一对冲突时段的下标
func FindInternalConflict(slots []Slot) (int, int, bool) {
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			if Overlaps(slots[i].Start, slots[i].End, slots[j].Start, slots[j].End) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}
