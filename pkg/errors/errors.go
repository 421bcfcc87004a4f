package errors

import "errors"

var (
	// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
	ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
	// ErrLockNotAcquired 互斥锁已被其他请求持有
	ErrLockNotAcquired = errors.New("操作正在进行中，请稍后再试")
)
