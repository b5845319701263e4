package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrInvalidPeriod 年月超出允许范围
var ErrInvalidPeriod = errors.New("年份须在 2020-2100、月份须在 1-12 之间")

// ValidPeriod 校验排班年月
func ValidPeriod(year, month int) error {
	if year < 2020 || year > 2100 || month < 1 || month > 12 {
		return ErrInvalidPeriod
	}
	return nil
}
