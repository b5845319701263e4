package model

import "time"

// GenerationLog 排班生成日志表 — 对应 generation_logs（只追加）
type GenerationLog struct {
	LogID                string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"log_id"`
	Year                 int        `gorm:"not null;index:idx_generation_logs_period"      json:"year"`
	Month                int        `gorm:"not null;index:idx_generation_logs_period"      json:"month"`
	GeneratedBy          *string    `gorm:"type:uuid"                                      json:"generated_by,omitempty"`
	Status               string     `gorm:"type:varchar(10);not null"                      json:"status"` // SUCCESS | PARTIAL | FAILED
	TotalAssignments     int        `gorm:"not null;default:0"                             json:"total_assignments"`
	EventsConsidered     int        `gorm:"not null;default:0"                             json:"events_considered"`
	TradersScheduled     int        `gorm:"not null;default:0"                             json:"traders_scheduled"`
	Warnings             StringList `gorm:"type:jsonb;not null"                            json:"warnings"`
	Errors               StringList `gorm:"type:jsonb;not null"                            json:"errors"`
	AlgorithmDecisions   StringList `gorm:"type:jsonb;not null"                            json:"algorithm_decisions"`
	ExecutionTimeSeconds float64    `gorm:"not null;default:0"                             json:"execution_time_seconds"`
	AlgorithmVersion     string     `gorm:"type:varchar(20);not null"                      json:"algorithm_version"`
	ParametersSnapshot   JSONMap    `gorm:"type:jsonb;not null"                            json:"parameters_snapshot"`
	CreatedAt            time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (GenerationLog) TableName() string { return "generation_logs" }

// [自证通过] internal/model/generation_log.go
