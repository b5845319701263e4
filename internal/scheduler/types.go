// Package scheduler 月度排班生成引擎（纯内存计算，不依赖数据库与日志）。
//
// 调用方负责一次性加载全部输入（员工、班次目录、连续性历史、已批准休假、
// 保留排班、需求事件），引擎按日历顺序逐日分配，输出待写入的排班行与审计记录。
package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Role 员工角色
type Role string

const (
	RoleMonitorTrader  Role = "MONITOR_TRADER"
	RoleInplayTrader   Role = "INPLAY_TRADER"
	RolePrematchTrader Role = "PREMATCH_TRADER"
	RoleManager        Role = "MANAGER"
	RoleAdmin          Role = "ADMIN"
)

// TraderRoles 参与排班的交易员角色
var TraderRoles = []Role{RoleMonitorTrader, RoleInplayTrader, RolePrematchTrader}

// IsTrader 是否为交易员角色
func (r Role) IsTrader() bool {
	for _, t := range TraderRoles {
		if r == t {
			return true
		}
	}
	return false
}

// EditSource 排班来源
type EditSource string

const (
	EditSourceAlgorithm  EditSource = "ALGORITHM"
	EditSourceManual     EditSource = "MANUAL"
	EditSourceBulkImport EditSource = "BULK_IMPORT"
	EditSourceSwap       EditSource = "SWAP"
	EditSourceGridEdit   EditSource = "GRID_EDIT"
)

// LeaveStatus 休假申请状态
type LeaveStatus string

const (
	LeavePending   LeaveStatus = "PENDING"
	LeaveApproved  LeaveStatus = "APPROVED"
	LeaveRejected  LeaveStatus = "REJECTED"
	LeaveCancelled LeaveStatus = "CANCELLED"
)

// Employee 参与排班的员工
type Employee struct {
	ID   string
	Name string
	Role Role
}

// TimeOfDay 一天内的时刻
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay 解析 "HH:MM" 或 "HH:MM:SS"
func ParseTimeOfDay(s string) (*TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("无效的时刻 %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return nil, fmt.Errorf("无效的小时 %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return nil, fmt.Errorf("无效的分钟 %q", s)
	}
	return &TimeOfDay{Hour: h, Minute: m}, nil
}

// Duration 距离当日零点的时长
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t.Hour)*time.Hour + time.Duration(t.Minute)*time.Minute
}

// ShiftType 班次类型
type ShiftType struct {
	Code                string
	CategoryCode        string // 空表示无类别（OFF、VAC 等）
	Start               *TimeOfDay
	End                 *TimeOfDay
	Working             bool
	ApplicableToMonitor bool
	ApplicableToInplay  bool
}

// ApplicableTo 班次是否允许分配给该角色。Pre-match 交易员沿用 Monitor 标记。
func (s ShiftType) ApplicableTo(role Role) bool {
	switch role {
	case RoleInplayTrader:
		return s.ApplicableToInplay
	default:
		return s.ApplicableToMonitor
	}
}

// Bounds 计算指定日期的起止时间；跨午夜的班次结束于次日。无时刻返回 false。
func (s ShiftType) Bounds(day time.Time) (time.Time, time.Time, bool) {
	if s.Start == nil || s.End == nil {
		return time.Time{}, time.Time{}, false
	}
	d := DateOf(day)
	start := d.Add(s.Start.Duration())
	end := d.Add(s.End.Duration())
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, true
}

// Category 班次类别（最低覆盖人数）
type Category struct {
	Code         string
	MinTraders   int
	DisplayOrder int
}

// Assignment 一个 (员工, 日期) 单元格的排班
type Assignment struct {
	EmployeeID string
	Date       time.Time
	Code       string
	Source     EditSource
}

// Leave 休假申请（含起止日期，闭区间）
type Leave struct {
	EmployeeID string
	Start      time.Time
	End        time.Time
	Status     LeaveStatus
}

// DemandEvent 产生人手需求的赛事；End 为空时视为单日事件
type DemandEvent struct {
	Name     string
	Start    time.Time
	End      *time.Time
	Priority int
}

// AnchorRule 锚定覆盖规则：该类别每天至少由该角色的一名员工覆盖
type AnchorRule struct {
	Role         Role
	CategoryCode string
}

func (a AnchorRule) String() string {
	return string(a.Role) + "/" + a.CategoryCode
}

// ── 日期工具 ──

const dateLayout = "2006-01-02"

// DateOf 取日期部分，统一为 UTC 零点
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthDays 返回目标月的每一天
func MonthDays(year int, month time.Month) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := make([]time.Time, 0, 31)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// MonthRange 返回目标月的首日与末日
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

func dayKey(t time.Time) string {
	return DateOf(t).Format(dateLayout)
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

type cellKey struct {
	employeeID string
	day        string
}
