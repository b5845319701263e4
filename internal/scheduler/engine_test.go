package scheduler

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── 测试夹具 ──

func tod(h, m int) *TimeOfDay { return &TimeOfDay{Hour: h, Minute: m} }

func testShifts() []ShiftType {
	return []ShiftType{
		{Code: "MON6", CategoryCode: "AM", Start: tod(6, 0), End: tod(14, 0), Working: true, ApplicableToMonitor: true},
		{Code: "MON12", CategoryCode: "MID", Start: tod(12, 0), End: tod(20, 0), Working: true, ApplicableToMonitor: true},
		{Code: "MON14", CategoryCode: "MID", Start: tod(14, 0), End: tod(22, 0), Working: true, ApplicableToMonitor: true},
		{Code: "MON22", CategoryCode: "NS", Start: tod(22, 0), End: tod(6, 0), Working: true, ApplicableToMonitor: true},
		{Code: "IP6", CategoryCode: "AM", Start: tod(6, 0), End: tod(14, 0), Working: true, ApplicableToInplay: true},
		{Code: "IP10", CategoryCode: "MID", Start: tod(10, 0), End: tod(18, 0), Working: true, ApplicableToInplay: true},
		{Code: "OFF", ApplicableToMonitor: true, ApplicableToInplay: true},
		{Code: "VAC", ApplicableToMonitor: true, ApplicableToInplay: true},
	}
}

func testCatalog() *Catalog {
	return NewCatalog(testShifts(), []Category{
		{Code: "AM", MinTraders: 3, DisplayOrder: 1},
		{Code: "MID", MinTraders: 0, DisplayOrder: 2},
		{Code: "NS", MinTraders: 0, DisplayOrder: 3},
	}, nil, nil)
}

func monitors(n int) []Employee {
	out := make([]Employee, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, Employee{ID: fmt.Sprintf("m%02d", i), Name: fmt.Sprintf("Monitor %d", i), Role: RoleMonitorTrader})
	}
	return out
}

func june2025(emps []Employee) Input {
	set := DefaultSettings()
	set.AnchorRules = []AnchorRule{{Role: RoleMonitorTrader, CategoryCode: "AM"}}
	return Input{
		Year:      2025,
		Month:     time.June,
		Settings:  set,
		Catalog:   testCatalog(),
		Employees: emps,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func grid(res *Result) map[string]map[string]string {
	g := make(map[string]map[string]string)
	for _, a := range res.Assignments {
		if g[a.EmployeeID] == nil {
			g[a.EmployeeID] = make(map[string]string)
		}
		g[a.EmployeeID][dayKey(a.Date)] = a.Code
	}
	return g
}

// ════════════════════════════════════════════════════════════
// Generate
// ════════════════════════════════════════════════════════════

func TestGenerate_FiveTradersFullMonth(t *testing.T) {
	res := Generate(june2025(monitors(5)))

	require.Empty(t, res.Audit.Record().Errors)
	assert.Len(t, res.Assignments, 150)
	assert.Equal(t, 5, res.TradersScheduled)
	assert.Equal(t, StatusSuccess, res.Status())

	cat := testCatalog()
	for _, d := range MonthDays(2025, time.June) {
		am := 0
		for _, a := range res.Assignments {
			if !a.Date.Equal(d) {
				continue
			}
			s, ok := cat.Shift(a.Code)
			require.True(t, ok, "未知班次 %s", a.Code)
			if s.Working && s.CategoryCode == "AM" {
				am++
			}
		}
		assert.GreaterOrEqual(t, am, 3, "%s AM 人数不足", dayKey(d))
	}
}

func TestGenerate_OneAssignmentPerCell(t *testing.T) {
	res := Generate(june2025(monitors(7)))

	seen := make(map[cellKey]bool)
	for _, a := range res.Assignments {
		k := cellKey{employeeID: a.EmployeeID, day: dayKey(a.Date)}
		assert.False(t, seen[k], "重复单元格 %v", k)
		seen[k] = true
		assert.Equal(t, EditSourceAlgorithm, a.Source)
	}
	assert.Len(t, seen, 7*30)
}

func TestGenerate_FullMonthLeave(t *testing.T) {
	in := june2025(monitors(6))
	in.Leaves = []Leave{
		{EmployeeID: "m01", Start: day(2025, time.May, 20), End: day(2025, time.July, 3), Status: LeaveApproved},
		{EmployeeID: "m02", Start: day(2025, time.June, 1), End: day(2025, time.June, 30), Status: LeavePending},
	}
	res := Generate(in)
	g := grid(res)

	for _, d := range MonthDays(2025, time.June) {
		assert.Equal(t, "VAC", g["m01"][dayKey(d)], "%s 应为休假", dayKey(d))
	}
	for _, code := range g["m02"] {
		assert.NotEqual(t, "VAC", code, "未批准的休假不应生效")
	}
}

func TestGenerate_LeaveWithoutVacationShift(t *testing.T) {
	shifts := testShifts()
	shifts = shifts[:len(shifts)-1]
	in := june2025(monitors(5))
	in.Catalog = NewCatalog(shifts, []Category{{Code: "AM", MinTraders: 2, DisplayOrder: 1}}, nil, nil)
	in.Leaves = []Leave{{EmployeeID: "m01", Start: day(2025, time.June, 10), End: day(2025, time.June, 12), Status: LeaveApproved}}

	res := Generate(in)
	g := grid(res)

	for d := 10; d <= 12; d++ {
		_, ok := g["m01"][dayKey(day(2025, time.June, d))]
		assert.False(t, ok, "休假日期不应被重新分配")
	}
	assert.Len(t, res.Assignments, 5*30-3)
	assert.Equal(t, StatusPartial, res.Status())
}

func TestGenerate_PreservedRowsWin(t *testing.T) {
	in := june2025(monitors(5))
	in.Preserved = []Assignment{
		{EmployeeID: "m03", Date: day(2025, time.June, 5), Code: "MON22", Source: EditSourceManual},
		{EmployeeID: "m03", Date: day(2025, time.June, 6), Code: "OFF", Source: EditSourceAlgorithm},
	}
	in.Leaves = []Leave{{EmployeeID: "m03", Start: day(2025, time.June, 5), End: day(2025, time.June, 5), Status: LeaveApproved}}

	res := Generate(in)
	g := grid(res)

	_, emitted := g["m03"][dayKey(day(2025, time.June, 5))]
	assert.False(t, emitted, "保留排班不应被写入")
	_, regenerated := g["m03"][dayKey(day(2025, time.June, 6))]
	assert.True(t, regenerated, "ALGORITHM 行不应被当作保留排班")
	assert.Len(t, res.Assignments, 5*30-1)

	rec := res.Audit.Record()
	assert.True(t, containsText(rec.Warnings, "冲突"), "应记录保留排班与休假冲突")
}

func TestGenerate_ConsecutiveDaysBound(t *testing.T) {
	in := june2025(monitors(3))
	in.Settings.MaxConsecutiveDays = 3
	in.History = []Assignment{
		{EmployeeID: "m01", Date: day(2025, time.May, 29), Code: "MON6"},
		{EmployeeID: "m01", Date: day(2025, time.May, 30), Code: "MON6"},
		{EmployeeID: "m01", Date: day(2025, time.May, 31), Code: "MON6"},
	}

	res := Generate(in)
	g := grid(res)
	cat := testCatalog()

	assert.Equal(t, "OFF", g["m01"][dayKey(day(2025, time.June, 1))], "跨月连续天数应延续")
	for _, emp := range monitors(3) {
		run := 0
		for _, d := range MonthDays(2025, time.June) {
			s, _ := cat.Shift(g[emp.ID][dayKey(d)])
			if s.Working {
				run++
			} else {
				run = 0
			}
			assert.LessOrEqual(t, run, 3, "%s 在 %s 连续工作超限", emp.ID, dayKey(d))
		}
	}
	assert.Equal(t, StatusPartial, res.Status(), "人手不足时应为 PARTIAL")
}

func TestGenerate_MinRestHours(t *testing.T) {
	shifts := append(testShifts(), ShiftType{
		Code: "LATE", CategoryCode: "NS", Start: tod(15, 0), End: tod(23, 0), Working: true, ApplicableToMonitor: true,
	})
	in := june2025(monitors(4))
	in.Catalog = NewCatalog(shifts, []Category{{Code: "AM", MinTraders: 1, DisplayOrder: 1}}, nil, nil)
	in.History = []Assignment{{EmployeeID: "m01", Date: day(2025, time.May, 31), Code: "LATE"}}

	res := Generate(in)
	g := grid(res)

	assert.Equal(t, "OFF", g["m01"][dayKey(day(2025, time.June, 1))], "休息时间不足应强制休息")
}

func TestGenerate_Idempotent(t *testing.T) {
	in := june2025(monitors(6))
	in.Events = []DemandEvent{{Name: "Final", Start: day(2025, time.June, 14), Priority: 1}}

	first := Generate(in)
	second := Generate(in)

	assert.Equal(t, first.Assignments, second.Assignments)
	assert.Equal(t, first.Audit.Record(), second.Audit.Record())
}

func TestGenerate_AnchorCoverage(t *testing.T) {
	emps := monitors(6)
	emps = append(emps,
		Employee{ID: "i01", Role: RoleInplayTrader},
		Employee{ID: "i02", Role: RoleInplayTrader},
	)
	in := june2025(emps)
	in.Settings.AnchorRules = DefaultSettings().AnchorRules

	res := Generate(in)
	cat := testCatalog()

	for _, d := range MonthDays(2025, time.June) {
		covered := map[string]bool{}
		for _, a := range res.Assignments {
			if !a.Date.Equal(d) || !strings.HasPrefix(a.EmployeeID, "m") {
				continue
			}
			s, _ := cat.Shift(a.Code)
			if s.Working {
				covered[s.CategoryCode] = true
			}
		}
		for _, c := range []string{"AM", "MID", "NS"} {
			assert.True(t, covered[c], "%s 类别 %s 缺少 Monitor 覆盖", dayKey(d), c)
		}
	}
	assert.Empty(t, res.Audit.Record().Warnings)
}

// lateShift 23:00 结束，次日最早 06:00 开班时休息不足 8 小时
func lateShift() ShiftType {
	return ShiftType{Code: "LATE", Start: tod(15, 0), End: tod(23, 0), Working: true, ApplicableToMonitor: true}
}

func offsOn(res *Result, d time.Time) int {
	n := 0
	for _, a := range res.Assignments {
		if a.Date.Equal(d) && a.Code == "OFF" {
			n++
		}
	}
	return n
}

func TestGenerate_HighDemandOnlyForcedRest(t *testing.T) {
	in := june2025(monitors(10))
	in.Catalog = NewCatalog(append(testShifts(), lateShift()), []Category{
		{Code: "AM", MinTraders: 3, DisplayOrder: 1},
	}, nil, nil)
	in.Settings.MaxConsecutiveDays = 0 // 关闭连续天数上限，仅保留休息时间约束
	in.History = []Assignment{{EmployeeID: "m01", Date: day(2025, time.May, 31), Code: "LATE"}}
	in.Events = []DemandEvent{
		{Name: "Opener", Start: day(2025, time.June, 1), Priority: 1},
		{Name: "Final", Start: day(2025, time.June, 14), Priority: 2},
	}

	res := Generate(in)
	g := grid(res)

	assert.Equal(t, "OFF", g["m01"][dayKey(day(2025, time.June, 1))], "高需求日仍须保证强制休息")
	assert.Equal(t, 1, offsOn(res, day(2025, time.June, 1)), "高需求日只有强制休息者可以休息")
	assert.Zero(t, offsOn(res, day(2025, time.June, 14)), "高需求日不安排自愿休息")
	assert.Positive(t, offsOn(res, day(2025, time.June, 15)), "高需求日之后应恢复智能休息")
}

func TestGenerate_DailyOffCapRespected(t *testing.T) {
	in := june2025(monitors(10))
	in.Settings.MaxConsecutiveDays = 0

	res := Generate(in)
	limit := offCap(10, in.Settings.TargetOffRatio, false)
	require.Equal(t, 3, limit)

	total := 0
	for _, d := range MonthDays(2025, time.June) {
		n := offsOn(res, d)
		assert.LessOrEqual(t, n, limit, "%s 休息人数超过当日名额", dayKey(d))
		total += n
	}
	assert.Positive(t, total, "整月应安排休息")
}

func TestGenerate_AnchorFallsBackToRestShortCandidate(t *testing.T) {
	in := june2025([]Employee{
		{ID: "m01", Role: RoleMonitorTrader},
		{ID: "i01", Role: RoleInplayTrader},
		{ID: "i02", Role: RoleInplayTrader},
	})
	in.Catalog = NewCatalog(append(testShifts(), lateShift()), []Category{
		{Code: "AM", MinTraders: 1, DisplayOrder: 1},
	}, nil, nil)
	in.History = []Assignment{{EmployeeID: "m01", Date: day(2025, time.May, 31), Code: "LATE"}}

	res := Generate(in)
	g := grid(res)

	assert.Equal(t, "MON6", g["m01"][dayKey(day(2025, time.June, 1))], "无其他人选时锚定应使用休息不足的员工")
	assert.True(t, containsText(res.Audit.Record().Warnings, "2025-06-01 锚定规则 MONITOR_TRADER/AM 只能由休息时间不足的员工 m01 覆盖"))
}

func TestGenerate_AnchorNeverBreaksConsecutiveCap(t *testing.T) {
	in := june2025([]Employee{
		{ID: "m01", Role: RoleMonitorTrader},
		{ID: "i01", Role: RoleInplayTrader},
	})
	in.Settings.MaxConsecutiveDays = 3
	in.History = []Assignment{
		{EmployeeID: "m01", Date: day(2025, time.May, 29), Code: "MON6"},
		{EmployeeID: "m01", Date: day(2025, time.May, 30), Code: "MON6"},
		{EmployeeID: "m01", Date: day(2025, time.May, 31), Code: "MON6"},
	}

	res := Generate(in)
	g := grid(res)

	assert.Equal(t, "OFF", g["m01"][dayKey(day(2025, time.June, 1))])
	assert.True(t, containsText(res.Audit.Record().Warnings, "2025-06-01 锚定规则 MONITOR_TRADER/AM 没有可用的交易员"))
}

func TestGenerate_InapplicableAnchorWarnsOnce(t *testing.T) {
	in := june2025(monitors(5))
	in.Settings.AnchorRules = []AnchorRule{{Role: RoleInplayTrader, CategoryCode: "AM"}}

	res := Generate(in)
	rec := res.Audit.Record()

	n := 0
	for _, w := range rec.Warnings {
		if strings.Contains(w, "INPLAY_TRADER/AM") {
			n++
		}
	}
	assert.Equal(t, 1, n)
}

func TestGenerate_WeekendSuppression(t *testing.T) {
	in := june2025(monitors(5))
	in.Settings.WeekendScheduling = false

	res := Generate(in)

	for _, a := range res.Assignments {
		if isWeekend(a.Date) {
			assert.Equal(t, "OFF", a.Code, "%s 周末应休息", dayKey(a.Date))
		}
	}
	assert.Len(t, res.Assignments, 150)
}

func TestGenerate_EmptyRoster(t *testing.T) {
	in := june2025(nil)
	in.Employees = []Employee{{ID: "boss", Role: RoleManager}}

	res := Generate(in)

	assert.Equal(t, StatusFailed, res.Status())
	assert.Empty(t, res.Assignments)
	assert.Zero(t, res.TradersScheduled)
}

func TestGenerate_MissingOffShift(t *testing.T) {
	in := june2025(monitors(3))
	in.Catalog = NewCatalog(testShifts()[:4], nil, nil, nil)

	res := Generate(in)

	assert.Equal(t, StatusFailed, res.Status())
	assert.Empty(t, res.Assignments)
}

func TestGenerate_DuplicateEmployeesIgnored(t *testing.T) {
	in := june2025(monitors(5))
	in.Employees = append(in.Employees, Employee{ID: "m01", Role: RoleMonitorTrader})

	res := Generate(in)

	assert.Equal(t, 5, res.TradersScheduled)
	assert.Len(t, res.Assignments, 150)
}

func TestGenerate_InvalidMonth(t *testing.T) {
	in := june2025(monitors(5))
	in.Month = 13

	res := Generate(in)

	assert.Equal(t, StatusFailed, res.Status())
	assert.Empty(t, res.Assignments)
}

func TestGenerate_DecisionsCapped(t *testing.T) {
	in := june2025(monitors(8))
	in.Settings.MaxDecisions = 10

	rec := Generate(in).Audit.Record()

	require.Len(t, rec.Decisions, 11)
	assert.Contains(t, rec.Decisions[10], "未记录")
}

func containsText(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
